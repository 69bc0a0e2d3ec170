package values

// Atom

// Push implements Value.
func (a Atom[T]) Push(dst *[]T) Outcome {
	*dst = append(*dst, a.V)
	return continued()
}

// PushIndexed implements Value.
func (a Atom[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	*dst = append(*dst, Indexed[T]{Idx: idx, Value: a.V})
	return continued()
}

// PushBag implements Value.
func (a Atom[T]) PushBag(bag Bag[T]) Outcome {
	bag.Push(a.V)
	return continued()
}

// Fold implements Value.
func (a Atom[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	return acc.Add(a.V, op), continued()
}

// Next implements Value.
func (a Atom[T]) Next() (T, bool, Outcome) {
	return a.V, true, continued()
}

// Option

// Push implements Value.
func (o Option[T]) Push(dst *[]T) Outcome {
	if o.Ok {
		*dst = append(*dst, o.V)
	}
	return continued()
}

// PushIndexed implements Value.
func (o Option[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	if o.Ok {
		*dst = append(*dst, Indexed[T]{Idx: idx, Value: o.V})
	}
	return continued()
}

// PushBag implements Value.
func (o Option[T]) PushBag(bag Bag[T]) Outcome {
	if o.Ok {
		bag.Push(o.V)
	}
	return continued()
}

// Fold implements Value.
func (o Option[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	if o.Ok {
		acc = acc.Add(o.V, op)
	}
	return acc, continued()
}

// Next implements Value.
func (o Option[T]) Next() (T, bool, Outcome) {
	return o.V, o.Ok, continued()
}

// Vector

// Push implements Value.
func (v Vector[T]) Push(dst *[]T) Outcome {
	for x := range v.Seq {
		*dst = append(*dst, x)
	}
	return continued()
}

// PushIndexed implements Value.
func (v Vector[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	for x := range v.Seq {
		*dst = append(*dst, Indexed[T]{Idx: idx, Value: x})
	}
	return continued()
}

// PushBag implements Value.
func (v Vector[T]) PushBag(bag Bag[T]) Outcome {
	for x := range v.Seq {
		bag.Push(x)
	}
	return continued()
}

// Fold implements Value.
func (v Vector[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	for x := range v.Seq {
		acc = acc.Add(x, op)
	}
	return acc, continued()
}

// Next implements Value.
func (v Vector[T]) Next() (T, bool, Outcome) {
	for x := range v.Seq {
		return x, true, continued()
	}
	var zero T
	return zero, false, continued()
}

// WhilstAtom

// Push implements Value.
func (w WhilstAtom[T]) Push(dst *[]T) Outcome {
	if w.Stop {
		return whileStopped()
	}
	*dst = append(*dst, w.V)
	return continued()
}

// PushIndexed implements Value.
func (w WhilstAtom[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	if w.Stop {
		return whileStopped().At(idx)
	}
	*dst = append(*dst, Indexed[T]{Idx: idx, Value: w.V})
	return continued()
}

// PushBag implements Value.
func (w WhilstAtom[T]) PushBag(bag Bag[T]) Outcome {
	if w.Stop {
		return whileStopped()
	}
	bag.Push(w.V)
	return continued()
}

// Fold implements Value.
func (w WhilstAtom[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	if w.Stop {
		return acc, whileStopped()
	}
	return acc.Add(w.V, op), continued()
}

// Next implements Value.
func (w WhilstAtom[T]) Next() (T, bool, Outcome) {
	if w.Stop {
		var zero T
		return zero, false, whileStopped()
	}
	return w.V, true, continued()
}

// WhilstOption

// Push implements Value.
func (w WhilstOption[T]) Push(dst *[]T) Outcome {
	switch {
	case w.Stop:
		return whileStopped()
	case w.Ok:
		*dst = append(*dst, w.V)
	}
	return continued()
}

// PushIndexed implements Value.
func (w WhilstOption[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	switch {
	case w.Stop:
		return whileStopped().At(idx)
	case w.Ok:
		*dst = append(*dst, Indexed[T]{Idx: idx, Value: w.V})
	}
	return continued()
}

// PushBag implements Value.
func (w WhilstOption[T]) PushBag(bag Bag[T]) Outcome {
	switch {
	case w.Stop:
		return whileStopped()
	case w.Ok:
		bag.Push(w.V)
	}
	return continued()
}

// Fold implements Value.
func (w WhilstOption[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	switch {
	case w.Stop:
		return acc, whileStopped()
	case w.Ok:
		acc = acc.Add(w.V, op)
	}
	return acc, continued()
}

// Next implements Value.
func (w WhilstOption[T]) Next() (T, bool, Outcome) {
	if w.Stop {
		var zero T
		return zero, false, whileStopped()
	}
	return w.V, w.Ok, continued()
}

// WhilstVector

// Push implements Value.
func (w WhilstVector[T]) Push(dst *[]T) Outcome {
	for a := range w.Seq {
		if o := a.Push(dst); o.Stopped() {
			return o
		}
	}
	return continued()
}

// PushIndexed implements Value.
func (w WhilstVector[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	for a := range w.Seq {
		if o := a.PushIndexed(idx, dst); o.Stopped() {
			return o
		}
	}
	return continued()
}

// PushBag implements Value.
func (w WhilstVector[T]) PushBag(bag Bag[T]) Outcome {
	for a := range w.Seq {
		if o := a.PushBag(bag); o.Stopped() {
			return o
		}
	}
	return continued()
}

// Fold implements Value.
func (w WhilstVector[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	for a := range w.Seq {
		var o Outcome
		if acc, o = a.Fold(acc, op); o.Stopped() {
			return acc, o
		}
	}
	return acc, continued()
}

// Next implements Value.
func (w WhilstVector[T]) Next() (T, bool, Outcome) {
	for a := range w.Seq {
		return a.Next()
	}
	var zero T
	return zero, false, continued()
}

// Fallible

// Push implements Value.
func (f Fallible[T]) Push(dst *[]T) Outcome {
	if f.Inner != nil {
		if o := f.Inner.Push(dst); o.Stopped() {
			return o
		}
	}
	return f.tail()
}

// PushIndexed implements Value.
func (f Fallible[T]) PushIndexed(idx int, dst *[]Indexed[T]) Outcome {
	if f.Inner != nil {
		if o := f.Inner.PushIndexed(idx, dst); o.Stopped() {
			return o
		}
	}
	if o := f.tail(); o.Stopped() {
		return o.At(idx)
	}
	return continued()
}

// PushBag implements Value.
func (f Fallible[T]) PushBag(bag Bag[T]) Outcome {
	if f.Inner != nil {
		if o := f.Inner.PushBag(bag); o.Stopped() {
			return o
		}
	}
	return f.tail()
}

// Fold implements Value.
func (f Fallible[T]) Fold(acc Acc[T], op func(T, T) T) (Acc[T], Outcome) {
	if f.Inner != nil {
		var o Outcome
		if acc, o = f.Inner.Fold(acc, op); o.Stopped() {
			return acc, o
		}
	}
	return acc, f.tail()
}

// Next implements Value.
func (f Fallible[T]) Next() (T, bool, Outcome) {
	if f.Inner != nil {
		if v, ok, o := f.Inner.Next(); ok || o.Stopped() {
			return v, ok, o
		}
	}
	var zero T
	return zero, false, f.tail()
}

func (f Fallible[T]) tail() Outcome {
	if f.Err != nil {
		return errorStopped(f.Err)
	}
	return continued()
}
