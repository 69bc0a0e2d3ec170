package params

import (
	"strconv"
	"strings"

	"github.com/baxromumarov/parx/internal/errors"
)

// Parse builds Params from their textual forms, as accepted on command lines
// and in configuration files:
//
//	threads: "auto" | "N"
//	chunk:   "auto" | "N" | "exact:N" | "min:N"   (a bare N means min:N)
//	order:   "ordered" | "arbitrary"
//
// Empty strings mean auto / ordered. Every invalid field is reported.
func Parse(threads, chunk, order string) (Params, error) {
	var (
		p    Params
		errs *errors.MultiError
	)

	n, err := parseThreads(threads)
	errs = errs.Append(err)
	p.NumThreads = n

	c, err := parseChunk(chunk)
	errs = errs.Append(err)
	p.ChunkSize = c

	o, err := parseOrder(order)
	errs = errs.Append(err)
	p.Order = o

	if err := errs.ErrorOrNil(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func parseThreads(s string) (NumThreads, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return Auto, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Auto, errors.Errorf("invalid thread count %q: expected \"auto\" or a non-negative integer", s)
	}
	if n < 0 {
		return Auto, errors.Errorf("invalid thread count %d: must be non-negative", n)
	}
	return NumThreads(n), nil
}

func parseChunk(s string) (ChunkSize, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return AutoChunk, nil
	}

	kind, num := "min", s
	if before, after, found := strings.Cut(s, ":"); found {
		kind, num = before, after
	}

	n, err := strconv.Atoi(num)
	if err != nil {
		return AutoChunk, errors.Errorf("invalid chunk size %q: expected auto, N, exact:N or min:N", s)
	}
	if n < 0 {
		return AutoChunk, errors.Errorf("invalid chunk size %d: must be non-negative", n)
	}

	switch kind {
	case "exact":
		return Exact(n), nil
	case "min":
		return Min(n), nil
	default:
		return AutoChunk, errors.Errorf("invalid chunk size kind %q: expected exact or min", kind)
	}
}

func parseOrder(s string) (IterationOrder, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "ordered":
		return Ordered, nil
	case "arbitrary", "unordered":
		return Arbitrary, nil
	default:
		return Ordered, errors.Errorf("invalid iteration order %q: expected ordered or arbitrary", s)
	}
}
