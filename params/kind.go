package params

// ComputationKind tells the resolver what a computation does with its chunks.
// Collections tolerate large chunks; early-return computations prefer small
// ones so that a stop is noticed soon.
type ComputationKind uint8

const (
	Collect ComputationKind = iota
	Reduce
	EarlyReturn
)

func (k ComputationKind) String() string {
	switch k {
	case Collect:
		return "collect"
	case Reduce:
		return "reduce"
	case EarlyReturn:
		return "early-return"
	default:
		return "unknown"
	}
}

type kindTuning struct {
	maxChunk     int
	rounds       int
	unknownChunk int
}

func (k ComputationKind) tuning() kindTuning {
	switch k {
	case EarlyReturn:
		return kindTuning{maxChunk: 1 << 10, rounds: 6, unknownChunk: 4}
	default:
		return kindTuning{maxChunk: 1 << 14, rounds: 3, unknownChunk: MinAutoChunk}
	}
}
