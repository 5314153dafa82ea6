// Cast rule table: pairwise conversion facts registered by type post-init
// hooks and consulted by the coercion routine. Rules are keyed by type
// codes, so the table never keeps a descriptor alive; entries for dead
// codes are simply never hit again.

package types

import "sync"

// CastKind classifies a registered conversion between two types.
type CastKind int

const (
	// CastNone means no conversion is known.
	CastNone CastKind = iota
	// CastSafe is a value-preserving conversion.
	CastSafe
	// CastPromote is a widening conversion.
	CastPromote
)

func (k CastKind) String() string {
	switch k {
	case CastSafe:
		return "safe"
	case CastPromote:
		return "promote"
	default:
		return "none"
	}
}

var (
	castMu    sync.RWMutex
	castTable = make(map[[2]uint32]CastKind)
)

// RegisterSafeCast records a value-preserving conversion.
func RegisterSafeCast(from, to Type) {
	castMu.Lock()
	defer castMu.Unlock()
	castTable[[2]uint32{from.Code(), to.Code()}] = CastSafe
}

// RegisterPromote records a widening conversion.
func RegisterPromote(from, to Type) {
	castMu.Lock()
	defer castMu.Unlock()
	castTable[[2]uint32{from.Code(), to.Code()}] = CastPromote
}

// CanCast reports the registered conversion between two types. Identity is
// always safe, and any array converts safely to its layout-relaxed ('A')
// counterpart without an explicit rule.
func CanCast(from, to Type) CastKind {
	if from == to {
		return CastSafe
	}

	castMu.RLock()
	kind := castTable[[2]uint32{from.Code(), to.Code()}]
	castMu.RUnlock()

	if kind != CastNone {
		return kind
	}

	if fa, ok := from.(*Array); ok {
		if ta, ok := to.(*Array); ok {
			if fa.dtype == ta.dtype && fa.ndim == ta.ndim &&
				fa.mutable == ta.mutable && ta.layout == LayoutA {
				return CastSafe
			}
		}
	}

	return CastNone
}
