// Construction facade: the conveniences layered on every type descriptor.
// Invoking a descriptor as a caster is Cast (see abstract.go); the two
// operations here are the signature builder and derived array construction
// from indexing-like dimension specs.

package types

// Dim is one indexing dimension. Step mirrors the step of a slice
// expression; a step of exactly 1 marks the dimension contiguous.
type Dim struct {
	Step int
}

// Contiguous is the step-1 dimension spec.
func Contiguous() Dim { return Dim{Step: 1} }

// Strided is a non-contiguous dimension spec.
func Strided() Dim { return Dim{Step: 0} }

// BuildSignature builds a call signature whose return type is this
// descriptor and whose parameter types are the arguments, in order.
func (b *typeBase) BuildSignature(args ...Type) Signature {
	return Signature{Return: b.self, Args: args}
}

// Index returns an array of this type. The rank is the number of dimension
// specs and the layout is derived from their steps.
func (b *typeBase) Index(dims ...Dim) *Array {
	ndim, layout := deriveArraySpec(dims)

	return NewArray(b.self, ndim, layout, false)
}

// deriveArraySpec maps dimension specs to a rank and memory layout:
// a single step-1 dimension is C order; for several dimensions, step 1 first
// means F order, step 1 last means C order, anything else is 'A'
// (non-contiguous). An empty spec defaults to rank 1, layout 'A'.
func deriveArraySpec(dims []Dim) (int, Layout) {
	switch {
	case len(dims) == 0:
		return 1, LayoutA
	case len(dims) == 1:
		if dims[0].Step == 1 {
			return 1, LayoutC
		}

		return 1, LayoutA
	default:
		switch {
		case dims[0].Step == 1:
			return len(dims), LayoutF
		case dims[len(dims)-1].Step == 1:
			return len(dims), LayoutC
		default:
			return len(dims), LayoutA
		}
	}
}
