// Tuple type variants: homogeneous (UniTuple) and heterogeneous (Tuple)
// fixed-size tuples, plus the UniTuple iterator.

package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tessera-lang/tessera/internal/errors"
)

// BaseTuple is the category shared by all tuple variants of known size.
type BaseTuple interface {
	Type
	Len() int
	ElementTypes() []Type
}

// ====== UniTuple ======

type uniTupleKey struct {
	dtype Type
	count int
}

// UniTuple is a homogeneous tuple: count elements of a single type.
type UniTuple struct {
	typeBase
	dtype Type
	count int
}

// NewUniTuple interns a homogeneous tuple type.
func NewUniTuple(dtype Type, count int) *UniTuple {
	var name string
	if dtype != nil {
		name = fmt.Sprintf("(%s x %d)", dtype.Name(), count)
	}

	return intern(&UniTuple{typeBase: newBase(name, true), dtype: dtype, count: count})
}

func (t *UniTuple) validateConstruction() {
	if t.dtype == nil {
		panic(errors.InvalidParameter("UniTuple", "nil element type"))
	}
	if t.count < 0 {
		panic(errors.InvalidParameter("UniTuple", "negative element count"))
	}
}

func (t *UniTuple) Key() any { return uniTupleKey{dtype: t.dtype, count: t.count} }

// DType returns the element type.
func (t *UniTuple) DType() Type { return t.dtype }

// Len returns the element count.
func (t *UniTuple) Len() int { return t.count }

// Element returns the type at a position; every position has the same type.
func (t *UniTuple) Element(int) Type { return t.dtype }

// ElementTypes returns the element types, expanded.
func (t *UniTuple) ElementTypes() []Type {
	out := make([]Type, t.count)
	for i := range out {
		out[i] = t.dtype
	}

	return out
}

// IteratorType returns the iterator over the tuple elements.
func (t *UniTuple) IteratorType() IteratorType {
	return NewUniTupleIter(t)
}

// Coerce unifies two same-sized UniTuples element-wise.
func (t *UniTuple) Coerce(ctx Context, other Type) (Type, bool) {
	o, ok := other.(*UniTuple)
	if !ok || o.count != t.count {
		return nil, false
	}

	dtype, ok := ctx.UnifyPairs(t.dtype, o.dtype)
	if !ok {
		return nil, false
	}

	return NewUniTuple(dtype, t.count), true
}

// UniTupleIter is the iterator type of a UniTuple.
type UniTupleIter struct {
	SimpleIteratorType
	unituple *UniTuple
}

// NewUniTupleIter interns the iterator type of a UniTuple.
func NewUniTupleIter(unituple *UniTuple) *UniTupleIter {
	return intern(&UniTupleIter{
		SimpleIteratorType: makeSimpleIterator(fmt.Sprintf("iter(%s)", unituple.Name()), unituple.DType()),
		unituple:           unituple,
	})
}

func (t *UniTupleIter) Key() any { return t.unituple }

// ====== Tuple ======

// Tuple is a heterogeneous fixed-size tuple.
type Tuple struct {
	typeBase
	types []Type
}

// NewTuple interns a heterogeneous tuple type.
func NewTuple(elems []Type) *Tuple {
	names := make([]string, len(elems))
	for i, e := range elems {
		if e == nil {
			panic(errors.InvalidParameter("Tuple", "nil element type"))
		}
		names[i] = e.Name()
	}

	return intern(&Tuple{
		typeBase: newBase(fmt.Sprintf("(%s)", strings.Join(names, ", ")), true),
		types:    slices.Clone(elems),
	})
}

// Element names are canonical, so the derived name keys the tuple.

// Len returns the element count.
func (t *Tuple) Len() int { return len(t.types) }

// Element returns the type at a position.
func (t *Tuple) Element(i int) Type { return t.types[i] }

// ElementTypes returns the element types in order.
func (t *Tuple) ElementTypes() []Type { return slices.Clone(t.types) }

// Coerce unifies same-sized tuples element-wise; it fails when any pair
// fails to unify.
func (t *Tuple) Coerce(ctx Context, other Type) (Type, bool) {
	o, ok := other.(BaseTuple)
	if !ok || o.Len() != len(t.types) {
		return nil, false
	}

	otherTypes := o.ElementTypes()
	unified := make([]Type, len(t.types))
	for i, e := range t.types {
		u, ok := ctx.UnifyPairs(e, otherTypes[i])
		if !ok {
			return nil, false
		}
		unified[i] = u
	}

	return NewTuple(unified), true
}
