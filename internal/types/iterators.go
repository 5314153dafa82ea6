// Iterable and iterator type variants. An iterator type is its own iterator
// (the fixed point is installed by the registry's post-init hook, once the
// canonical descriptor exists).

package types

import (
	"fmt"
	"strings"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Simple Iterable ======

// SimpleIterableType is an iterable parametric on its iterator type.
type SimpleIterableType struct {
	typeBase
	itr IteratorType
}

func makeSimpleIterable(name string, itr IteratorType) SimpleIterableType {
	return SimpleIterableType{typeBase: newBase(name, true), itr: itr}
}

// NewSimpleIterableType interns an iterable with an explicit iterator type.
func NewSimpleIterableType(name string, itr IteratorType) *SimpleIterableType {
	s := makeSimpleIterable(name, itr)

	return intern(&s)
}

func (t *SimpleIterableType) validateConstruction() {
	if t.itr == nil {
		panic(errors.IncompleteCapability(t.name, "IteratorType"))
	}
}

// IteratorType returns the type produced by iterating.
func (t *SimpleIterableType) IteratorType() IteratorType { return t.itr }

// ====== Simple Iterator ======

// SimpleIteratorType is an iterator parametric on its yield type.
type SimpleIteratorType struct {
	typeBase
	yield Type
	itr   IteratorType
}

func makeSimpleIterator(name string, yield Type) SimpleIteratorType {
	return SimpleIteratorType{typeBase: newBase(name, true), yield: yield}
}

// NewSimpleIteratorType interns an iterator with an explicit yield type.
func NewSimpleIteratorType(name string, yield Type) *SimpleIteratorType {
	s := makeSimpleIterator(name, yield)

	return intern(&s)
}

func (t *SimpleIteratorType) validateConstruction() {
	if t.yield == nil {
		panic(errors.IncompleteCapability(t.name, "YieldType"))
	}
}

// postInit installs the iterator fixed point: the iterator of an iterator is
// the canonical descriptor itself.
func (t *SimpleIteratorType) postInit() {
	t.itr = t.self.(IteratorType)
}

// YieldType returns the type yielded per step.
func (t *SimpleIteratorType) YieldType() Type { return t.yield }

// IteratorType returns the iterator itself.
func (t *SimpleIteratorType) IteratorType() IteratorType { return t.itr }

// ====== Range ======

// RangeType is the state of an integer range iteration.
type RangeType struct {
	SimpleIterableType
}

// NewRangeType interns a range state type with its iterator.
func NewRangeType(name string, itr IteratorType) *RangeType {
	return intern(&RangeType{SimpleIterableType: makeSimpleIterable(name, itr)})
}

// RangeIteratorType is the iterator over an integer range.
type RangeIteratorType struct {
	SimpleIteratorType
}

// NewRangeIteratorType interns a range iterator yielding the given integer
// type.
func NewRangeIteratorType(name string, yield Type) *RangeIteratorType {
	return intern(&RangeIteratorType{SimpleIteratorType: makeSimpleIterator(name, yield)})
}

// ====== Array Iterator ======

// ArrayIterator iterates a buffer-family type: rank 0 and 1 yield the
// element type, higher ranks yield a view with one dimension stripped.
type ArrayIterator struct {
	SimpleIteratorType
	arrayType Type
}

// NewArrayIterator interns the iterator type of a buffer-family type.
func NewArrayIterator(ary BufferLike) *ArrayIterator {
	var yield Type
	if ary.Ndim() <= 1 {
		yield = ary.DType()
	} else {
		yield = ary.WithNdim(ary.Ndim() - 1)
	}

	return intern(&ArrayIterator{
		SimpleIteratorType: makeSimpleIterator(fmt.Sprintf("iter(%s)", ary.Name()), yield),
		arrayType:          ary,
	})
}

// ArrayType returns the iterated type.
func (t *ArrayIterator) ArrayType() Type { return t.arrayType }

// ====== Enumerate ======

// EnumerateType iterates a source while counting: it yields (index, value)
// tuples.
type EnumerateType struct {
	SimpleIteratorType
	source IteratorType
}

// NewEnumerateType interns the enumeration of an iterable.
func NewEnumerateType(iterable IterableType) *EnumerateType {
	source := iterable.IteratorType()
	yield := NewTuple([]Type{Intp, source.YieldType()})

	return intern(&EnumerateType{
		SimpleIteratorType: makeSimpleIterator(fmt.Sprintf("enumerate(%s)", source.Name()), yield),
		source:             source,
	})
}

func (t *EnumerateType) Key() any { return t.source }

// Source returns the underlying iterator type.
func (t *EnumerateType) Source() IteratorType { return t.source }

// ====== Zip ======

// ZipType iterates several sources in lockstep, yielding a tuple of their
// yields.
type ZipType struct {
	SimpleIteratorType
	sources []IteratorType
}

// NewZipType interns the zip of several iterables.
func NewZipType(iterables []IterableType) *ZipType {
	sources := make([]IteratorType, len(iterables))
	yields := make([]Type, len(iterables))
	names := make([]string, len(iterables))
	for i, it := range iterables {
		sources[i] = it.IteratorType()
		yields[i] = sources[i].YieldType()
		names[i] = sources[i].Name()
	}

	// Source names are canonical, so the derived name keys the zip.
	return intern(&ZipType{
		SimpleIteratorType: makeSimpleIterator(
			fmt.Sprintf("zip(%s)", strings.Join(names, ", ")), NewTuple(yields)),
		sources: sources,
	})
}

// Sources returns the underlying iterator types in order.
func (t *ZipType) Sources() []IteratorType {
	out := make([]IteratorType, len(t.sources))
	copy(out, t.sources)

	return out
}

// ====== Generator ======

// Generator is the type of a compiled generator object.
type Generator struct {
	SimpleIteratorType
	genFunc      string
	argTypes     []Type
	stateTypes   []Type
	hasFinalizer bool
}

// NewGenerator interns a generator type. genFunc is the symbol of the
// generating function; argTypes and stateTypes describe its arguments and
// persistent state slots.
func NewGenerator(genFunc string, yield Type, argTypes, stateTypes []Type, hasFinalizer bool) *Generator {
	argNames := make([]string, len(argTypes))
	for i, a := range argTypes {
		argNames[i] = a.Name()
	}

	var yieldName string
	if yield != nil {
		yieldName = yield.Name()
	}

	name := fmt.Sprintf("%s generator(func=%s, args=(%s), has_finalizer=%v)",
		yieldName, genFunc, strings.Join(argNames, ", "), hasFinalizer)

	g := &Generator{
		SimpleIteratorType: makeSimpleIterator(name, yield),
		genFunc:            genFunc,
		hasFinalizer:       hasFinalizer,
	}
	g.argTypes = append(g.argTypes, argTypes...)
	g.stateTypes = append(g.stateTypes, stateTypes...)

	return intern(g)
}

// GenFunc returns the symbol of the generating function.
func (t *Generator) GenFunc() string { return t.genFunc }

// ArgTypes returns the argument types of the generating function.
func (t *Generator) ArgTypes() []Type {
	out := make([]Type, len(t.argTypes))
	copy(out, t.argTypes)

	return out
}

// StateTypes returns the types of the persistent state slots.
func (t *Generator) StateTypes() []Type {
	out := make([]Type, len(t.stateTypes))
	copy(out, t.stateTypes)

	return out
}

// HasFinalizer reports whether the generator requires a finalizer.
func (t *Generator) HasFinalizer() bool { return t.hasFinalizer }
