// Abstract type layer for the Tessera compiler.
// Every type used by inference and code generation is a canonical, interned
// descriptor carrying a stable integer code for fast dispatch tables.

package types

import (
	"hash/maphash"
	"reflect"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Core Protocol ======

// Type is the contract implemented by every Tessera type descriptor.
//
// Proper equality comparison is essential: the default implementation uses
// the Key value (overridable by concrete variants) for both comparison and
// hashing. Descriptors are interned, so two descriptors of the same concrete
// variant with equal keys are always the same pointer.
type Type interface {
	// Name is the canonical human-readable label, used in diagnostics.
	Name() string

	// Key derives the value used for equality and hashing. It must be
	// comparable and deterministic over the constructor parameters.
	// The default is the name.
	Key() any

	// Code is the process-wide unique integer assigned at interning time.
	Code() uint32

	// Mutable reports whether values of this type can be mutated in place.
	Mutable() bool

	// IsParametric reports whether the variant carries parameters that
	// distinguish instances beyond the name alone.
	IsParametric() bool

	// Cast converts a runtime value to this type. Variants that do not
	// implement casting return a CAST_UNSUPPORTED error; a bad input value
	// returns a CAST_FAILED error.
	Cast(value any) (any, error)

	// Coerce implements specialized coercion logic extending the typing
	// context's pairwise unification. The second result is false when the
	// type has no specialized rule for the pair.
	Coerce(ctx Context, other Type) (Type, bool)

	// BuildSignature builds a call signature returning this type with the
	// given parameter types, in order.
	BuildSignature(args ...Type) Signature

	// Index derives an interned array-of-this-type descriptor from
	// indexing-like dimension specs.
	Index(dims ...Dim) *Array

	String() string

	base() *typeBase
}

// Context is the opaque typing context passed into callable resolution and
// coercion. Only pairwise unification is consumed by this layer.
type Context interface {
	// UnifyPairs resolves the common type of a pair, or reports failure.
	UnifyPairs(a, b Type) (Type, bool)
}

// ====== Capability Categories ======

// DummyType is the category of types without a real representation,
// compatible with an untyped pointer.
type DummyType interface {
	Type
	isDummy()
}

// NumberType is the category of numeric types.
type NumberType interface {
	Type
	isNumber()
}

// CallableType is the category of callable types.
type CallableType interface {
	Type

	// GetCallType resolves the callable's signature for the given
	// positional and keyword argument types using the typing context.
	// The second result is false when no applicable signature exists;
	// that is an expected negative outcome, not an error.
	GetCallType(ctx Context, args []Type, kws map[string]Type) (Signature, bool)
}

// DTypeSpec is the category of types usable as element-type ("dtype")
// arguments to array construction APIs.
type DTypeSpec interface {
	Type

	// DType is the actual element type denoted by this spec.
	DType() Type
}

// IterableType is the category of iterable types.
type IterableType interface {
	Type

	// IteratorType is the type obtained by iterating.
	IteratorType() IteratorType
}

// IteratorType is the category of iterator types. An iterator is its own
// iterator type.
type IteratorType interface {
	IterableType

	// YieldType is the type of values yielded per step.
	YieldType() Type
}

// ====== Base Descriptor ======

// typeBase carries the state shared by every descriptor variant. Concrete
// variants embed it and override Key, Cast and Coerce as needed.
type typeBase struct {
	name       string
	parametric bool
	mutable    bool
	code       uint32
	// self is the finalized canonical descriptor embedding this base.
	// Assigned by the registry during the finalize step.
	self Type
}

func newBase(name string, parametric bool) typeBase {
	return typeBase{name: name, parametric: parametric}
}

func (b *typeBase) Name() string { return b.name }

func (b *typeBase) Key() any { return b.name }

func (b *typeBase) Code() uint32 { return b.code }

func (b *typeBase) Mutable() bool { return b.mutable }

func (b *typeBase) IsParametric() bool { return b.parametric }

func (b *typeBase) String() string { return b.name }

func (b *typeBase) base() *typeBase { return b }

// Cast is the default caster: not supported.
func (b *typeBase) Cast(value any) (any, error) {
	return nil, errors.CastUnsupported(b.name)
}

// Coerce is the default coercion hook: no specialized rule.
func (b *typeBase) Coerce(ctx Context, other Type) (Type, bool) {
	return nil, false
}

// ====== Category Bases ======

// dummyBase marks types without a machine representation.
type dummyBase struct{ typeBase }

func (dummyBase) isDummy() {}

// numberBase marks numeric types.
type numberBase struct{ typeBase }

func (numberBase) isNumber() {}

// ====== Key Equality ======

// internKey identifies a canonical equality class: the concrete variant plus
// the derived key. Cross-variant descriptors are never equal, even with
// equal keys.
type internKey struct {
	variant reflect.Type
	key     any
}

func internKeyOf(t Type) internKey {
	return internKey{variant: reflect.TypeOf(t), key: t.Key()}
}

// Equal reports whether two descriptors denote the same type. Interning
// makes this equivalent to pointer identity for registry-built descriptors;
// the key protocol is still consulted so provisional descriptors compare
// correctly before finalization.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	return internKeyOf(a) == internKeyOf(b)
}

var hashSeed = maphash.MakeSeed()

// Hash returns a hash consistent with Equal.
func Hash(t Type) uint64 {
	return maphash.Comparable(hashSeed, internKeyOf(t))
}
