// Opaque and phantom type variants: descriptors without a concrete machine
// representation, plus the small parametric helpers used during signature
// matching.

package types

import (
	"fmt"

	"github.com/tessera-lang/tessera/internal/errors"
)

// Opaque is a type compatible with an untyped pointer.
type Opaque struct {
	dummyBase
}

// NewOpaque interns an opaque type with the given canonical name.
func NewOpaque(name string) *Opaque {
	return intern(&Opaque{dummyBase{newBase(name, false)}})
}

// Phantom is a type that cannot be materialized. A phantom value cannot
// appear as an argument or return value of generated code.
type Phantom struct {
	dummyBase
}

// NewPhantom interns a phantom type with the given canonical name.
func NewPhantom(name string) *Phantom {
	return intern(&Phantom{dummyBase{newBase(name, false)}})
}

// NoneType is the type of the unit/none value.
type NoneType struct {
	dummyBase
}

// NewNoneType interns the none type. Use the None singleton instead of
// constructing further instances.
func NewNoneType(name string) *NoneType {
	return intern(&NoneType{dummyBase{newBase(name, false)}})
}

// Coerce turns anything into an optional type.
func (t *NoneType) Coerce(ctx Context, other Type) (Type, bool) {
	if o, ok := other.(*Optional); ok {
		return o, true
	}

	return NewOptional(other), true
}

// Kind is the type of a type, parametric on the type it classifies.
type Kind struct {
	typeBase
	of Type
}

// NewKind interns the kind of a type.
func NewKind(of Type) *Kind {
	if of == nil {
		panic(errors.InvalidParameter("Kind", "nil classified type"))
	}

	return intern(&Kind{
		typeBase: newBase(fmt.Sprintf("kind(%s)", of.Name()), false),
		of:       of,
	})
}

// Of returns the classified type.
func (t *Kind) Of() Type { return t.of }

func (t *Kind) Key() any { return t.of }

// VarArg marks a variable number of trailing arguments in a signature.
// Only used for signature matching, never for actual values.
type VarArg struct {
	typeBase
	dtype Type
}

// NewVarArg interns the variadic marker for an element type.
func NewVarArg(dtype Type) *VarArg {
	if dtype == nil {
		panic(errors.InvalidParameter("VarArg", "nil element type"))
	}

	return intern(&VarArg{
		typeBase: newBase("*"+dtype.Name(), false),
		dtype:    dtype,
	})
}

// DType returns the element type of the variadic tail.
func (t *VarArg) DType() Type { return t.dtype }

func (t *VarArg) Key() any { return t.dtype }
