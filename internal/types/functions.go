// Callable and dtype-spec type variants. A callable resolves its invocation
// signature through a CallTemplate supplied by the typing layer; a variant
// finalized without one is a programming error, caught at construction.

package types

import (
	"fmt"

	"github.com/tessera-lang/tessera/internal/errors"
)

// CallTemplate resolves call signatures for a callable type. Implementations
// must be comparable values: the template identity is part of the callable's
// interning key.
type CallTemplate interface {
	// Name labels the template in diagnostics and type names.
	Name() string

	// Apply resolves a signature for the given argument types, or reports
	// that no applicable signature exists.
	Apply(ctx Context, args []Type, kws map[string]Type) (Signature, bool)
}

// ====== Function ======

// Function is an opaque callable resolved through a template.
type Function struct {
	dummyBase
	template CallTemplate
}

// NewFunction interns a function type backed by a call template.
func NewFunction(template CallTemplate) *Function {
	name := "Function(<incomplete>)"
	if template != nil {
		name = fmt.Sprintf("Function(%s)", template.Name())
	}

	return intern(&Function{
		dummyBase: dummyBase{newBase(name, false)},
		template:  template,
	})
}

func (t *Function) validateConstruction() {
	if t.template == nil {
		panic(errors.IncompleteCapability("Function", "CallTemplate"))
	}
}

func (t *Function) Key() any { return t.template }

// Template returns the backing call template.
func (t *Function) Template() CallTemplate { return t.template }

// GetCallType resolves the callable's signature for the given arguments.
func (t *Function) GetCallType(ctx Context, args []Type, kws map[string]Type) (Signature, bool) {
	return t.template.Apply(ctx, args, kws)
}

// ====== BoundFunction ======

type boundFunctionKey struct {
	template CallTemplate
	recv     Type
}

// BoundFunction is a callable bound to a receiver type.
type BoundFunction struct {
	dummyBase
	template CallTemplate
	recv     Type
}

// NewBoundFunction interns a callable bound to a receiver.
func NewBoundFunction(template CallTemplate, recv Type) *BoundFunction {
	name := "BoundFunction(<incomplete>)"
	if template != nil && recv != nil {
		name = fmt.Sprintf("%s.%s", template.Name(), recv.Name())
	}

	return intern(&BoundFunction{
		dummyBase: dummyBase{newBase(name, false)},
		template:  template,
		recv:      recv,
	})
}

func (t *BoundFunction) validateConstruction() {
	if t.template == nil {
		panic(errors.IncompleteCapability("BoundFunction", "CallTemplate"))
	}
	if t.recv == nil {
		panic(errors.InvalidParameter("BoundFunction", "nil receiver type"))
	}
}

func (t *BoundFunction) Key() any {
	return boundFunctionKey{template: t.template, recv: t.recv}
}

// Recv returns the receiver type.
func (t *BoundFunction) Recv() Type { return t.recv }

// GetCallType resolves the signature and attaches the receiver.
func (t *BoundFunction) GetCallType(ctx Context, args []Type, kws map[string]Type) (Signature, bool) {
	sig, ok := t.template.Apply(ctx, args, kws)
	if !ok {
		return Signature{}, false
	}
	sig.Recv = t.recv

	return sig, true
}

// ====== NumberClass ======

// NumberClass is the type of a number class itself (e.g. "type(int32)"):
// callable as a value constructor and usable as a dtype argument.
type NumberClass struct {
	dummyBase
	instance Type
	template CallTemplate
}

// NewNumberClass interns the class type of a numeric instance type.
func NewNumberClass(instance Type, template CallTemplate) *NumberClass {
	var name string
	if instance != nil {
		name = fmt.Sprintf("type(%s)", instance.Name())
	}

	return intern(&NumberClass{
		dummyBase: dummyBase{newBase(name, false)},
		instance:  instance,
		template:  template,
	})
}

func (t *NumberClass) validateConstruction() {
	if t.instance == nil {
		panic(errors.InvalidParameter("NumberClass", "nil instance type"))
	}
	if t.template == nil {
		panic(errors.IncompleteCapability("NumberClass", "CallTemplate"))
	}
}

// DType returns the instance type this class denotes.
func (t *NumberClass) DType() Type { return t.instance }

// GetCallType resolves a constructor call signature.
func (t *NumberClass) GetCallType(ctx Context, args []Type, kws map[string]Type) (Signature, bool) {
	return t.template.Apply(ctx, args, kws)
}

// ====== DType ======

// DType is the opaque type of a dtype value.
type DType struct {
	dummyBase
	dtype Type
}

// NewDType interns the dtype-spec wrapper of a type.
func NewDType(dtype Type) *DType {
	var name string
	if dtype != nil {
		name = fmt.Sprintf("dtype(%s)", dtype.Name())
	}

	return intern(&DType{dummyBase: dummyBase{newBase(name, false)}, dtype: dtype})
}

func (t *DType) validateConstruction() {
	if t.dtype == nil {
		panic(errors.IncompleteCapability("DType", "DType"))
	}
}

// DType returns the denoted element type.
func (t *DType) DType() Type { return t.dtype }
