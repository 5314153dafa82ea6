// Predefined canonical type singletons. Package-level references make these
// immortal: their registry entries and codes are stable for the life of the
// process.

package types

import (
	"math/bits"
	"sort"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Singletons ======

var (
	Bool = NewBoolean("bool")

	Int8  = NewInteger("int8")
	Int16 = NewInteger("int16")
	Int32 = NewInteger("int32")
	Int64 = NewInteger("int64")

	Uint8  = NewInteger("uint8")
	Uint16 = NewInteger("uint16")
	Uint32 = NewInteger("uint32")
	Uint64 = NewInteger("uint64")

	Float32 = NewFloat("float32")
	Float64 = NewFloat("float64")

	Complex64  = NewComplex("complex64", Float32)
	Complex128 = NewComplex("complex128", Float64)

	None       = NewNoneType("none")
	Any        = NewPhantom("any")
	Object     = NewOpaque("object")
	StringType = NewOpaque("str")
	// VoidPtr can only be passed around; no operation is defined on it.
	VoidPtr = NewOpaque("void*")
)

// Machine-width integer types.
var (
	Intp  = machineInt(Int32, Int64)
	Uintp = machineInt(Uint32, Uint64)
)

func machineInt(narrow, wide *Integer) *Integer {
	if bits.UintSize == 32 {
		return narrow
	}

	return wide
}

// Phantom builtin markers used during call typing.
var (
	LenFunc   = NewPhantom("len")
	RangeFunc = NewPhantom("range")
	SliceFunc = NewPhantom("slice")
	AbsFunc   = NewPhantom("abs")
	NegFunc   = NewPhantom("neg")
	PrintFunc = NewPhantom("print")
	SignFunc  = NewPhantom("sign")
)

// Slice3Type is the type of three-component slice values.
type Slice3Type struct {
	typeBase
}

// Slice3 is the slice value type singleton.
var Slice3 = intern(&Slice3Type{newBase("slice3", false)})

// Range state and iterator singletons.
var (
	RangeIter32         = NewRangeIteratorType("range_iter32", Int32)
	RangeIter64         = NewRangeIteratorType("range_iter64", Int64)
	UnsignedRangeIter64 = NewRangeIteratorType("unsigned_range_iter64", Uint64)

	RangeState32         = NewRangeType("range_state32", RangeIter32)
	RangeState64         = NewRangeType("range_state64", RangeIter64)
	UnsignedRangeState64 = NewRangeType("unsigned_range_state64", UnsignedRangeIter64)
)

// ====== Numeric Domains ======

var (
	SignedDomain   map[Type]struct{}
	UnsignedDomain map[Type]struct{}
	IntegerDomain  map[Type]struct{}
	RealDomain     map[Type]struct{}
	ComplexDomain  map[Type]struct{}
	NumberDomain   map[Type]struct{}
)

func domain(ts ...Type) map[Type]struct{} {
	d := make(map[Type]struct{}, len(ts))
	for _, t := range ts {
		d[t] = struct{}{}
	}

	return d
}

func union(ds ...map[Type]struct{}) map[Type]struct{} {
	out := make(map[Type]struct{})
	for _, d := range ds {
		for t := range d {
			out[t] = struct{}{}
		}
	}

	return out
}

// IsNumeric reports whether a type belongs to the numeric domain.
func IsNumeric(t Type) bool {
	_, ok := NumberDomain[t]

	return ok
}

// ====== Numeric Promotion ======

type promotion struct {
	target Type
	unsafe bool
}

var promoteTable map[Type]promotion

// PromoteNumeric returns the next wider numeric type for t and whether the
// promotion can lose precision. A nil result with a nil error means no
// promotion is available; a non-numeric input is an error.
func PromoteNumeric(t Type) (Type, bool, error) {
	if p, ok := promoteTable[t]; ok {
		return p.target, p.unsafe, nil
	}
	if !IsNumeric(t) {
		return nil, false, errors.InvalidParameter("PromoteNumeric", t.Name()+" is not a numeric type")
	}

	return nil, false, nil
}

// ====== Lookup ======

var predefinedByName = make(map[string]Type)

func registerPredefined(t Type, aliases ...string) {
	predefinedByName[t.Name()] = t
	for _, a := range aliases {
		predefinedByName[a] = t
	}
}

// PredefinedByName resolves a predefined singleton by canonical name or
// alias.
func PredefinedByName(name string) (Type, bool) {
	t, ok := predefinedByName[name]

	return t, ok
}

// Predefined returns the predefined singletons ordered by code.
func Predefined() []Type {
	seen := make(map[Type]struct{}, len(predefinedByName))
	out := make([]Type, 0, len(predefinedByName))
	for _, t := range predefinedByName {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code() < out[j].Code() })

	return out
}

func init() {
	SignedDomain = domain(Int8, Int16, Int32, Int64)
	UnsignedDomain = domain(Uint8, Uint16, Uint32, Uint64)
	IntegerDomain = union(SignedDomain, UnsignedDomain)
	RealDomain = domain(Float32, Float64)
	ComplexDomain = domain(Complex64, Complex128)
	NumberDomain = union(IntegerDomain, RealDomain, ComplexDomain)

	promoteTable = map[Type]promotion{
		Int8:      {Int16, false},
		Uint8:     {Uint16, false},
		Int16:     {Int32, false},
		Uint16:    {Uint32, false},
		Int32:     {Int64, false},
		Uint32:    {Uint64, false},
		Int64:     {Float64, true},
		Uint64:    {Float64, true},
		Float32:   {Float64, false},
		Complex64: {Complex128, true},
	}

	registerPredefined(Bool, "b1", "boolean")
	registerPredefined(Int8, "i1")
	registerPredefined(Int16, "i2")
	registerPredefined(Int32, "i4")
	registerPredefined(Int64, "i8")
	registerPredefined(Uint8, "u1", "byte")
	registerPredefined(Uint16, "u2")
	registerPredefined(Uint32, "u4")
	registerPredefined(Uint64, "u8")
	registerPredefined(Float32, "f4", "float")
	registerPredefined(Float64, "f8", "double")
	registerPredefined(Complex64, "c8")
	registerPredefined(Complex128, "c16")
	registerPredefined(None, "void")
	registerPredefined(Any)
	registerPredefined(Object)
	registerPredefined(StringType)
	registerPredefined(VoidPtr)
	registerPredefined(Slice3)
	registerPredefined(RangeIter32)
	registerPredefined(RangeIter64)
	registerPredefined(UnsignedRangeIter64)
	registerPredefined(RangeState32)
	registerPredefined(RangeState64)
	registerPredefined(UnsignedRangeState64)
	registerPredefined(LenFunc)
	registerPredefined(RangeFunc)
	registerPredefined(SliceFunc)
	registerPredefined(AbsFunc)
	registerPredefined(NegFunc)
	registerPredefined(PrintFunc)
	registerPredefined(SignFunc)

	// Machine-width aliases resolve to the width-specific singletons.
	registerPredefined(Intp, "intp")
	registerPredefined(Uintp, "uintp")
}
