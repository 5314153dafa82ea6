// Tests for buffer, array, pointer, record and optional variants.

package types

import (
	"testing"

	"github.com/tessera-lang/tessera/internal/errors"
)

func expectPanicCode(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected construction panic")
		}
		se, ok := r.(*errors.StandardError)
		if !ok || se.Code != code {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	fn()
}

// ====== Arrays ======

func TestArrayNaming(t *testing.T) {
	tests := []struct {
		dtype    Type
		ndim     int
		layout   Layout
		readonly bool
		want     string
	}{
		{Float64, 2, LayoutC, false, "array(float64, 2d, C)"},
		{Int32, 1, LayoutA, false, "array(int32, 1d, A)"},
		{Float32, 3, LayoutF, true, "readonly array(float32, 3d, F)"},
	}

	for _, tc := range tests {
		ary := NewArray(tc.dtype, tc.ndim, tc.layout, tc.readonly)
		if ary.Name() != tc.want {
			t.Errorf("name = %q, want %q", ary.Name(), tc.want)
		}
		if ary.Mutable() == tc.readonly {
			t.Errorf("%s: mutable = %v with readonly = %v", ary.Name(), ary.Mutable(), tc.readonly)
		}
		if !ary.IsParametric() {
			t.Errorf("%s must be parametric", ary.Name())
		}
	}
}

func TestArrayValidation(t *testing.T) {
	expectPanicCode(t, errors.CodeInvalidLayout, func() {
		NewArray(Int32, 1, Layout("X"), false)
	})
	expectPanicCode(t, errors.CodeInvalidParameter, func() {
		NewArray(nil, 1, LayoutC, false)
	})
	expectPanicCode(t, errors.CodeInvalidParameter, func() {
		NewArray(NewArray(Int32, 1, LayoutC, false), 1, LayoutC, false)
	})
}

func TestArrayReadonlyIsDistinct(t *testing.T) {
	rw := NewArray(Int64, 1, LayoutC, false)
	ro := NewArray(Int64, 1, LayoutC, true)

	if Type(rw) == Type(ro) {
		t.Fatal("mutability is part of the array key")
	}
}

func TestBufferVariantsAreDistinct(t *testing.T) {
	buf := NewBuffer(Uint8, 1, LayoutC, false)
	ba := NewByteArray(Uint8, 1, LayoutC)

	if Type(buf) == Type(ba) {
		t.Fatal("buffer and bytearray with equal parameters must be distinct variants")
	}
	if !ba.SliceIsCopy() {
		t.Error("bytearray slicing copies")
	}
	if by := NewBytes(Uint8, 1, LayoutC); by.Mutable() {
		t.Error("bytes is immutable")
	}
}

func TestContiguityPredicates(t *testing.T) {
	tests := []struct {
		ndim             int
		layout           Layout
		cContig, fContig bool
	}{
		{1, LayoutC, true, true},
		{1, LayoutF, true, true},
		{2, LayoutC, true, false},
		{2, LayoutF, false, true},
		{2, LayoutA, false, false},
		{2, LayoutCS, false, false},
	}

	for _, tc := range tests {
		ary := NewArray(Float64, tc.ndim, tc.layout, false)
		if ary.IsCContig() != tc.cContig {
			t.Errorf("%s: IsCContig = %v, want %v", ary.Name(), ary.IsCContig(), tc.cContig)
		}
		if ary.IsFContig() != tc.fContig {
			t.Errorf("%s: IsFContig = %v, want %v", ary.Name(), ary.IsFContig(), tc.fContig)
		}
	}
}

func TestNestedArray(t *testing.T) {
	na := NewNestedArray(Int32, []int{2, 3})

	if na.Ndim() != 2 {
		t.Errorf("ndim = %d, want 2", na.Ndim())
	}
	if na.NItems() != 6 {
		t.Errorf("nitems = %d, want 6", na.NItems())
	}
	if na.ItemSize() != 4 {
		t.Errorf("itemsize = %d, want 4", na.ItemSize())
	}

	strides := na.Strides()
	if len(strides) != 2 || strides[0] != 12 || strides[1] != 4 {
		t.Errorf("strides = %v, want [12 4]", strides)
	}

	// Shape, not just rank, distinguishes nested arrays.
	other := NewNestedArray(Int32, []int{3, 2})
	if Type(na) == Type(other) {
		t.Fatal("different shapes must intern to different instances")
	}
	if again := NewNestedArray(Int32, []int{2, 3}); again != na {
		t.Fatal("equal shapes must intern to the same instance")
	}

	expectPanicCode(t, errors.CodeInvalidParameter, func() {
		NewNestedArray(newSubByteInt(), []int{2})
	})
}

// newSubByteInt builds a bitwidth carrier that is not byte-addressable.
type subByteInt struct {
	numberBase
}

func (t *subByteInt) Bitwidth() int { return 1 }

func newSubByteInt() *subByteInt {
	return intern(&subByteInt{numberBase{newBase("bit", false)}})
}

// ====== Pointers and Char Sequences ======

func TestPointers(t *testing.T) {
	p := NewCPointer(Float64)
	if p.Name() != "*float64" {
		t.Errorf("name = %q", p.Name())
	}
	if !p.Mutable() {
		t.Error("pointers are mutable")
	}
	if NewCPointer(Float64) != p {
		t.Error("pointer types intern by pointee")
	}

	ep := NewEphemeralPointer(Float64)
	if Type(ep) == Type(p) {
		t.Error("ephemeral pointers are a distinct variant")
	}

	ea := NewEphemeralArray(Int16, 4)
	if ea.Name() != "*int16[4]" {
		t.Errorf("name = %q", ea.Name())
	}
	if ea.Count() != 4 {
		t.Errorf("count = %d", ea.Count())
	}
}

func TestCharSequences(t *testing.T) {
	cs := NewCharSeq(12)
	if cs.Name() != "[char x 12]" || !cs.Mutable() {
		t.Errorf("unexpected char seq: %q mutable=%v", cs.Name(), cs.Mutable())
	}

	ucs := NewUnicodeCharSeq(12)
	if Type(cs) == Type(ucs) {
		t.Error("char and unichr sequences are distinct variants")
	}
	if NewCharSeq(12) != cs {
		t.Error("char sequences intern by count")
	}
}

func TestPair(t *testing.T) {
	p := NewPair(Int32, Float64)
	if p.Name() != "pair<int32, float64>" {
		t.Errorf("name = %q", p.Name())
	}
	if p.First() != Int32 || p.Second() != Float64 {
		t.Error("pair element accessors")
	}
	if NewPair(Float64, Int32) == p {
		t.Error("pair order is part of the key")
	}
}

// ====== Record ======

func TestRecord(t *testing.T) {
	fields := []RecordField{
		{Name: "x", Type: Float64, Offset: 0},
		{Name: "y", Type: Float64, Offset: 8},
		{Name: "tag", Type: Uint8, Offset: 16},
	}
	rec := NewRecord("point3", fields, 24, true)

	if rec.Len() != 3 || rec.Size() != 24 || !rec.Aligned() {
		t.Fatalf("unexpected record shape: len=%d size=%d", rec.Len(), rec.Size())
	}
	if !rec.Mutable() {
		t.Error("records are mutable")
	}

	if off, ok := rec.Offset("y"); !ok || off != 8 {
		t.Errorf("Offset(y) = %d, %v", off, ok)
	}
	if ty, ok := rec.TypeOf("tag"); !ok || ty != Uint8 {
		t.Errorf("TypeOf(tag) = %v, %v", ty, ok)
	}
	if _, ok := rec.Offset("missing"); ok {
		t.Error("missing field must not resolve")
	}

	if again := NewRecord("point3", fields, 24, true); again != rec {
		t.Error("records intern by descriptor, size and alignment")
	}
}

// ====== Optional ======

func TestOptional(t *testing.T) {
	opt := NewOptional(Int32)
	if opt.Name() != "?int32" {
		t.Errorf("name = %q", opt.Name())
	}
	if opt.Elem() != Int32 {
		t.Error("Elem accessor")
	}
	if NewOptional(Int32) != opt {
		t.Error("optionals intern by element")
	}

	expectPanicCode(t, errors.CodeInvalidParameter, func() { NewOptional(opt) })
	expectPanicCode(t, errors.CodeInvalidParameter, func() { NewOptional(None) })
}

func TestOptionalCastRules(t *testing.T) {
	opt := NewOptional(Float32)

	if CanCast(opt, Float32) != CastSafe {
		t.Error("unwrapping an optional is safe")
	}
	if CanCast(Float32, opt) != CastPromote {
		t.Error("wrapping promotes")
	}
	if CanCast(None, opt) != CastPromote {
		t.Error("none promotes to any optional")
	}
	if CanCast(Float32, Int32) != CastNone {
		t.Error("unrelated pair has no registered cast")
	}
}

func TestArrayLayoutRelaxation(t *testing.T) {
	c := NewArray(Float64, 2, LayoutC, false)
	a := NewArray(Float64, 2, LayoutA, false)

	if CanCast(c, a) != CastSafe {
		t.Error("any layout converts safely to layout A")
	}
	if CanCast(a, c) != CastNone {
		t.Error("layout A does not convert back implicitly")
	}
	if CanCast(c, c) != CastSafe {
		t.Error("identity is always safe")
	}
}

// ====== Coercion Hooks ======

// unifyStub resolves identical types to themselves and any numeric pair to
// int64, which is enough to drive the per-type coercion hooks.
type unifyStub struct{}

func (unifyStub) UnifyPairs(a, b Type) (Type, bool) {
	if a == b {
		return a, true
	}
	if IsNumeric(a) && IsNumeric(b) {
		return Int64, true
	}

	return nil, false
}

func TestUniTupleCoerce(t *testing.T) {
	ctx := unifyStub{}

	got, ok := NewUniTuple(Int32, 2).Coerce(ctx, NewUniTuple(Int64, 2))
	if !ok || got != Type(NewUniTuple(Int64, 2)) {
		t.Fatalf("coerce = %v, %v", got, ok)
	}

	if _, ok := NewUniTuple(Int32, 2).Coerce(ctx, NewUniTuple(Int64, 3)); ok {
		t.Error("different counts must not coerce")
	}
	if _, ok := NewUniTuple(Int32, 2).Coerce(ctx, Int32); ok {
		t.Error("non-tuple must not coerce")
	}
}

func TestTupleCoerce(t *testing.T) {
	ctx := unifyStub{}

	a := NewTuple([]Type{Int32, Float32})
	b := NewTuple([]Type{Int64, Float64})

	got, ok := a.Coerce(ctx, b)
	if !ok {
		t.Fatal("numeric tuples must coerce element-wise")
	}
	want := NewTuple([]Type{Int64, Int64})
	if got != Type(want) {
		t.Fatalf("coerce = %s, want %s", got.Name(), want.Name())
	}

	if _, ok := a.Coerce(ctx, NewTuple([]Type{Int64, StringType})); ok {
		t.Error("an ununifiable element must fail the whole tuple")
	}
}

func TestOptionalCoerce(t *testing.T) {
	ctx := unifyStub{}

	got, ok := NewOptional(Int32).Coerce(ctx, Int64)
	if !ok || got != Type(NewOptional(Int64)) {
		t.Fatalf("coerce = %v, %v", got, ok)
	}

	got, ok = NewOptional(Int32).Coerce(ctx, NewOptional(Float64))
	if !ok || got != Type(NewOptional(Int64)) {
		t.Fatalf("coerce through optional = %v, %v", got, ok)
	}
}

func TestNoneCoerce(t *testing.T) {
	ctx := unifyStub{}

	got, ok := None.Coerce(ctx, Int32)
	if !ok || got != Type(NewOptional(Int32)) {
		t.Fatalf("none must wrap into optional, got %v, %v", got, ok)
	}

	opt := NewOptional(Float64)
	if got, ok := None.Coerce(ctx, opt); !ok || got != Type(opt) {
		t.Fatal("none with an optional keeps the optional")
	}
}
