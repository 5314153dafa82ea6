// Tests for the construction facade: signature building, derived array
// construction from dimension specs, and the cast error taxonomy.

package types

import (
	"testing"

	"github.com/tessera-lang/tessera/internal/errors"
)

func TestBuildSignature(t *testing.T) {
	sig := Float64.BuildSignature(Int32, Int64)

	if sig.Return != Type(Float64) {
		t.Errorf("return = %v", sig.Return)
	}
	if len(sig.Args) != 2 || sig.Args[0] != Type(Int32) || sig.Args[1] != Type(Int64) {
		t.Errorf("args = %v", sig.Args)
	}
	if sig.Recv != nil {
		t.Error("recv must be unset")
	}
	if got := sig.String(); got != "(int32, int64) -> float64" {
		t.Errorf("String() = %q", got)
	}

	recv := NewSignature(Int32, Float64)
	recv.Recv = StringType
	if got := recv.String(); got != "str.(float64) -> int32" {
		t.Errorf("String() with recv = %q", got)
	}
}

func TestIndexDerivesArrays(t *testing.T) {
	tests := []struct {
		label  string
		dims   []Dim
		ndim   int
		layout Layout
	}{
		{"single contiguous", []Dim{Contiguous()}, 1, LayoutC},
		{"single strided", []Dim{Strided()}, 1, LayoutA},
		{"first contiguous", []Dim{Contiguous(), Strided()}, 2, LayoutF},
		{"last contiguous", []Dim{Strided(), Contiguous()}, 2, LayoutC},
		{"none contiguous", []Dim{Strided(), Strided()}, 2, LayoutA},
		{"both contiguous", []Dim{Contiguous(), Contiguous()}, 2, LayoutF},
		{"empty spec", nil, 1, LayoutA},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			ary := Float64.Index(tc.dims...)
			if ary.DType() != Type(Float64) {
				t.Errorf("dtype = %v", ary.DType())
			}
			if ary.Ndim() != tc.ndim || ary.Layout() != tc.layout {
				t.Errorf("got (%d, %s), want (%d, %s)", ary.Ndim(), ary.Layout(), tc.ndim, tc.layout)
			}
			if !ary.Mutable() {
				t.Error("derived arrays are writable")
			}
		})
	}
}

func TestIndexReturnsCanonicalArray(t *testing.T) {
	a := Int32.Index(Strided(), Contiguous())
	b := NewArray(Int32, 2, LayoutC, false)

	if a != b {
		t.Fatal("Index must intern through the same registry as NewArray")
	}
}

func TestCastTaxonomy(t *testing.T) {
	// Types without value semantics refuse casting up front.
	if _, err := StringType.Cast(1); !errors.IsCode(err, errors.CodeCastUnsupported) {
		t.Errorf("opaque cast = %v, want CAST_UNSUPPORTED", StringType.Name())
	}
	if _, err := None.Cast(nil); !errors.IsCode(err, errors.CodeCastUnsupported) {
		t.Error("none cast must be unsupported")
	}

	// Types with value semantics fail per-value.
	if _, err := Int32.Cast("nope"); !errors.IsCode(err, errors.CodeCastFailed) {
		t.Error("numeric cast of a bad value must be CAST_FAILED")
	}
	if got, err := Int32.Cast(7); err != nil || got != int32(7) {
		t.Errorf("Int32.Cast(7) = %v, %v", got, err)
	}
}

func TestPredefinedLookup(t *testing.T) {
	tests := []struct {
		alias string
		want  Type
	}{
		{"int32", Int32},
		{"i4", Int32},
		{"f8", Float64},
		{"double", Float64},
		{"byte", Uint8},
		{"c16", Complex128},
		{"void", None},
		{"b1", Bool},
	}

	for _, tc := range tests {
		got, ok := PredefinedByName(tc.alias)
		if !ok || got != tc.want {
			t.Errorf("PredefinedByName(%q) = %v, %v", tc.alias, got, ok)
		}
	}

	if _, ok := PredefinedByName("no-such-type"); ok {
		t.Error("unknown names must not resolve")
	}
}

func TestPredefinedOrderedByCode(t *testing.T) {
	all := Predefined()
	if len(all) == 0 {
		t.Fatal("no predefined types registered")
	}

	for i := 1; i < len(all); i++ {
		if all[i-1].Code() >= all[i].Code() {
			t.Fatalf("predefined list not ordered: %s (%d) before %s (%d)",
				all[i-1].Name(), all[i-1].Code(), all[i].Name(), all[i].Code())
		}
	}
}
