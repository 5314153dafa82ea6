// Tests for the interning registry: canonicalization, code assignment,
// weak reclamation and the code ceiling.

package types

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Canonicalization ======

func TestInterningReturnsCanonicalInstance(t *testing.T) {
	a := NewOpaque("canonical-probe")
	b := NewOpaque("canonical-probe")

	if a != b {
		t.Fatalf("expected identical instances, got %p and %p", a, b)
	}
	if a.Code() != b.Code() {
		t.Fatalf("code changed across requests: %d vs %d", a.Code(), b.Code())
	}
}

func TestInterningInt32Scenario(t *testing.T) {
	first := NewInteger("int32")
	second := NewInteger("int32")

	if first != second {
		t.Fatal("requesting int32 twice must return the same instance")
	}
	if first != Int32 {
		t.Fatal("requesting int32 must return the predefined singleton")
	}
	if first.Code() != second.Code() {
		t.Fatalf("code not stable: %d vs %d", first.Code(), second.Code())
	}
}

func TestCrossVariantNeverEqual(t *testing.T) {
	op := NewOpaque("shared-name")
	ph := NewPhantom("shared-name")

	if Type(op) == Type(ph) {
		t.Fatal("different variants with equal keys must be distinct instances")
	}
	if Equal(op, ph) {
		t.Fatal("Equal must not match across variants")
	}
	if op.Code() == ph.Code() {
		t.Fatalf("distinct instances share code %d", op.Code())
	}
}

func TestParametricVariantsKeyOnParameters(t *testing.T) {
	a := NewUniTuple(Int32, 3)
	b := NewUniTuple(Int32, 3)
	c := NewUniTuple(Int32, 4)
	d := NewUniTuple(Int64, 3)

	if a != b {
		t.Fatal("equal parameters must intern to the same instance")
	}
	if a == c || a == d {
		t.Fatal("different parameters must intern to different instances")
	}
}

// ====== Codes ======

func TestCodesStrictlyIncrease(t *testing.T) {
	a := NewOpaque("mono-a")
	b := NewOpaque("mono-b")
	c := NewOpaque("mono-c")

	if !(a.Code() < b.Code() && b.Code() < c.Code()) {
		t.Fatalf("codes not strictly increasing: %d, %d, %d", a.Code(), b.Code(), c.Code())
	}
}

func TestCodesUniqueAmongLiveInstances(t *testing.T) {
	live := []Type{Bool, Int8, Int32, Uint64, Float64, Complex128, None, StringType}
	for i := 0; i < 16; i++ {
		live = append(live, NewUniTuple(Int8, i))
	}

	seen := make(map[uint32]string)
	for _, ty := range live {
		if prev, dup := seen[ty.Code()]; dup {
			t.Fatalf("code %d shared by %s and %s", ty.Code(), prev, ty.Name())
		}
		seen[ty.Code()] = ty.Name()
	}
}

// ====== Equality and Hashing ======

func TestEqualityHashConsistency(t *testing.T) {
	pairs := []struct {
		a, b  Type
		equal bool
	}{
		{Int32, NewInteger("int32"), true},
		{Int32, Int64, false},
		{NewArray(Float64, 2, LayoutC, false), NewArray(Float64, 2, LayoutC, false), true},
		{NewArray(Float64, 2, LayoutC, false), NewArray(Float64, 2, LayoutF, false), false},
	}

	for _, p := range pairs {
		if got := Equal(p.a, p.b); got != p.equal {
			t.Errorf("Equal(%s, %s) = %v, want %v", p.a.Name(), p.b.Name(), got, p.equal)
		}
		if p.equal && Hash(p.a) != Hash(p.b) {
			t.Errorf("equal types %s hash differently", p.a.Name())
		}
	}
}

// ====== Concurrency ======

func TestConcurrentInterningSameKey(t *testing.T) {
	const workers = 32

	var (
		wg      sync.WaitGroup
		results [workers]*Opaque
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = NewOpaque("race-probe")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d observed a different canonical instance", i)
		}
	}
}

// ====== Reclamation ======

// makeDisposable constructs a type in its own frame so the only remaining
// reference after return is the weak registry entry.
func makeDisposable(name string) uint32 {
	return NewOpaque(name).Code()
}

func TestReclamationAssignsFreshCode(t *testing.T) {
	const name = "reclaim-probe"

	oldCode := makeDisposable(name)

	deadline := time.Now().Add(10 * time.Second)
	for {
		runtime.GC()
		runtime.GC()

		fresh := NewOpaque(name)
		if fresh.Code() != oldCode {
			if fresh.Code() <= oldCode {
				t.Fatalf("reclaimed key got non-increasing code %d (old %d)", fresh.Code(), oldCode)
			}

			return
		}

		if time.Now().After(deadline) {
			t.Fatal("type was not reclaimed after collection passes")
		}
	}
}

func TestSweepKeepsLiveEntries(t *testing.T) {
	keep := NewOpaque("sweep-live-probe")

	Sweep()

	again := NewOpaque("sweep-live-probe")
	if again != keep {
		t.Fatal("sweep must not evict live entries")
	}
}

// ====== Code Ceiling ======

func TestCodeCeilingAbortsConstruction(t *testing.T) {
	registryMu.Lock()
	saved := typeCodes
	typeCodes = (1 << 32) - 1
	registryMu.Unlock()

	defer func() {
		registryMu.Lock()
		typeCodes = saved
		registryMu.Unlock()
	}()

	// The last code below the ceiling is still assignable.
	last := NewOpaque("ceiling-last-probe")
	if last.Code() != 1<<32-1 {
		t.Fatalf("expected last code %d, got %d", uint64(1<<32-1), last.Code())
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected fatal panic past the code ceiling")
		}
		se, ok := r.(*errors.StandardError)
		if !ok || se.Code != errors.CodeTypeCodeExhausted {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()

	NewOpaque("ceiling-past-probe")
}
