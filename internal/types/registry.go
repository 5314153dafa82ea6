// Interning registry for type descriptors.
//
// Descriptors are added to a process-wide registry in order to assign them
// unique integer codes for fast dispatch tables. Types must also remain
// disposable, so the registry holds each descriptor weakly: an entry lives
// only as long as some external owner keeps the descriptor alive, and is
// purged by a runtime cleanup once the last owner drops it.

package types

import (
	"reflect"
	"runtime"
	"sync"
	"weak"

	"fortio.org/safecast"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Registry State ======

type registryEntry struct {
	// value resolves the weak reference; nil means the descriptor died.
	value func() Type
}

var (
	registryMu sync.Mutex
	registry   = make(map[internKey]*registryEntry)
	// typeCodes is the monotonic code counter. Codes are never recycled;
	// the counter only advances, and conversion to uint32 enforces the
	// 4 billion type ceiling.
	typeCodes uint64
)

// nextTypeCode draws a fresh code. Counter exhaustion is fatal: construction
// must abort rather than wrap or reuse a code.
func nextTypeCode() uint32 {
	code, err := safecast.Convert[uint32](typeCodes)
	if err != nil {
		panic(errors.TypeCodeExhausted(typeCodes))
	}
	typeCodes++

	return code
}

// constructionValidator is implemented by variants that must verify required
// capabilities before finalization. A failed check is a programming error.
type constructionValidator interface {
	validateConstruction()
}

// postInitializer is implemented by variants needing setup that requires a
// finalized descriptor (valid code, self reference), e.g. self-referential
// fields. Runs inside the registry critical section, so implementations must
// not construct new types.
type postInitializer interface {
	postInit()
}

// ====== Intern ======

// intern canonicalizes a freshly constructed descriptor.
//
// The provisional descriptor has already run its ordinary constructor. If a
// live canonical descriptor with the same variant and key exists, the
// provisional one is discarded and the canonical one returned. Otherwise the
// provisional descriptor becomes canonical: it receives the next type code,
// a weak registry entry, and its post-init hook, all under the registry lock
// so no caller can observe an entry without an assigned code.
func intern[S any, P interface {
	*S
	Type
}](inst P) P {
	if v, ok := any(inst).(constructionValidator); ok {
		v.validateConstruction()
	}

	key := internKey{variant: reflect.TypeOf(inst), key: inst.Key()}

	registryMu.Lock()
	defer registryMu.Unlock()

	if e, ok := registry[key]; ok {
		if live := e.value(); live != nil {
			return live.(P)
		}
		// The previous holder died but its cleanup has not run yet.
		// The fresh descriptor replaces it below.
	}

	b := inst.base()
	b.code = nextTypeCode()
	b.self = inst

	wp := weak.Make((*S)(inst))
	entry := &registryEntry{value: func() Type {
		if p := wp.Value(); p != nil {
			return P(p)
		}

		return nil
	}}
	registry[key] = entry

	// Purge the slot when the descriptor becomes unreachable. The guard
	// against a replaced entry keeps a late cleanup from evicting a newer
	// descriptor interned under the same key.
	runtime.AddCleanup((*S)(inst), func(k internKey) {
		registryMu.Lock()
		defer registryMu.Unlock()
		if cur, ok := registry[k]; ok && cur == entry {
			delete(registry, k)
		}
	}, key)

	if p, ok := any(inst).(postInitializer); ok {
		p.postInit()
	}

	return inst
}

// ====== Introspection ======

// LiveCount returns the number of registry entries whose descriptor is still
// reachable from an external owner.
func LiveCount() int {
	registryMu.Lock()
	defer registryMu.Unlock()

	n := 0
	for _, e := range registry {
		if e.value() != nil {
			n++
		}
	}

	return n
}

// NextCode returns the value the next finalized descriptor would receive.
func NextCode() uint64 {
	registryMu.Lock()
	defer registryMu.Unlock()

	return typeCodes
}

// Sweep removes entries whose descriptor has died but whose runtime cleanup
// has not fired yet, and returns how many were removed. Purging is otherwise
// automatic; the sweep only amortizes it for callers that churn many
// short-lived types.
func Sweep() int {
	registryMu.Lock()
	defer registryMu.Unlock()

	removed := 0
	for k, e := range registry {
		if e.value() == nil {
			delete(registry, k)
			removed++
		}
	}

	return removed
}
