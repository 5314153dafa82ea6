package types

import (
	"fmt"
	"strings"
)

// Signature is the invocation signature of a callable: the return type, the
// parameter types in order, and an optional receiver for bound callables.
// Signatures are plain values consumed by the inference and codegen
// pipeline; they are not interned.
type Signature struct {
	Return Type
	Recv   Type
	Args   []Type
}

// NewSignature builds a signature from a return type and parameter types.
func NewSignature(ret Type, args ...Type) Signature {
	return Signature{Return: ret, Args: args}
}

func (s Signature) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.Name()
	}

	out := fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), s.Return.Name())
	if s.Recv != nil {
		out = s.Recv.Name() + "." + out
	}

	return out
}
