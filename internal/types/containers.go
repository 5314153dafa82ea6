// Container and pointer type variants: buffers and arrays (dtype, rank,
// memory layout), raw pointers, fixed char sequences, records and optionals.

package types

import (
	"fmt"
	"slices"

	"github.com/tessera-lang/tessera/internal/errors"
)

// ====== Memory Layout ======

// Layout is the memory layout tag of a buffer: C (row-major contiguous),
// F (column-major contiguous), CS/FS (inner-contiguous strided) or
// A (arbitrary).
type Layout string

const (
	LayoutC  Layout = "C"
	LayoutF  Layout = "F"
	LayoutCS Layout = "CS"
	LayoutFS Layout = "FS"
	LayoutA  Layout = "A"
)

var bufferLayouts = map[Layout]struct{}{
	LayoutC: {}, LayoutF: {}, LayoutCS: {}, LayoutFS: {}, LayoutA: {},
}

// ====== Buffer ======

// BufferLike is the surface shared by buffer-family descriptors, consumed by
// iterator construction and layout-relaxation checks.
type BufferLike interface {
	IterableType
	DType() Type
	Ndim() int
	Layout() Layout
	WithNdim(ndim int) BufferLike
}

type bufferKey struct {
	dtype   Type
	ndim    int
	layout  Layout
	mutable bool
}

// Buffer is the base variant for types exposing a buffer of elements with a
// rank and a memory layout. More specific variants embed it.
type Buffer struct {
	typeBase
	dtype       Type
	ndim        int
	layout      Layout
	sliceIsCopy bool
}

func makeBuffer(typeName string, dtype Type, ndim int, layout Layout, readonly bool) Buffer {
	prefix := typeName
	if readonly {
		prefix = "readonly " + typeName
	}

	var dtypeName string
	if dtype != nil {
		dtypeName = dtype.Name()
	}

	b := Buffer{
		typeBase: newBase(fmt.Sprintf("%s(%s, %dd, %s)", prefix, dtypeName, ndim, layout), true),
		dtype:    dtype,
		ndim:     ndim,
		layout:   layout,
	}
	b.mutable = !readonly

	return b
}

// NewBuffer interns a generic buffer type.
func NewBuffer(dtype Type, ndim int, layout Layout, readonly bool) *Buffer {
	b := makeBuffer("buffer", dtype, ndim, layout, readonly)

	return intern(&b)
}

func (t *Buffer) isBuffer() {}

func (t *Buffer) validateConstruction() {
	if t.dtype == nil {
		panic(errors.InvalidParameter("Buffer", "nil dtype"))
	}
	if _, ok := t.dtype.(interface{ isBuffer() }); ok {
		panic(errors.InvalidParameter("Buffer", "dtype cannot be a buffer"))
	}
	if _, ok := bufferLayouts[t.layout]; !ok {
		panic(errors.InvalidLayout(string(t.layout)))
	}
}

func (t *Buffer) Key() any {
	return bufferKey{dtype: t.dtype, ndim: t.ndim, layout: t.layout, mutable: t.mutable}
}

// DType returns the element type.
func (t *Buffer) DType() Type { return t.dtype }

// Ndim returns the rank.
func (t *Buffer) Ndim() int { return t.ndim }

// Layout returns the memory layout tag.
func (t *Buffer) Layout() Layout { return t.layout }

// SliceIsCopy reports whether slicing a value of this type copies the data.
func (t *Buffer) SliceIsCopy() bool { return t.sliceIsCopy }

// IsCContig reports row-major contiguity.
func (t *Buffer) IsCContig() bool {
	return t.layout == LayoutC || (t.ndim <= 1 && (t.layout == LayoutC || t.layout == LayoutF))
}

// IsFContig reports column-major contiguity.
func (t *Buffer) IsFContig() bool {
	return t.layout == LayoutF || (t.ndim <= 1 && (t.layout == LayoutC || t.layout == LayoutF))
}

// IsContig reports contiguity in either order.
func (t *Buffer) IsContig() bool {
	return t.layout == LayoutC || t.layout == LayoutF
}

// IteratorType returns the iterator over this buffer's elements.
func (t *Buffer) IteratorType() IteratorType {
	return NewArrayIterator(t.self.(BufferLike))
}

// WithNdim returns the same buffer type with a different rank.
func (t *Buffer) WithNdim(ndim int) BufferLike {
	return NewBuffer(t.dtype, ndim, t.layout, !t.mutable)
}

// ====== Array ======

// Array is the buffer variant used for dense numeric arrays.
type Array struct {
	Buffer
}

// NewArray interns an array type with the given dtype, rank and layout.
func NewArray(dtype Type, ndim int, layout Layout, readonly bool) *Array {
	return intern(&Array{Buffer: makeBuffer("array", dtype, ndim, layout, readonly)})
}

// Copy interns a variation of this array with every parameter explicit.
func (t *Array) Copy(dtype Type, ndim int, layout Layout, readonly bool) *Array {
	return NewArray(dtype, ndim, layout, readonly)
}

// WithNdim returns the same array type with a different rank.
func (t *Array) WithNdim(ndim int) BufferLike {
	return NewArray(t.dtype, ndim, t.layout, !t.mutable)
}

// Bytes is the buffer variant for immutable byte strings.
type Bytes struct {
	Buffer
}

// NewBytes interns a bytes type.
func NewBytes(dtype Type, ndim int, layout Layout) *Bytes {
	return intern(&Bytes{Buffer: makeBuffer("bytes", dtype, ndim, layout, true)})
}

// WithNdim returns the same bytes type with a different rank.
func (t *Bytes) WithNdim(ndim int) BufferLike {
	return NewBytes(t.dtype, ndim, t.layout)
}

// ByteArray is the buffer variant for mutable byte arrays; slicing copies.
type ByteArray struct {
	Buffer
}

// NewByteArray interns a byte array type.
func NewByteArray(dtype Type, ndim int, layout Layout) *ByteArray {
	ba := &ByteArray{Buffer: makeBuffer("bytearray", dtype, ndim, layout, false)}
	ba.sliceIsCopy = true

	return intern(ba)
}

// WithNdim returns the same byte array type with a different rank.
func (t *ByteArray) WithNdim(ndim int) BufferLike {
	return NewByteArray(t.dtype, ndim, t.layout)
}

// MemoryView is the buffer variant for borrowed views over foreign buffers.
type MemoryView struct {
	Buffer
}

// NewMemoryView interns a memory view type.
func NewMemoryView(dtype Type, ndim int, layout Layout, readonly bool) *MemoryView {
	return intern(&MemoryView{Buffer: makeBuffer("memoryview", dtype, ndim, layout, readonly)})
}

// WithNdim returns the same memory view type with a different rank.
func (t *MemoryView) WithNdim(ndim int) BufferLike {
	return NewMemoryView(t.dtype, ndim, t.layout, !t.mutable)
}

// ====== NestedArray ======

// NestedArray is an array nested within a record. Unlike Array, the concrete
// shape, not just the rank, is part of the type.
type NestedArray struct {
	Array
	shape []int
}

// NewNestedArray interns a nested array type. The dtype bit width must be a
// whole number of bytes.
func NewNestedArray(dtype BitwidthType, shape []int) *NestedArray {
	if dtype.Bitwidth()%8 != 0 {
		panic(errors.InvalidParameter("NestedArray", "dtype bitwidth must be a multiple of 8"))
	}

	name := fmt.Sprintf("nestedarray(%s, %v)", dtype.Name(), shape)
	na := &NestedArray{
		Array: Array{Buffer: Buffer{
			typeBase: newBase(name, true),
			dtype:    dtype,
			ndim:     len(shape),
			layout:   LayoutC,
		}},
		shape: slices.Clone(shape),
	}
	na.mutable = true

	return intern(na)
}

// The name encodes dtype and shape, so it doubles as the key; the inherited
// buffer key would lose the shape.
func (t *NestedArray) Key() any { return t.name }

// Shape returns the compile-time shape.
func (t *NestedArray) Shape() []int { return slices.Clone(t.shape) }

// NItems returns the total element count.
func (t *NestedArray) NItems() int {
	n := 1
	for _, s := range t.shape {
		n *= s
	}

	return n
}

// ItemSize returns the element size in bytes.
func (t *NestedArray) ItemSize() int {
	return t.dtype.(BitwidthType).Bitwidth() / 8
}

// Strides returns the row-major strides in bytes.
func (t *NestedArray) Strides() []int {
	stride := t.ItemSize()
	strides := make([]int, len(t.shape))
	for i := len(t.shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= t.shape[i]
	}

	return strides
}

// ====== Pointers ======

// CPointer is a raw pointer to values of another type.
type CPointer struct {
	typeBase
	dtype Type
}

func makeCPointer(dtype Type) CPointer {
	var name string
	if dtype != nil {
		name = "*" + dtype.Name()
	}

	p := CPointer{typeBase: newBase(name, true), dtype: dtype}
	p.mutable = true

	return p
}

// NewCPointer interns a pointer type.
func NewCPointer(dtype Type) *CPointer {
	p := makeCPointer(dtype)

	return intern(&p)
}

func (t *CPointer) validateConstruction() {
	if t.dtype == nil {
		panic(errors.InvalidParameter("CPointer", "nil pointee type"))
	}
}

// DType returns the pointee type.
func (t *CPointer) DType() Type { return t.dtype }

func (t *CPointer) Key() any { return t.dtype }

// EphemeralPointer is a pointer that is not guaranteed to outlive the
// current frame, e.g. a stack slot. The data model serializes such pointers
// by copying the pointed-to data.
type EphemeralPointer struct {
	CPointer
}

// NewEphemeralPointer interns an ephemeral pointer type.
func NewEphemeralPointer(dtype Type) *EphemeralPointer {
	return intern(&EphemeralPointer{CPointer: makeCPointer(dtype)})
}

// EphemeralArray is an ephemeral pointer to a fixed number of elements.
type EphemeralArray struct {
	typeBase
	dtype Type
	count int
}

type ephemeralArrayKey struct {
	dtype Type
	count int
}

// NewEphemeralArray interns an ephemeral array type with a compile-time
// element count.
func NewEphemeralArray(dtype Type, count int) *EphemeralArray {
	if dtype == nil {
		panic(errors.InvalidParameter("EphemeralArray", "nil element type"))
	}

	ea := &EphemeralArray{
		typeBase: newBase(fmt.Sprintf("*%s[%d]", dtype.Name(), count), true),
		dtype:    dtype,
		count:    count,
	}
	ea.mutable = true

	return intern(ea)
}

// DType returns the element type.
func (t *EphemeralArray) DType() Type { return t.dtype }

// Count returns the compile-time element count.
func (t *EphemeralArray) Count() int { return t.count }

func (t *EphemeralArray) Key() any {
	return ephemeralArrayKey{dtype: t.dtype, count: t.count}
}

// ====== Char Sequences ======

// CharSeq is a fixed-length byte character sequence.
type CharSeq struct {
	typeBase
	count int
}

// NewCharSeq interns a char sequence type of the given length.
func NewCharSeq(count int) *CharSeq {
	cs := &CharSeq{typeBase: newBase(fmt.Sprintf("[char x %d]", count), true), count: count}
	cs.mutable = true

	return intern(cs)
}

// Count returns the sequence length.
func (t *CharSeq) Count() int { return t.count }

func (t *CharSeq) Key() any { return t.count }

// UnicodeCharSeq is a fixed-length unicode character sequence.
type UnicodeCharSeq struct {
	typeBase
	count int
}

// NewUnicodeCharSeq interns a unicode char sequence type of the given length.
func NewUnicodeCharSeq(count int) *UnicodeCharSeq {
	cs := &UnicodeCharSeq{typeBase: newBase(fmt.Sprintf("[unichr x %d]", count), true), count: count}
	cs.mutable = true

	return intern(cs)
}

// Count returns the sequence length.
func (t *UnicodeCharSeq) Count() int { return t.count }

func (t *UnicodeCharSeq) Key() any { return t.count }

// ====== Pair ======

// Pair is a heterogeneous pair.
type Pair struct {
	typeBase
	first  Type
	second Type
}

type pairKey struct {
	first  Type
	second Type
}

// NewPair interns a pair type.
func NewPair(first, second Type) *Pair {
	if first == nil || second == nil {
		panic(errors.InvalidParameter("Pair", "nil element type"))
	}

	return intern(&Pair{
		typeBase: newBase(fmt.Sprintf("pair<%s, %s>", first.Name(), second.Name()), false),
		first:    first,
		second:   second,
	})
}

// First returns the first element type.
func (t *Pair) First() Type { return t.first }

// Second returns the second element type.
func (t *Pair) Second() Type { return t.second }

func (t *Pair) Key() any { return pairKey{first: t.first, second: t.second} }

// ====== Record ======

// RecordField is one named member of a record with its byte offset.
type RecordField struct {
	Name   string
	Type   Type
	Offset int
}

type recordKey struct {
	descr   string
	size    int
	aligned bool
}

// Record is a mutable aggregate of named fields with fixed offsets.
type Record struct {
	typeBase
	descr   string
	fields  []RecordField
	size    int
	aligned bool
}

// NewRecord interns a record type. The descriptor string identifies the
// underlying storage description and keys the type together with size and
// alignment.
func NewRecord(descr string, fields []RecordField, size int, aligned bool) *Record {
	r := &Record{
		typeBase: newBase(fmt.Sprintf("Record(%s)", descr), false),
		descr:    descr,
		fields:   slices.Clone(fields),
		size:     size,
		aligned:  aligned,
	}
	r.mutable = true

	return intern(r)
}

func (t *Record) Key() any {
	return recordKey{descr: t.descr, size: t.size, aligned: t.aligned}
}

// Len returns the field count.
func (t *Record) Len() int { return len(t.fields) }

// Size returns the total byte size.
func (t *Record) Size() int { return t.size }

// Aligned reports whether the record uses natural field alignment.
func (t *Record) Aligned() bool { return t.aligned }

// Offset returns the byte offset of a field.
func (t *Record) Offset(name string) (int, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f.Offset, true
		}
	}

	return 0, false
}

// TypeOf returns the type of a field.
func (t *Record) TypeOf(name string) (Type, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return nil, false
}

// Members returns the fields in declaration order.
func (t *Record) Members() []RecordField { return slices.Clone(t.fields) }

// ====== Optional ======

// Optional wraps a type with an absent state.
type Optional struct {
	typeBase
	elem Type
}

// NewOptional interns the optional wrapping of a type.
func NewOptional(elem Type) *Optional {
	var name string
	if elem != nil {
		name = "?" + elem.Name()
	}

	return intern(&Optional{typeBase: newBase(name, true), elem: elem})
}

func (t *Optional) validateConstruction() {
	if t.elem == nil {
		panic(errors.InvalidParameter("Optional", "nil element type"))
	}
	if _, ok := t.elem.(*Optional); ok {
		panic(errors.InvalidParameter("Optional", "element cannot itself be optional"))
	}
	if None != nil && Type(None) == t.elem {
		panic(errors.InvalidParameter("Optional", "element cannot be none"))
	}
}

// Elem returns the wrapped type.
func (t *Optional) Elem() Type { return t.elem }

func (t *Optional) Key() any { return t.elem }

// postInit installs the conversions between the optional and its element:
// unwrapping is safe, wrapping promotes, and so does none.
func (t *Optional) postInit() {
	RegisterSafeCast(t, t.elem)
	RegisterPromote(t.elem, t)
	if None != nil {
		RegisterPromote(None, t)
	}
}

// Coerce unifies the element types and re-wraps the result.
func (t *Optional) Coerce(ctx Context, other Type) (Type, bool) {
	inner := other
	if o, ok := other.(*Optional); ok {
		inner = o.elem
	}

	if unified, ok := ctx.UnifyPairs(t.elem, inner); ok {
		return NewOptional(unified), true
	}

	return nil, false
}
