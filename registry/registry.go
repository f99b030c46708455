// Package registry implements the process-wide, write-once type
// registry: a single table mapping a 32-bit type id
// to the StructDefinition that knows how to size, encode, decode,
// allocate, free, print, and (optionally) populate values of that type.
//
// The registry is built at process startup by a sequence of Register
// calls and is then read-only; like the aggregate and union codecs built
// on top of it, it does no internal locking - this
// library is single-threaded cooperative, and the registry is expected
// to be frozen before the host loop's thread starts dispatching.
package registry

import (
	"errors"
	"fmt"
)

// TypeID is the 32-bit discriminant used both as the union tag on the
// wire and as the registry key.
type TypeID uint32

// Errors returned by registry operations.
var (
	ErrAlreadyRegistered = errors.New("registry: type already registered")
	ErrUnknownType       = errors.New("registry: unknown type id")
)

// Encoder encodes the struct at src into dst (dst nil means dry run),
// returning bytes used. Signature matches the aggregate codec's
// expectations so a StructDefinition's Encoder is just
// aggregate.StructEncode (or BitfieldStructEncode) closed over the
// definition's own Fields.
type Encoder func(src interface{}, dst []byte, max int) (used int, err error)

// Decoder decodes src into a freshly allocated value of the registered
// type, returning the decoded value and bytes consumed.
type Decoder func(src []byte, max int) (value interface{}, used int, err error)

// Allocator returns a new zero value for the registered type, mirroring
// libproc's XDR_malloc_allocator.
type Allocator func() interface{}

// Deallocator releases any heap-owned sub-objects of value. Go's GC means
// this never needs to free value itself, but a struct's deallocator
// still frees every heap-owned field recursively, mirroring libproc's
// per-type free functions - this still matters for sub-objects that
// hold OS resources or that callers pool and reuse; most Deallocators
// here are no-ops, kept so that libproc's shape is preserved and
// future resource-owning fields have somewhere to plug in.
type Deallocator func(value interface{})

// Printer renders a whole value of the registered type as text; set via
// SetStructPrinter. Package render does not call it (render prints each
// field through its TypeFuncs.Print).
type Printer func(value interface{}) string

// Populator fills a freshly allocated value from some live application
// source (e.g. a telemetry snapshot), mirroring libproc's
// XDR_register_populator hook.
type Populator func() (interface{}, error)

// StructDefinition is the registry's entry for a single TypeID.
type StructDefinition struct {
	Type      TypeID
	InMemSize int
	Encode    Encoder
	Decode    Decoder
	Alloc     Allocator
	Dealloc   Deallocator
	Print     Printer     // optional
	Populate  Populator   // optional
	Fields    interface{} // opaque arg; normally []FieldDefinition
}

// FieldDefinition describes one field in a struct's wire layout. The
// aggregate codec walks a slice of these in order.
//
// The original C source addresses fields by byte offset into the
// in-memory struct. Go has no portable equivalent of "offset into an
// arbitrary struct" without unsafe/reflect gymnastics, so each field
// instead carries a pair of accessor closures (Get/Set) that play the
// same role: Get reads the field's current value out of the containing
// struct for encoding, Set writes a decoded value back in. LenGet/LenSet
// play the role of the companion length field for variable-size arrays.
type FieldDefinition struct {
	// Get returns the current field value from container (used while
	// encoding).
	Get func(container interface{}) interface{}
	// Set stores a decoded value into container (used while decoding).
	Set func(container interface{}, value interface{})

	// LenGet returns the companion length for a variable-size array
	// field, or the bit width for a bit-packed field.
	LenGet func(container interface{}) int
	// LenSet stores a decoded length back into the companion length
	// field (ignored for bit-packed fields, where width is static).
	LenSet func(container interface{}, length int)

	// StructID is the type id of a nested struct/union field, or the
	// bit-shift within the word for a bit-packed field.
	StructID TypeID

	Key        string
	Name       string
	Unit       string
	Conversion func(float64) float64

	// TypeFuncs is the per-field capability set: encode, decode, print,
	// scan, and field-deallocate, selected by the field's wire type.
	TypeFuncs *TypeFuncs
}

// IsTerminator reports whether fd is the FieldDefinition-table sentinel.
// Libproc's field tables end with an entry whose offset and type
// functions pointer are both null; in the Go translation that means
// both accessors and TypeFuncs are nil.
func (fd FieldDefinition) IsTerminator() bool {
	return fd.Get == nil && fd.Set == nil && fd.TypeFuncs == nil
}

// TypeFuncs is the per-field-type capability set referenced by a
// FieldDefinition (libproc's "type functions" record).
type TypeFuncs struct {
	Encode  func(fieldValue interface{}, dst []byte, max int, lenHint int) (used int, err error)
	Decode  func(src []byte, max int, lenHint int) (fieldValue interface{}, used int, err error)
	Print   func(fieldValue interface{}) string
	Scan    func(token string) (fieldValue interface{}, err error)
	Dealloc func(fieldValue interface{})

	// EncodeBits/DecodeBits are the bit-packed-struct counterparts of
	// Encode/Decode, used only by fields of a struct registered with
	// BitfieldStructEncode/BitfieldStructDecode. They operate on an
	// unshifted, unmasked 32-bit register rather than a byte slice.
	EncodeBits func(fieldValue interface{}, width int) (bits uint32, err error)
	DecodeBits func(bits uint32, width int) (fieldValue interface{}, err error)
}

// Registry is a single process-wide table of StructDefinitions. The zero
// value is ready to use.
type Registry struct {
	defs map[TypeID]*StructDefinition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[TypeID]*StructDefinition)}
}

// Register adds def under def.Type. It is write-once: registering the
// same type id twice returns ErrAlreadyRegistered, and there is no
// unregister.
func (r *Registry) Register(def *StructDefinition) error {
	if def == nil {
		return fmt.Errorf("registry: nil definition")
	}
	if r.defs == nil {
		r.defs = make(map[TypeID]*StructDefinition)
	}
	if _, exists := r.defs[def.Type]; exists {
		return ErrAlreadyRegistered
	}
	r.defs[def.Type] = def
	return nil
}

// RegisterAll registers a batch of definitions, stopping at the first
// failure (mirrors XDR_register_structs's "stop at first null" loop,
// generalized to report the error instead of silently truncating).
func (r *Registry) RegisterAll(defs []*StructDefinition) error {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return fmt.Errorf("registering type %d: %w", d.Type, err)
		}
	}
	return nil
}

// Lookup returns the StructDefinition for id, or ErrUnknownType.
func (r *Registry) Lookup(id TypeID) (*StructDefinition, error) {
	def, ok := r.defs[id]
	if !ok {
		return nil, ErrUnknownType
	}
	return def, nil
}

// SetPopulator attaches a populator hook to an already-registered type,
// mirroring XDR_register_populator. Returns ErrUnknownType if id was
// never registered.
func (r *Registry) SetPopulator(id TypeID, p Populator) error {
	def, err := r.Lookup(id)
	if err != nil {
		return err
	}
	def.Populate = p
	return nil
}

// SetStructPrinter overrides the default printer for id, mirroring
// XDR_set_struct_print_function.
func (r *Registry) SetStructPrinter(id TypeID, p Printer) error {
	def, err := r.Lookup(id)
	if err != nil {
		return err
	}
	def.Print = p
	return nil
}

// SetFieldPrinter overrides the printer of a single field within an
// already-registered struct, mirroring XDR_set_field_print_function. The
// struct's Fields must be a []FieldDefinition for this to apply.
func (r *Registry) SetFieldPrinter(id TypeID, fieldIndex int, p func(interface{}) string) error {
	def, err := r.Lookup(id)
	if err != nil {
		return err
	}
	fields, ok := def.Fields.([]FieldDefinition)
	if !ok || fieldIndex < 0 || fieldIndex >= len(fields) {
		return fmt.Errorf("registry: field index %d out of range for type %d", fieldIndex, id)
	}
	if fields[fieldIndex].TypeFuncs == nil {
		return fmt.Errorf("registry: field %d of type %d has no TypeFuncs", fieldIndex, id)
	}
	fields[fieldIndex].TypeFuncs.Print = p
	return nil
}

// Populate invokes the registered populator for id, if any, returning
// ErrUnknownType for an unregistered type and a nil Populator simply
// returning (nil, nil).
func (r *Registry) Populate(id TypeID) (interface{}, error) {
	def, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	if def.Populate == nil {
		return nil, nil
	}
	return def.Populate()
}
