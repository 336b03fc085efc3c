// Parameter blocks: schema-described live value storage
package params

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Block holds the live values of one module instance, laid out by its
// schema: little-endian, one 4-byte slot per field, bools stored as 0/1.
type Block struct {
	schema *Schema
	data   []byte
}

// NewBlock allocates a block with every field set to its default.
func (s *Schema) NewBlock() *Block {
	b := &Block{schema: s, data: make([]byte, s.size)}
	for i := range s.descs {
		f := Field{block: b, desc: &s.descs[i]}
		switch f.desc.Kind {
		case KindFloat:
			f.SetFloat(f.desc.Float.Default)
		case KindInt:
			f.SetInt(f.desc.Int.Default)
		case KindUInt:
			f.SetUint(f.desc.Uint.Default)
		case KindBool:
			f.SetBool(f.desc.Bool.Default)
		case KindEnum:
			f.SetEnum(f.desc.Enum.Default)
		}
	}
	return b
}

// Schema returns the describing schema.
func (b *Block) Schema() *Schema {
	return b.schema
}

// Field resolves a field handle by name. The second result is false for
// unknown names.
func (b *Block) Field(name string) (Field, bool) {
	d, ok := b.schema.Lookup(name)
	if !ok {
		return Field{}, false
	}
	return Field{block: b, desc: d}, true
}

// Bytes returns a copy of the raw block contents.
func (b *Block) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Restore overwrites the block from a snapshot taken with Bytes.
func (b *Block) Restore(data []byte) error {
	if len(data) != len(b.data) {
		return fmt.Errorf("snapshot is %d bytes, block is %d", len(data), len(b.data))
	}
	copy(b.data, data)
	return nil
}

// Reset sets every field back to its schema default.
func (b *Block) Reset() {
	copy(b.data, b.schema.NewBlock().data)
}

// Clone returns an independent copy of the block.
func (b *Block) Clone() *Block {
	out := &Block{schema: b.schema, data: make([]byte, len(b.data))}
	copy(out.data, b.data)
	return out
}

// Equal reports whether two blocks of the same schema hold the same values.
func (b *Block) Equal(other *Block) bool {
	return other != nil && b.schema == other.schema && bytes.Equal(b.data, other.data)
}

// Map exports the block as name -> value, with floats as float64, ints as
// int64 and enums as their table names. Used by presets, sidecars and
// scripting.
func (b *Block) Map() map[string]any {
	out := make(map[string]any, b.schema.Len())
	for i := range b.schema.descs {
		d := &b.schema.descs[i]
		f := Field{block: b, desc: d}
		switch d.Kind {
		case KindFloat:
			out[d.Name] = float64(f.Float())
		case KindInt:
			out[d.Name] = int64(f.Int())
		case KindUInt:
			out[d.Name] = int64(f.Uint())
		case KindBool:
			out[d.Name] = f.Bool()
		case KindEnum:
			v := f.Enum()
			if name := d.Enum.ValueName(v); name != "" {
				out[d.Name] = name
			} else {
				out[d.Name] = int64(v)
			}
		}
	}
	return out
}

// SetMap applies name -> value pairs through the generic setter. Unknown
// names and unconvertible values are errors; earlier pairs stay applied.
func (b *Block) SetMap(values map[string]any) error {
	for name, v := range values {
		f, ok := b.Field(name)
		if !ok {
			return fmt.Errorf("unknown parameter %q", name)
		}
		if err := f.Set(v); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}

// Field is a handle on one field of one block. Typed accessors panic when
// used against the wrong kind; the generic Value/Set pair converts and
// validates instead, for data coming from files or scripts.
type Field struct {
	block *Block
	desc  *Desc
}

// Desc returns the field's descriptor.
func (f Field) Desc() *Desc {
	return f.desc
}

// Valid reports whether the handle is bound to a field.
func (f Field) Valid() bool {
	return f.block != nil && f.desc != nil
}

func (f Field) mustKind(k Kind) {
	if f.desc.Kind != k {
		panic(fmt.Sprintf("params: %s accessor on %s field %q", k, f.desc.Kind, f.desc.Name))
	}
}

func (f Field) raw() uint32 {
	return binary.LittleEndian.Uint32(f.block.data[f.desc.Offset:])
}

func (f Field) setRaw(v uint32) {
	binary.LittleEndian.PutUint32(f.block.data[f.desc.Offset:], v)
}

// Float reads a float field.
func (f Field) Float() float32 {
	f.mustKind(KindFloat)
	return math.Float32frombits(f.raw())
}

// SetFloat writes a float field.
func (f Field) SetFloat(v float32) {
	f.mustKind(KindFloat)
	f.setRaw(math.Float32bits(v))
}

// Int reads an int field.
func (f Field) Int() int32 {
	f.mustKind(KindInt)
	return int32(f.raw())
}

// SetInt writes an int field.
func (f Field) SetInt(v int32) {
	f.mustKind(KindInt)
	f.setRaw(uint32(v))
}

// Uint reads an unsigned field.
func (f Field) Uint() uint32 {
	f.mustKind(KindUInt)
	return f.raw()
}

// SetUint writes an unsigned field.
func (f Field) SetUint(v uint32) {
	f.mustKind(KindUInt)
	f.setRaw(v)
}

// Bool reads a bool field.
func (f Field) Bool() bool {
	f.mustKind(KindBool)
	return f.raw() != 0
}

// SetBool writes a bool field.
func (f Field) SetBool(v bool) {
	f.mustKind(KindBool)
	if v {
		f.setRaw(1)
	} else {
		f.setRaw(0)
	}
}

// Enum reads an enum field's stored value.
func (f Field) Enum() int32 {
	f.mustKind(KindEnum)
	return int32(f.raw())
}

// SetEnum writes an enum field's stored value.
func (f Field) SetEnum(v int32) {
	f.mustKind(KindEnum)
	f.setRaw(uint32(v))
}

// Value returns the field's value in its semantic type: float32, int32,
// uint32, bool, or int32 for enums.
func (f Field) Value() any {
	switch f.desc.Kind {
	case KindFloat:
		return math.Float32frombits(f.raw())
	case KindInt:
		return int32(f.raw())
	case KindUInt:
		return f.raw()
	case KindBool:
		return f.raw() != 0
	case KindEnum:
		return int32(f.raw())
	default:
		return nil
	}
}

// Set converts and validates an externally supplied value, then writes it.
// Numeric values are range-checked, enum values must be in the table and
// may be given by name.
func (f Field) Set(v any) error {
	switch f.desc.Kind {
	case KindFloat:
		fv, err := toFloat(v)
		if err != nil {
			return err
		}
		if fv < f.desc.Float.Min || fv > f.desc.Float.Max {
			return fmt.Errorf("%g outside [%g,%g]", fv, f.desc.Float.Min, f.desc.Float.Max)
		}
		f.setRaw(math.Float32bits(fv))
	case KindInt:
		iv, err := toInt(v)
		if err != nil {
			return err
		}
		if iv < int64(f.desc.Int.Min) || iv > int64(f.desc.Int.Max) {
			return fmt.Errorf("%d outside [%d,%d]", iv, f.desc.Int.Min, f.desc.Int.Max)
		}
		f.setRaw(uint32(int32(iv)))
	case KindUInt:
		iv, err := toInt(v)
		if err != nil {
			return err
		}
		if iv < int64(f.desc.Uint.Min) || iv > int64(f.desc.Uint.Max) {
			return fmt.Errorf("%d outside [%d,%d]", iv, f.desc.Uint.Min, f.desc.Uint.Max)
		}
		f.setRaw(uint32(iv))
	case KindBool:
		bv, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%T is not a bool", v)
		}
		f.SetBool(bv)
	case KindEnum:
		if name, ok := v.(string); ok {
			ev, found := f.desc.Enum.ValueByName(name)
			if !found {
				return fmt.Errorf("%q is not a value of this enum", name)
			}
			f.setRaw(uint32(ev))
			return nil
		}
		iv, err := toInt(v)
		if err != nil {
			return err
		}
		if f.desc.Enum.ValueName(int32(iv)) == "" {
			return fmt.Errorf("%d is not a value of this enum", iv)
		}
		f.setRaw(uint32(int32(iv)))
	default:
		return fmt.Errorf("field has invalid kind")
	}
	return nil
}

func toFloat(v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int:
		return float32(n), nil
	case int32:
		return float32(n), nil
	case int64:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%g is not an integer", n)
		}
		return int64(n), nil
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, fmt.Errorf("%g is not an integer", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%T is not an integer", v)
	}
}
