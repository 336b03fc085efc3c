// Typed parameter descriptors and schemas for processing operations
package params

import "fmt"

// Kind identifies the storage type of a parameter field.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat
	KindInt
	KindUInt
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindUInt:
		return "uint"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// slotSize is the storage footprint of every field kind.
const slotSize = 4

// EnumValue is one entry of an enumeration table. Value is the stored
// integer and does not have to match the entry's position in the table.
type EnumValue struct {
	Name        string
	Value       int32
	Description string
}

// FloatSpec carries the range and default of a float field.
type FloatSpec struct {
	Min, Max, Default float32
}

// IntSpec carries the range and default of an int field.
type IntSpec struct {
	Min, Max, Default int32
}

// UintSpec carries the range and default of an unsigned field.
type UintSpec struct {
	Min, Max, Default uint32
}

// BoolSpec carries the default of a bool field.
type BoolSpec struct {
	Default bool
}

// EnumSpec carries the value table and default of an enum field.
type EnumSpec struct {
	Values  []EnumValue
	Default int32
}

// ValueName returns the table name for a stored value, or "" when the
// value is not in the table.
func (e EnumSpec) ValueName(v int32) string {
	for _, ev := range e.Values {
		if ev.Value == v {
			return ev.Name
		}
	}
	return ""
}

// ValueByName resolves a table name back to its stored value.
func (e EnumSpec) ValueByName(name string) (int32, bool) {
	for _, ev := range e.Values {
		if ev.Name == name {
			return ev.Value, true
		}
	}
	return 0, false
}

// Desc describes one parameter field: its name, kind, byte offset inside
// the block, a human-readable description and the kind-specific payload.
// Exactly one payload is meaningful, selected by Kind.
type Desc struct {
	Name        string
	Description string
	Kind        Kind
	Offset      int

	Float FloatSpec
	Int   IntSpec
	Uint  UintSpec
	Bool  BoolSpec
	Enum  EnumSpec
}

// Float declares a float field.
func Float(name, description string, min, max, def float32) Desc {
	return Desc{Name: name, Description: description, Kind: KindFloat,
		Float: FloatSpec{Min: min, Max: max, Default: def}}
}

// Int declares an int field.
func Int(name, description string, min, max, def int32) Desc {
	return Desc{Name: name, Description: description, Kind: KindInt,
		Int: IntSpec{Min: min, Max: max, Default: def}}
}

// UInt declares an unsigned field.
func UInt(name, description string, min, max, def uint32) Desc {
	return Desc{Name: name, Description: description, Kind: KindUInt,
		Uint: UintSpec{Min: min, Max: max, Default: def}}
}

// Bool declares a bool field.
func Bool(name, description string, def bool) Desc {
	return Desc{Name: name, Description: description, Kind: KindBool,
		Bool: BoolSpec{Default: def}}
}

// Enum declares an enum field backed by a value table.
func Enum(name, description string, values []EnumValue, def int32) Desc {
	return Desc{Name: name, Description: description, Kind: KindEnum,
		Enum: EnumSpec{Values: values, Default: def}}
}

// Schema is the fixed descriptor table of one operation, built once at
// registration time. Field offsets are assigned in declaration order.
type Schema struct {
	descs  []Desc
	byName map[string]int
	size   int
}

// NewSchema validates the descriptors, assigns offsets and builds the
// name index.
func NewSchema(descs ...Desc) (*Schema, error) {
	s := &Schema{
		descs:  make([]Desc, len(descs)),
		byName: make(map[string]int, len(descs)),
	}
	for i, d := range descs {
		if d.Name == "" {
			return nil, fmt.Errorf("parameter %d has no name", i)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", d.Name)
		}
		if err := validateDesc(d); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", d.Name, err)
		}
		d.Offset = i * slotSize
		s.descs[i] = d
		s.byName[d.Name] = i
	}
	s.size = len(descs) * slotSize
	return s, nil
}

// MustSchema is NewSchema for static operation registration.
func MustSchema(descs ...Desc) *Schema {
	s, err := NewSchema(descs...)
	if err != nil {
		panic(err)
	}
	return s
}

func validateDesc(d Desc) error {
	switch d.Kind {
	case KindFloat:
		f := d.Float
		if f.Min >= f.Max {
			return fmt.Errorf("float range [%g,%g] is not ordered", f.Min, f.Max)
		}
		if f.Default < f.Min || f.Default > f.Max {
			return fmt.Errorf("float default %g outside [%g,%g]", f.Default, f.Min, f.Max)
		}
	case KindInt:
		n := d.Int
		if n.Min >= n.Max {
			return fmt.Errorf("int range [%d,%d] is not ordered", n.Min, n.Max)
		}
		if n.Default < n.Min || n.Default > n.Max {
			return fmt.Errorf("int default %d outside [%d,%d]", n.Default, n.Min, n.Max)
		}
	case KindUInt:
		u := d.Uint
		if u.Min >= u.Max {
			return fmt.Errorf("uint range [%d,%d] is not ordered", u.Min, u.Max)
		}
		if u.Default < u.Min || u.Default > u.Max {
			return fmt.Errorf("uint default %d outside [%d,%d]", u.Default, u.Min, u.Max)
		}
	case KindBool:
		// nothing to check
	case KindEnum:
		e := d.Enum
		if len(e.Values) == 0 {
			return fmt.Errorf("enum has no values")
		}
		seen := make(map[string]bool, len(e.Values))
		if e.ValueName(e.Default) == "" {
			return fmt.Errorf("enum default %d not in table", e.Default)
		}
		for _, ev := range e.Values {
			if ev.Name == "" {
				return fmt.Errorf("enum value %d has no name", ev.Value)
			}
			if seen[ev.Name] {
				return fmt.Errorf("duplicate enum value name %q", ev.Name)
			}
			seen[ev.Name] = true
		}
	default:
		return fmt.Errorf("unknown kind %d", d.Kind)
	}
	return nil
}

// Size returns the byte length of a block described by this schema.
func (s *Schema) Size() int {
	return s.size
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.descs)
}

// Lookup returns the descriptor for a field name.
func (s *Schema) Lookup(name string) (*Desc, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.descs[i], true
}

// Descs returns the descriptors in declaration order. The slice is shared;
// callers must not modify it.
func (s *Schema) Descs() []Desc {
	return s.descs
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.descs))
	for i, d := range s.descs {
		names[i] = d.Name
	}
	return names
}
