package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema(
		Float("exposure", "exposure", -3, 3, 0),
		Int("radius", "radius", 1, 25, 3),
		UInt("seed", "random seed", 0, 9999, 42),
		Bool("clip", "clip highlights", true),
		Enum("mode", "blend mode", []EnumValue{
			{Name: "normal", Value: 0, Description: "normal"},
			{Name: "screen", Value: 10, Description: "screen"},
			{Name: "burn", Value: 20, Description: "burn"},
		}, 10),
	)
	require.NoError(t, err)
	return s
}

func TestSchemaOffsets(t *testing.T) {
	s := testSchema(t)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 20, s.Size())

	for i, name := range []string{"exposure", "radius", "seed", "clip", "mode"} {
		d, ok := s.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, i*4, d.Offset, name)
	}
	assert.Equal(t, []string{"exposure", "radius", "seed", "clip", "mode"}, s.Names())
}

func TestSchemaValidation(t *testing.T) {
	testCases := []struct {
		name string
		desc Desc
		want string
	}{
		{"empty name", Float("", "x", 0, 1, 0), "no name"},
		{"reversed float range", Float("a", "x", 1, 0, 0), "not ordered"},
		{"float default outside", Float("a", "x", 0, 1, 2), "outside"},
		{"reversed int range", Int("a", "x", 5, 5, 5), "not ordered"},
		{"int default outside", Int("a", "x", 0, 10, 11), "outside"},
		{"uint default outside", UInt("a", "x", 1, 10, 0), "outside"},
		{"empty enum", Enum("a", "x", nil, 0), "no values"},
		{"enum default missing", Enum("a", "x", []EnumValue{{Name: "n", Value: 1}}, 2), "not in table"},
		{"duplicate enum name", Enum("a", "x", []EnumValue{
			{Name: "n", Value: 0}, {Name: "n", Value: 1},
		}, 0), "duplicate"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSchema(tc.desc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("duplicate field name", func(t *testing.T) {
		_, err := NewSchema(Bool("a", "x", false), Bool("a", "y", true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate parameter name")
	})
}

func TestBlockDefaults(t *testing.T) {
	b := testSchema(t).NewBlock()

	f, ok := b.Field("exposure")
	require.True(t, ok)
	assert.Equal(t, float32(0), f.Float())

	f, _ = b.Field("radius")
	assert.Equal(t, int32(3), f.Int())

	f, _ = b.Field("seed")
	assert.Equal(t, uint32(42), f.Uint())

	f, _ = b.Field("clip")
	assert.True(t, f.Bool())

	f, _ = b.Field("mode")
	assert.Equal(t, int32(10), f.Enum())
}

func TestFieldLookupUnknown(t *testing.T) {
	b := testSchema(t).NewBlock()

	f, ok := b.Field("no_such_parameter")
	assert.False(t, ok)
	assert.False(t, f.Valid())
}

func TestFieldAccessors(t *testing.T) {
	b := testSchema(t).NewBlock()

	f, _ := b.Field("exposure")
	f.SetFloat(-1.5)
	assert.Equal(t, float32(-1.5), f.Float())
	assert.Equal(t, float32(-1.5), f.Value())

	f, _ = b.Field("radius")
	f.SetInt(-7)
	assert.Equal(t, int32(-7), f.Int())

	f, _ = b.Field("seed")
	f.SetUint(4000000000)
	assert.Equal(t, uint32(4000000000), f.Uint())

	f, _ = b.Field("clip")
	f.SetBool(false)
	assert.False(t, f.Bool())
	f.SetBool(true)
	assert.True(t, f.Bool())

	f, _ = b.Field("mode")
	f.SetEnum(20)
	assert.Equal(t, int32(20), f.Enum())
}

func TestFieldWrongKindPanics(t *testing.T) {
	b := testSchema(t).NewBlock()

	f, _ := b.Field("radius")
	assert.Panics(t, func() { f.Float() })
	assert.Panics(t, func() { f.SetBool(true) })

	f, _ = b.Field("clip")
	assert.Panics(t, func() { f.SetInt(1) })
}

func TestBlockSnapshotRestore(t *testing.T) {
	b := testSchema(t).NewBlock()

	f, _ := b.Field("exposure")
	f.SetFloat(2.5)
	snap := b.Bytes()

	f.SetFloat(-2.5)
	other := b.Clone()
	assert.True(t, b.Equal(other))

	require.NoError(t, b.Restore(snap))
	assert.Equal(t, float32(2.5), f.Float())
	assert.False(t, b.Equal(other))

	assert.Error(t, b.Restore([]byte{1, 2, 3}))
}

func TestBlockMapRoundtrip(t *testing.T) {
	s := testSchema(t)
	b := s.NewBlock()

	f, _ := b.Field("exposure")
	f.SetFloat(1.25)
	f, _ = b.Field("mode")
	f.SetEnum(20)

	m := b.Map()
	assert.Equal(t, 1.25, m["exposure"])
	assert.Equal(t, int64(3), m["radius"])
	assert.Equal(t, true, m["clip"])
	assert.Equal(t, "burn", m["mode"])

	fresh := s.NewBlock()
	require.NoError(t, fresh.SetMap(m))
	assert.True(t, b.Equal(fresh))
}

func TestFieldSet(t *testing.T) {
	b := testSchema(t).NewBlock()

	t.Run("float range", func(t *testing.T) {
		f, _ := b.Field("exposure")
		require.NoError(t, f.Set(2.0))
		assert.Equal(t, float32(2), f.Float())
		assert.Error(t, f.Set(3.5))
		assert.Error(t, f.Set("fast"))
	})

	t.Run("int from float", func(t *testing.T) {
		f, _ := b.Field("radius")
		require.NoError(t, f.Set(7.0))
		assert.Equal(t, int32(7), f.Int())
		assert.Error(t, f.Set(7.5))
		assert.Error(t, f.Set(int64(26)))
	})

	t.Run("uint rejects negative", func(t *testing.T) {
		f, _ := b.Field("seed")
		assert.Error(t, f.Set(-1))
		require.NoError(t, f.Set(int64(9999)))
		assert.Equal(t, uint32(9999), f.Uint())
	})

	t.Run("bool strict", func(t *testing.T) {
		f, _ := b.Field("clip")
		require.NoError(t, f.Set(false))
		assert.False(t, f.Bool())
		assert.Error(t, f.Set(1))
	})

	t.Run("enum by name and value", func(t *testing.T) {
		f, _ := b.Field("mode")
		require.NoError(t, f.Set("screen"))
		assert.Equal(t, int32(10), f.Enum())
		require.NoError(t, f.Set(int64(20)))
		assert.Equal(t, int32(20), f.Enum())
		assert.Error(t, f.Set("multiply"))
		assert.Error(t, f.Set(int64(15)))
	})

	t.Run("set map unknown name", func(t *testing.T) {
		assert.Error(t, b.SetMap(map[string]any{"missing": 1}))
	})
}
