package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/benchplan/internal/bytesize"
)

var factors = []string{"model", "nnodes", "mem_per_node", "test_id"}

func mkVector(t *testing.T, model string, nnodes int64, mem string, id int64, origins ...Origin) *TestVector {
	t.Helper()
	tv, err := New(factors, map[string]Value{
		"model":        String(model),
		"nnodes":       Int(nnodes),
		"mem_per_node": Size(bytesize.MustParse(mem)),
		"test_id":      Int(id),
	}, origins...)
	require.NoError(t, err)
	return tv
}

func TestNew_MissingFactor(t *testing.T) {
	_, err := New(factors, map[string]Value{"model": String("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nnodes")
}

func TestNew_UndeclaredFactor(t *testing.T) {
	vals := map[string]Value{
		"model":        String("x"),
		"nnodes":       Int(1),
		"mem_per_node": Size(bytesize.GiB),
		"test_id":      Int(0),
		"extra":        Int(9),
	}
	_, err := New(factors, vals)
	assert.Error(t, err)
}

func TestKey_IdentityIgnoresOrigins(t *testing.T) {
	a := mkVector(t, "m1", 4, "5G", 0, Origin{Model: "m1", Policy: "weak", Tag: "c0"})
	b := mkVector(t, "m1", 4, "5G", 0, Origin{Model: "m2", Policy: "strong", Tag: "c1"})
	assert.Equal(t, a.Key(), b.Key())

	c := mkVector(t, "m1", 4, "5G", 1)
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestKey_DistinguishesValueKinds(t *testing.T) {
	// Two candidates may declare the same factor once as a string and once
	// as a number; such vectors are distinct and must not collapse.
	str, err := New([]string{"rev"}, map[string]Value{"rev": String("1")})
	require.NoError(t, err)
	num, err := New([]string{"rev"}, map[string]Value{"rev": Int(1)})
	require.NoError(t, err)
	assert.NotEqual(t, str.Key(), num.Key())

	// Numeric kinds of equal magnitude compare equal, so they share a key.
	size, err := New([]string{"rev"}, map[string]Value{"rev": Size(bytesize.Size(1))})
	require.NoError(t, err)
	assert.Equal(t, num.Key(), size.Key())
	assert.Zero(t, Int(1).Compare(Size(bytesize.Size(1))))
}

func TestMergeOrigins(t *testing.T) {
	a := mkVector(t, "m", 1, "5G", 0, Origin{Model: "m", Policy: "weak", Tag: "c0"})
	b := mkVector(t, "m", 1, "5G", 0,
		Origin{Model: "m", Policy: "weak", Tag: "c0"},
		Origin{Model: "m", Policy: "strong", Tag: "c0"})
	a.MergeOrigins(b)
	assert.Len(t, a.Origins(), 2)
}

func TestDirName(t *testing.T) {
	tv := mkVector(t, "omni", 16, "5G", 0)
	assert.Equal(t, "model-omni/nnodes-16/mem_per_node-5G/test_id-0", tv.DirName())
}

func TestDirName_SanitizesSeparators(t *testing.T) {
	tv, err := New([]string{"bin"}, map[string]Value{"bin": String("bin/app x")})
	require.NoError(t, err)
	assert.Equal(t, "bin-bin_app_x", tv.DirName())
}

func TestSort_NumericThenDeclaredOrder(t *testing.T) {
	vs := []*TestVector{
		mkVector(t, "b", 16, "5G", 0),
		mkVector(t, "a", 2, "25G", 0),
		mkVector(t, "a", 2, "5G", 1),
		mkVector(t, "a", 2, "5G", 0),
	}
	Sort(vs)
	assert.Equal(t, "a", firstValue(t, vs[0], "model"))
	assert.Equal(t, "5G", firstValue(t, vs[0], "mem_per_node"))
	assert.Equal(t, "0", firstValue(t, vs[0], "test_id"))
	assert.Equal(t, "1", firstValue(t, vs[1], "test_id"))
	assert.Equal(t, "25G", firstValue(t, vs[2], "mem_per_node"))
	assert.Equal(t, "b", firstValue(t, vs[3], "model"))

	// Idempotent: sorting again yields the same sequence.
	before := make([]string, len(vs))
	for i, v := range vs {
		before[i] = v.Key()
	}
	Sort(vs)
	for i, v := range vs {
		assert.Equal(t, before[i], v.Key())
	}
}

func TestValueCompare_NumericNotLexicographic(t *testing.T) {
	assert.Negative(t, Int(2).Compare(Int(16)))
	assert.Negative(t, Size(5*bytesize.GiB).Compare(Size(25*bytesize.GiB)))
	assert.Positive(t, String("2").Compare(String("16"))) // strings stay lexicographic
}

func firstValue(t *testing.T, tv *TestVector, factor string) string {
	t.Helper()
	v, ok := tv.Value(factor)
	require.True(t, ok)
	return v.String()
}
