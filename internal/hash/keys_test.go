package hash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_Stable(t *testing.T) {
	h := New[string]()
	assert.Equal(t, h.Sum("alice"), h.Sum("alice"))
	assert.NotEqual(t, h.Sum("alice"), h.Sum("bob"))
}

func TestHasher_CompositeKeys(t *testing.T) {
	type pair struct {
		A int
		B string
	}
	h := New[pair]()
	assert.Equal(t, h.Sum(pair{1, "x"}), h.Sum(pair{1, "x"}))

	arr := New[[16]byte]()
	var k [16]byte
	k[3] = 7
	assert.Equal(t, arr.Sum(k), arr.Sum(k))
}

func TestHasher_NaN(t *testing.T) {
	h := New[float64]()
	nan := math.NaN()

	assert.Equal(t, h.Sum(nan), h.Sum(math.NaN()))
	assert.True(t, Equal(nan, math.NaN()))
	assert.False(t, Equal(nan, 1.0))
	assert.True(t, Equal(1.5, 1.5))
	assert.False(t, Equal(1.5, 2.5))
}

func TestEqual_CompositeNaN(t *testing.T) {
	type point struct {
		X float64
		N int
	}
	nan := math.NaN()

	assert.True(t, Equal(point{nan, 1}, point{nan, 1}))
	assert.False(t, Equal(point{nan, 1}, point{nan, 2}))
	assert.False(t, Equal(point{nan, 1}, point{1, 1}))

	h := New[point]()
	assert.Equal(t, h.Sum(point{nan, 1}), h.Sum(point{nan, 2}))

	assert.True(t, Equal([2]float32{float32(nan), 3}, [2]float32{float32(nan), 3}))
	assert.False(t, Equal([2]float32{float32(nan), 3}, [2]float32{float32(nan), 4}))

	assert.True(t, Equal(complex(nan, 1), complex(nan, 1)))
	assert.False(t, Equal(complex(nan, 1), complex(nan, 2)))

	var a, b any = nan, nan
	assert.True(t, Equal(a, b))
	b = float32(nan)
	assert.False(t, Equal(a, b))
}
