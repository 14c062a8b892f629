package hash

import (
	"hash/maphash"
	"reflect"
)

// selfUnequal is the hash shared by every key k where k != k.
const selfUnequal uint64 = 0x9e3779b97f4a7c15

// Hasher computes seeded 64-bit hashes of comparable keys.
// The zero value is not usable; call New.
type Hasher[K comparable] struct {
	seed maphash.Seed
}

// New returns a Hasher with a random seed.
func New[K comparable]() Hasher[K] {
	return Hasher[K]{seed: maphash.MakeSeed()}
}

// Sum returns the hash of k.
func (h Hasher[K]) Sum(k K) uint64 {
	if k != k {
		return selfUnequal
	}
	return maphash.Comparable(h.seed, k)
}

// Equal reports whether a and b denote the same key. It is == except that
// NaN matches NaN wherever it occurs inside the key, so {NaN, 1} equals
// {NaN, 1} but not {NaN, 2}.
func Equal[K comparable](a, b K) bool {
	if a == b {
		return true
	}
	if a == a || b == b {
		return false
	}
	return equalNaN(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

func equalNaN(x, y reflect.Value) bool {
	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(x.Float(), y.Float())
	case reflect.Complex64, reflect.Complex128:
		cx, cy := x.Complex(), y.Complex()
		return sameFloat(real(cx), real(cy)) && sameFloat(imag(cx), imag(cy))
	case reflect.Array:
		for i := range x.Len() {
			if !equalNaN(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range x.NumField() {
			if !equalNaN(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		ex, ey := x.Elem(), y.Elem()
		if ex.Type() != ey.Type() {
			return false
		}
		return equalNaN(ex, ey)
	default:
		return x.Equal(y)
	}
}

func sameFloat(a, b float64) bool {
	return a == b || (a != a && b != b)
}
