package partition

import (
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"time"
	"unicode/utf16"
)

// Tuple is the ordered list of the components of a key.
type Tuple []any

// Pair is a key made of a grouping part and a secondary part, as used by secondary sorts.
// Only Lhs drives partitioning.
type Pair struct {
	Lhs Tuple
	Rhs Tuple
}

// Hashable is implemented by components providing their own hash.
// Equal components must return equal hashes.
type Hashable interface {
	HashCode() int32
}

// ElementHasher hashes one component of a key.
type ElementHasher func(v any) int32

// HashOf returns the JVM compatible hash of a single component.
//
// Go int and uint values hash like a JVM long, a time.Time like the long of its Unix
// nanoseconds and a []byte like a JVM byte array. Pointers hash the value they point to.
// Values of other types hash the FNV-32a digest of their %v form.
func HashOf(v any) int32 {
	switch val := v.(type) {
	case nil:
		return 0
	case Hashable:
		return val.HashCode()
	case string:
		return stringHash(val)
	case []byte:
		return bytesHash(val)
	case time.Time:
		return longHash(val.UnixNano())
	case bool:
		if val {
			return 1231
		}

		return 1237
	case int8:
		return int32(val)
	case int16:
		return int32(val)
	case int32:
		return val
	case uint8:
		return int32(val)
	case uint16:
		return int32(val)
	case int:
		return longHash(int64(val))
	case int64:
		return longHash(val)
	case uint:
		return longHash(int64(val))
	case uint32:
		return longHash(int64(val))
	case uint64:
		return longHash(int64(val))
	case float32:
		if val != val {
			return 0x7fc00000
		}

		return int32(math.Float32bits(val))
	case float64:
		bits := math.Float64bits(val)
		if val != val {
			bits = 0x7ff8000000000000
		}

		return int32(bits ^ (bits >> 32))
	case Tuple:
		return hashTuple(val, nil)
	default:
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return 0
			}

			return HashOf(rv.Elem().Interface())
		}
		h := fnv.New32a()
		_, _ = fmt.Fprintf(h, "%v", val)

		return int32(h.Sum32())
	}
}

// stringHash folds the UTF-16 code units of s.
func stringHash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(unit)
	}

	return h
}

func bytesHash(b []byte) int32 {
	h := int32(1)
	for _, v := range b {
		h = 31*h + int32(int8(v))
	}

	return h
}

func longHash(v int64) int32 {
	u := uint64(v)

	return int32(u ^ (u >> 32))
}

func hashTuple(t Tuple, hashers map[int]ElementHasher) int32 {
	h := int32(1)
	for i, v := range t {
		hasher := HashOf
		if custom, ok := hashers[i]; ok {
			hasher = custom
		}
		h = 31*h + hasher(v)
	}

	return h
}
