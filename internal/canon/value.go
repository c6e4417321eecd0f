package canon

import (
	"fmt"
	"slices"
	"sort"
	"unicode/utf16"
)

// Value is a sealed interface over the canonical value types.
// Only String, Int, Bool, Array and Object implement it.
type Value interface {
	canonValue()
}

// String is a string value.
type String string

func (String) canonValue() {}

// Int is an integer value. Always int64, never float64.
type Int int64

func (Int) canonValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) canonValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) canonValue() {}

// Object maps string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) canonValue() {}

// Ints builds an Array of Int from ids, sorted ascending.
// Duplicate ids collapse to one entry.
func Ints(ids ...int64) Array {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	arr := make(Array, len(sorted))
	for i, id := range sorted {
		arr[i] = Int(id)
	}
	return arr
}

// Strings builds an Array of String in the given order.
func Strings(values ...string) Array {
	arr := make(Array, len(values))
	for i, v := range values {
		arr[i] = String(v)
	}
	return arr
}

// SortedArray returns a copy of arr ordered by each element's canonical
// encoding. Used where a multiset of structured values must compare equal
// regardless of insertion order.
func SortedArray(arr Array) (Array, error) {
	type keyed struct {
		key string
		val Value
	}
	items := make([]keyed, len(arr))
	for i, v := range arr {
		b, err := Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		items[i] = keyed{key: string(b), val: v}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })

	out := make(Array, len(items))
	for i, it := range items {
		out[i] = it.val
	}
	return out, nil
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// FromAny converts decoded JSON or YAML data into a Value.
// Rejects nil and floats with a fractional part.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("floats are forbidden: %v", val)
		}
		return Int(int64(val)), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			c, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = c
		}
		return arr, nil
	case []string:
		return Strings(val...), nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			c, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = c
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
