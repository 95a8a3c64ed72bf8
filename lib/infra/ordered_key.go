package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// NaN is not totally ordered, callers must keep it out of ordered containers.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator is a three-way ordering over E.
// Assume i is the new element.
//  1. i == j (return 0), replace in place.
//  2. i > j (return positive), turn to right part.
//  3. i < j (return negative), turn to left part.
type Comparator[E any] func(i, j E) int64

// OrderedComparator builds the natural ascending comparator of an OrderedKey.
func OrderedComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// ReverseComparator flips the sign of cmp. The result is normalized
// to -1, 0, 1 so that math.MinInt64 from a custom comparator is safe.
func ReverseComparator[E any](cmp Comparator[E]) Comparator[E] {
	if cmp == nil {
		return nil
	}
	return func(i, j E) int64 {
		res := cmp(i, j)
		if res == 0 {
			return 0
		} else if res < 0 {
			return 1
		}
		return -1
	}
}
