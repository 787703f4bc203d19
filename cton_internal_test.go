package cton

import "math/big"

// bi is a terse constructor for big.Int literals, used throughout the
// test files in this package.
func bi(n int64) *big.Int {
	return big.NewInt(n)
}

// valueEqual deep-compares two decoded Value trees, understanding the
// concrete types Decode actually produces (nil, bool, *big.Int, float64,
// string, Array, *Object).
func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case Array:
		bv, bok := asArray(b)
		if !bok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.Keys() {
			if bv.Keys()[i] != k {
				return false
			}
			v1, _ := av.Get(k)
			v2, _ := bv.Get(k)
			if !valueEqual(v1, v2) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
