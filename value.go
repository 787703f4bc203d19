// Package cton implements CTON (Compact Token-Oriented Notation), a
// JSON-isomorphic textual format tuned for token-efficient transport of
// structured data.
//
// # Numbers
//
// Integers are arbitrary-range and written in plain base-10, never with a
// leading zero except for the literal 0 itself:
//
//	100
//	-30
//
// Decimals are normalized to a canonical fixed-point form: no scientific
// notation survives encoding, and -0 always collapses to 0.
//
//	13.5
//	1200000
//
// Two real numbers f1, f2 that differ only in their binary representation
// still round-trip to the same bytes once encoded, because the formatter
// strips trailing fractional zeros and a dangling decimal point.
//
// # Strings
//
// A string that looks like a bare word - only characters from
// [0-9A-Za-z_.:-], not "true"/"false"/"null", and not numeric-like - is
// written unquoted:
//
//	Boulder
//	spring_2025
//
// Anything else is double-quoted, with escapes for the usual five
// characters: ", \, \n, \r, \t.
//
//	"Blue Lake Trail"
//	"007"
//
// # Objects and arrays
//
// An object is a parenthesized, comma-separated list of key=value pairs.
// An array carries its length up front:
//
//	friends[3]=ana,luis,sam
//
// # Tables
//
// When every element of an array is a non-empty object with the same key
// sequence and only scalar values, the array compresses into a table: a
// header naming the shared keys once, followed by semicolon-separated rows.
//
//	hikes[2]{id,name}=1,"Blue Lake Trail";2,"Ridge Overlook"
//
// # Key-boundary heuristic
//
// A writer using separator="" for maximum density can produce
// a=1b=2, which the decoder must still split into two pairs. The rule: a
// scalar ends the moment the decoder sees what looks like the start of a
// new top-level key (an alphabetic/underscore/dot/colon/hyphen run followed
// by (, [, or =), even without an intervening separator. Keys beginning
// with a digit are therefore unreachable in a separator-less stream
// immediately after a numeric scalar; this is an accepted limitation, not a
// bug.
//
// # Comments
//
// A # runs to end of line and is skipped by the decoder entirely. Comments
// carry no semantic weight and do not survive a decode/encode round trip;
// the encoder can only emit them cosmetically via [Config.Comments].
package cton

import "math/big"

// Value is any value the codec can hold: nil (Null), bool, *big.Int
// (Integer), float64 or *apd.Decimal (Decimal), string (String), Array, or
// *Object. The decoder never returns *apd.Decimal; it is accepted on
// encode only, for callers that already hold an arbitrary-precision
// decimal and want it normalized without a lossy float64 round trip.
type Value = any

// Array is an ordered sequence of values.
type Array []Value

// Object is an ordered mapping from string keys to values. Unlike a plain
// Go map, iteration order matches insertion order, and re-setting an
// existing key updates its value in place rather than moving it to the
// end.
type Object struct {
	order []string
	data  map[string]Value
}

// NewObject returns an empty Object ready for use.
func NewObject() *Object {
	return &Object{data: make(map[string]Value)}
}

// Set assigns key to v. If key is already present, its value is replaced
// and its position in iteration order is unchanged; otherwise key is
// appended at the end.
func (o *Object) Set(key string, v Value) {
	if o.data == nil {
		o.data = make(map[string]Value)
	}
	if _, ok := o.data[key]; !ok {
		o.order = append(o.order, key)
	}
	o.data[key] = v
}

// Get returns the value stored for key, and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.data[key]
	return v, ok
}

// Len returns the number of keys in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.order)
}

// Keys returns the object's keys in iteration order. The returned slice
// must not be mutated.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.order
}

// Pairs iterates the object's key/value pairs in order.
func (o *Object) Pairs(yield func(string, Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.order {
		if !yield(k, o.data[k]) {
			return
		}
	}
}

// scalarKind reports whether v is one of the scalar variants (Null, Bool,
// Integer, Decimal, String) as opposed to Array or Object.
func scalarKind(v Value) bool {
	switch v.(type) {
	case nil, bool, string, float32, float64:
		return true
	case *big.Int, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	if isApdDecimal(v) {
		return true
	}
	return false
}
