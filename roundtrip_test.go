package cton

import (
	"math/big"
	"testing"
)

// buildSample constructs a representative value tree exercising every
// container and scalar kind the codec supports.
func buildSample() *Object {
	root := NewObject()
	root.Set("name", "ana")
	root.Set("quoted", "needs quoting, really")
	root.Set("count", bi(42))
	root.Set("big", new(big.Int).SetUint64(18446744073709551615))
	root.Set("ratio", 0.5)
	root.Set("flag", true)
	root.Set("absent", nil)
	root.Set("empty_obj", NewObject())
	root.Set("empty_arr", Array{})
	root.Set("list", Array{bi(1), bi(2), bi(3)})
	row := func(id int64, label string) *Object {
		o := NewObject()
		o.Set("id", bi(id))
		o.Set("label", label)
		return o
	}
	root.Set("table", Array{row(1, "a"), row(2, "b")})
	mixed := NewObject()
	mixed.Set("a", bi(1))
	other := NewObject()
	other.Set("b", bi(2))
	root.Set("heterogeneous", Array{mixed, other, bi(3)})
	nested := NewObject()
	nested.Set("x", bi(1))
	nested.Set("y", Array{"p", "q"})
	root.Set("nested", nested)
	return root
}

func TestRoundTripDecodeEncode(t *testing.T) {
	t.Parallel()

	sample := buildSample()
	encoded, err := Encode(sample, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, DecodeConfig{})
	if err != nil {
		t.Fatalf("decode of own output failed: %v\n%s", err, encoded)
	}
	if !valueEqual(sample, decoded) {
		t.Errorf("round trip mismatch\nencoded: %s\ngot: %#v", encoded, decoded)
	}
}

func TestRoundTripEncodeDecodeEncodeIsStable(t *testing.T) {
	t.Parallel()

	sample := buildSample()
	first, err := Encode(sample, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(first, DecodeConfig{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(decoded, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("canonical round trip unstable:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestRoundTripSafeTokens(t *testing.T) {
	t.Parallel()

	tokens := []string{"ana", "spring_2025", "a.b:c-d", "X", "file-name.v2"}
	for _, tok := range tokens {
		if !isSafeToken(tok) {
			t.Fatalf("test fixture %q is not actually a safe token", tok)
		}
		root := NewObject()
		root.Set("v", tok)
		encoded, err := Encode(root, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if string(encoded) != "v="+tok {
			t.Errorf("safe token %q was quoted: %s", tok, encoded)
		}
		decoded, err := Decode(encoded, DecodeConfig{})
		if err != nil {
			t.Fatal(err)
		}
		v, _ := decoded.(*Object).Get("v")
		if v != tok {
			t.Errorf("round trip of %q = %v", tok, v)
		}
	}
}

func TestRoundTripReservedAndNumericLikeStringsAreQuoted(t *testing.T) {
	t.Parallel()

	strs := []string{"true", "false", "null", "007", "1e6", "-5", "0"}
	for _, s := range strs {
		root := NewObject()
		root.Set("v", s)
		encoded, err := Encode(root, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := Decode(encoded, DecodeConfig{})
		if err != nil {
			t.Fatal(err)
		}
		v, _ := decoded.(*Object).Get("v")
		if v != s {
			t.Errorf("round trip of string %q = %#v (expected to survive as string)", s, v)
		}
	}
}

func TestRoundTripNumericCanonicality(t *testing.T) {
	t.Parallel()

	root := NewObject()
	root.Set("int_val", bi(1200000))
	root.Set("dec_val", 1.2e6)

	encoded, err := Encode(root, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := string(encoded)
	if containsAny(s, "eE") {
		t.Errorf("encoded output contains scientific notation: %s", s)
	}

	decoded, err := Decode(encoded, DecodeConfig{})
	if err != nil {
		t.Fatal(err)
	}
	obj := decoded.(*Object)
	iv, _ := obj.Get("int_val")
	if _, ok := iv.(*big.Int); !ok {
		t.Errorf("int_val decoded as %T, want *big.Int", iv)
	}
	dv, _ := obj.Get("dec_val")
	// An integral decimal encodes as a plain integer token, so it decodes
	// as Integer.
	if n, ok := dv.(*big.Int); !ok || n.Cmp(bi(1200000)) != 0 {
		t.Errorf("dec_val decoded as %#v, want *big.Int 1200000", dv)
	}
}

func TestRoundTripTableDetectionSubstring(t *testing.T) {
	t.Parallel()

	row := func(id int64) *Object {
		o := NewObject()
		o.Set("id", bi(id))
		return o
	}
	arr := Array{row(1), row(2), row(3)}
	root := NewObject()
	root.Set("rows", arr)

	encoded, err := Encode(root, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := string(encoded)
	if !containsAny(s, "{") {
		t.Errorf("expected table form for uniform scalar objects, got %s", s)
	}

	decoded, err := Decode(encoded, DecodeConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if !valueEqual(root, decoded) {
		t.Errorf("table round trip mismatch: %s", encoded)
	}
}
