package cton

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
)

// Marshal projects v - typically a pointer to or value of a struct, map,
// slice, or scalar Go type - into a Value tree and encodes it with
// [DefaultConfig]. Struct fields are named by their "cton" tag, falling
// back to the Go field name; a tag of "-" skips the field.
//
// A type implementing [encoding.TextMarshaler] is encoded as the string
// produced by MarshalText - the mechanism time.Time and similar
// date/time-like values use to become CTON's ISO-8601 string form. That
// string follows the ordinary quoting rule: it is not always quoted, and
// a timestamp such as 2025-06-01T12:00:00Z, being a safe token, is
// written bare.
func Marshal(v any) ([]byte, error) {
	val, err := toValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return Encode(val, DefaultConfig())
}

// Unmarshal decodes data as CTON and writes the result into v, which
// must be a non-nil pointer. It is the structural inverse of Marshal: the
// same "cton" struct tags apply, and a type implementing
// [encoding.TextUnmarshaler] is populated from a string value via
// UnmarshalText.
func Unmarshal(data []byte, v any) error {
	val, err := Decode(data, DecodeConfig{})
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &EncodeError{Msg: "Unmarshal target must be a non-nil pointer"}
	}
	return fromValue(val, rv.Elem())
}

func fieldName(f reflect.StructField) (name string, skip bool) {
	tag, ok := f.Tag.Lookup("cton")
	if !ok {
		return f.Name, false
	}
	name, _, _ = cutFirstComma(tag)
	if name == "-" {
		return "", true
	}
	if name == "" {
		name = f.Name
	}
	return name, false
}

func cutFirstComma(s string) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// toValue converts an arbitrary reflected Go value into a Value tree
// understood by the encoder.
func toValue(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		return toValue(rv.Elem())
	}
	if rv.Type().Implements(textMarshalerType) {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, &EncodeError{Msg: "MarshalText: " + err.Error()}
		}
		return string(text), nil
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(textMarshalerType) {
		text, err := rv.Addr().Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, &EncodeError{Msg: "MarshalText: " + err.Error()}
		}
		return string(text), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return base64.StdEncoding.EncodeToString(rv.Bytes()), nil
		}
		arr := make(Array, rv.Len())
		for i := range arr {
			v, err := toValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &EncodeError{Msg: "map key type must be string, got " + rv.Type().Key().String()}
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			v, err := toValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return obj, nil
	case reflect.Struct:
		obj := NewObject()
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, skip := fieldName(f)
			if skip {
				continue
			}
			v, err := toValue(rv.Field(i))
			if err != nil {
				return nil, err
			}
			obj.Set(name, v)
		}
		return obj, nil
	default:
		return nil, &EncodeError{Msg: "unsupported type " + rv.Type().String()}
	}
}

func intLimits(kind reflect.Kind) (min int64, max uint64, ok bool) {
	switch kind {
	case reflect.Int:
		return math.MinInt, math.MaxInt, true
	case reflect.Int8:
		return math.MinInt8, math.MaxInt8, true
	case reflect.Int16:
		return math.MinInt16, math.MaxInt16, true
	case reflect.Int32:
		return math.MinInt32, math.MaxInt32, true
	case reflect.Int64:
		return math.MinInt64, math.MaxInt64, true
	case reflect.Uint:
		return 0, math.MaxUint, true
	case reflect.Uint8:
		return 0, math.MaxUint8, true
	case reflect.Uint16:
		return 0, math.MaxUint16, true
	case reflect.Uint32:
		return 0, math.MaxUint32, true
	case reflect.Uint64:
		return 0, math.MaxUint64, true
	default:
		return 0, 0, false
	}
}

// fromValue populates rv, a settable reflect.Value, from a decoded Value
// tree.
func fromValue(v Value, rv reflect.Value) error {
	if v == nil {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return fromValue(v, rv.Elem())
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(textUnmarshalerType) {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot unmarshal %T into %s", v, rv.Type())
		}
		return rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}
	switch val := v.(type) {
	case bool:
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("cannot unmarshal bool into %s", rv.Type())
		}
		rv.SetBool(val)
	case string:
		switch {
		case rv.Kind() == reflect.String:
			rv.SetString(val)
		case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
			b, err := base64.StdEncoding.DecodeString(val)
			if err != nil {
				return fmt.Errorf("invalid base64 in field: %w", err)
			}
			rv.SetBytes(b)
		default:
			return fmt.Errorf("cannot unmarshal string into %s", rv.Type())
		}
	case *big.Int:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := new(big.Float).SetInt(val)
			g, _ := f.Float64()
			rv.SetFloat(g)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			min, max, _ := intLimits(rv.Kind())
			if !val.IsInt64() || val.Int64() < min || (max < math.MaxInt64 && val.Int64() > int64(max)) {
				return fmt.Errorf("integer %s out of range for %s", val, rv.Kind())
			}
			rv.SetInt(val.Int64())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if val.Sign() < 0 || !val.IsUint64() {
				return fmt.Errorf("integer %s out of range for %s", val, rv.Kind())
			}
			_, max, _ := intLimits(rv.Kind())
			if val.Uint64() > max {
				return fmt.Errorf("integer %s out of range for %s", val, rv.Kind())
			}
			rv.SetUint(val.Uint64())
		default:
			return fmt.Errorf("cannot unmarshal integer into %s", rv.Type())
		}
	case float64:
		if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
			return fmt.Errorf("cannot unmarshal decimal into %s", rv.Type())
		}
		rv.SetFloat(val)
	case Array:
		if rv.Kind() != reflect.Slice {
			return fmt.Errorf("cannot unmarshal array into %s", rv.Type())
		}
		out := reflect.MakeSlice(rv.Type(), len(val), len(val))
		for i, elem := range val {
			if err := fromValue(elem, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
	case *Object:
		switch rv.Kind() {
		case reflect.Struct:
			return unpackStruct(val, rv)
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return fmt.Errorf("map key type must be string, got %s", rv.Type().Key())
			}
			out := reflect.MakeMapWithSize(rv.Type(), val.Len())
			var err error
			val.Pairs(func(k string, v Value) bool {
				elem := reflect.New(rv.Type().Elem()).Elem()
				if err = fromValue(v, elem); err != nil {
					return false
				}
				out.SetMapIndex(reflect.ValueOf(k), elem)
				return true
			})
			if err != nil {
				return err
			}
			rv.Set(out)
		default:
			return fmt.Errorf("cannot unmarshal object into %s", rv.Type())
		}
	default:
		return fmt.Errorf("cannot unmarshal %T", v)
	}
	return nil
}

func unpackStruct(obj *Object, rv reflect.Value) error {
	t := rv.Type()
	names := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		names[name] = i
	}
	var err error
	obj.Pairs(func(key string, v Value) bool {
		idx, ok := names[key]
		if !ok {
			err = fmt.Errorf("no field named %q in %s", key, t)
			return false
		}
		if ferr := fromValue(v, rv.Field(idx)); ferr != nil {
			err = fmt.Errorf("field %q: %w", key, ferr)
			return false
		}
		return true
	})
	return err
}
