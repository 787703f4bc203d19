package cton

import (
	"bytes"
	"io"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Config holds the options shared by the encoder. The zero Config is
// valid but uses an empty top-level separator; call [DefaultConfig] for
// the documented default ("\n").
type Config struct {
	// Separator is inserted between top-level key/value pairs. The empty
	// string is legal: it produces maximally compact output and relies
	// entirely on the decoder's key-boundary heuristic to recover pair
	// boundaries.
	Separator string
	// Pretty enables indented, multi-line emission of objects.
	Pretty bool
	// DecimalMode selects how finite real numbers are rendered.
	DecimalMode DecimalMode
	// Comments maps a top-level key to a (possibly multi-line) comment
	// emitted immediately before that key's pair, one "# "-prefixed line
	// per input line. Purely cosmetic: the decoder discards comments.
	Comments map[string]string
}

// DefaultConfig returns the documented default encoder configuration:
// newline-separated top-level pairs, compact (non-pretty) layout, and
// fast decimal formatting.
func DefaultConfig() Config {
	return Config{Separator: "\n"}
}

// Encoder turns value trees into canonical CTON bytes according to a
// fixed Config. Construct one with [NewEncoder]; a single Encoder may be
// reused across calls and is safe for concurrent use by disjoint calls
// (it keeps no state between them).
type Encoder struct {
	cfg Config
}

// NewEncoder validates cfg and returns an Encoder. An unrecognized
// DecimalMode is rejected here, at construction, rather than on first
// use.
func NewEncoder(cfg Config) (*Encoder, error) {
	if !cfg.DecimalMode.valid() {
		return nil, &EncodeError{Msg: "unknown decimal mode " + strconv.Itoa(int(cfg.DecimalMode)) + " (" + cfg.DecimalMode.String() + ")"}
	}
	return &Encoder{cfg: cfg}, nil
}

// Encode renders v to a freshly allocated byte slice.
func (e *Encoder) Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.EncodeTo(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo renders v to w. If w blocks, EncodeTo blocks with it; no
// internal buffering beyond what a single value's emission requires is
// performed.
func (e *Encoder) EncodeTo(w io.Writer, v Value) error {
	sw := &stickyWriter{w: w}
	switch root := v.(type) {
	case *Object:
		e.writeDocument(sw, root)
	default:
		e.writeStandaloneValue(sw, v)
	}
	return sw.err
}

// Encode is a convenience wrapper around NewEncoder(cfg).Encode(v).
func Encode(v Value, cfg Config) ([]byte, error) {
	e, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return e.Encode(v)
}

// EncodeTo is a convenience wrapper around NewEncoder(cfg).EncodeTo(w, v).
func EncodeTo(w io.Writer, v Value, cfg Config) error {
	e, err := NewEncoder(cfg)
	if err != nil {
		return err
	}
	return e.EncodeTo(w, v)
}

// stickyWriter forwards writes to w until the first error, after which
// every subsequent write is a no-op. This lets the recursive emission
// code below ignore error checks on every single write call.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) writeString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (e *Encoder) writeStandaloneValue(sw *stickyWriter, v Value) {
	switch t := v.(type) {
	case *Object:
		e.writeObject(sw, t, 0)
	default:
		if arr, ok := asArray(v); ok {
			e.writeArray(sw, arr, 0)
			return
		}
		e.writeScalar(sw, t)
	}
}

func (e *Encoder) writeDocument(sw *stickyWriter, obj *Object) {
	keys := obj.Keys()
	for i, key := range keys {
		if !isValidKey(key) {
			sw.err = &EncodeError{Msg: "invalid key " + strconv.Quote(key)}
			return
		}
		if i > 0 {
			sw.writeString(e.cfg.Separator)
		}
		if c, ok := e.cfg.Comments[key]; ok {
			for _, line := range strings.Split(c, "\n") {
				sw.writeString("# ")
				sw.writeString(line)
				sw.writeString("\n")
			}
		}
		sw.writeString(key)
		val, _ := obj.Get(key)
		e.writePairValue(sw, val, true, 0)
		if sw.err != nil {
			return
		}
	}
}

// writePairValue emits the part of a pair that follows the key. At the
// top level, an Object or Array value inlines its own opener with no
// leading "="; nested inside an object, every value - scalar or
// composite - is introduced by "=".
func (e *Encoder) writePairValue(sw *stickyWriter, val Value, topLevel bool, depth int) {
	if obj, ok := val.(*Object); ok {
		if !topLevel {
			sw.writeString("=")
		}
		e.writeObject(sw, obj, depth)
		return
	}
	if arr, ok := asArray(val); ok {
		if !topLevel {
			sw.writeString("=")
		}
		e.writeArray(sw, arr, depth)
		return
	}
	sw.writeString("=")
	e.writeScalar(sw, val)
}

func asArray(v Value) (Array, bool) {
	switch t := v.(type) {
	case Array:
		return t, true
	case []any:
		return Array(t), true
	}
	return nil, false
}

func (e *Encoder) writeObject(sw *stickyWriter, obj *Object, depth int) {
	keys := obj.Keys()
	if len(keys) == 0 {
		sw.writeString("()")
		return
	}
	sw.writeString("(")
	indent := strings.Repeat("  ", depth+1)
	for i, key := range keys {
		if !isValidKey(key) {
			sw.err = &EncodeError{Msg: "invalid key " + strconv.Quote(key)}
			return
		}
		if i > 0 {
			sw.writeString(",")
		}
		if e.cfg.Pretty {
			sw.writeString("\n")
			sw.writeString(indent)
		}
		sw.writeString(key)
		val, _ := obj.Get(key)
		e.writePairValue(sw, val, false, depth+1)
		if sw.err != nil {
			return
		}
	}
	if e.cfg.Pretty {
		sw.writeString("\n")
		sw.writeString(strings.Repeat("  ", depth))
	}
	sw.writeString(")")
}

func (e *Encoder) writeArray(sw *stickyWriter, arr Array, depth int) {
	n := len(arr)
	sw.writeString("[")
	sw.writeString(strconv.Itoa(n))
	sw.writeString("]")
	if n == 0 {
		sw.writeString("=")
		return
	}
	if header, ok := detectTable(arr); ok {
		e.writeTable(sw, arr, header)
		return
	}
	sw.writeString("=")
	for i, elem := range arr {
		if i > 0 {
			sw.writeString(",")
		}
		e.writeElement(sw, elem, depth)
		if sw.err != nil {
			return
		}
	}
}

// writeElement renders a single list-form array element: composite
// values inline their own opener, scalars are written bare (no leading
// "=", unlike inside an object).
func (e *Encoder) writeElement(sw *stickyWriter, v Value, depth int) {
	if obj, ok := v.(*Object); ok {
		e.writeObject(sw, obj, depth)
		return
	}
	if arr, ok := asArray(v); ok {
		e.writeArray(sw, arr, depth)
		return
	}
	e.writeScalar(sw, v)
}

// detectTable runs the single-pass table-compression check described in
// the format's array rules: the array must be non-empty, its first
// element a non-empty object, and every subsequent element an object
// with the identical key sequence and only scalar values.
func detectTable(arr Array) ([]string, bool) {
	if len(arr) == 0 {
		return nil, false
	}
	first, ok := arr[0].(*Object)
	if !ok || first.Len() == 0 {
		return nil, false
	}
	header := first.Keys()
	if !rowIsScalar(first) {
		return nil, false
	}
	for _, elem := range arr[1:] {
		obj, ok := elem.(*Object)
		if !ok {
			return nil, false
		}
		keys := obj.Keys()
		if len(keys) != len(header) {
			return nil, false
		}
		for i, k := range keys {
			if k != header[i] {
				return nil, false
			}
		}
		if !rowIsScalar(obj) {
			return nil, false
		}
	}
	headerCopy := make([]string, len(header))
	copy(headerCopy, header)
	return headerCopy, true
}

func rowIsScalar(obj *Object) bool {
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		if !scalarKind(v) {
			return false
		}
	}
	return true
}

func (e *Encoder) writeTable(sw *stickyWriter, arr Array, header []string) {
	sw.writeString("{")
	for i, h := range header {
		if i > 0 {
			sw.writeString(",")
		}
		sw.writeString(h)
	}
	sw.writeString("}=")
	for i, elem := range arr {
		if i > 0 {
			sw.writeString(";")
		}
		obj := elem.(*Object)
		for j, h := range header {
			if j > 0 {
				sw.writeString(",")
			}
			val, _ := obj.Get(h)
			e.writeScalar(sw, val)
			if sw.err != nil {
				return
			}
		}
	}
}

func (e *Encoder) writeScalar(sw *stickyWriter, v Value) {
	switch t := v.(type) {
	case nil:
		sw.writeString("null")
	case bool:
		if t {
			sw.writeString("true")
		} else {
			sw.writeString("false")
		}
	case string:
		sw.writeString(quoteIfNeeded(t))
	case *big.Int:
		sw.writeString(t.String())
	case int:
		sw.writeString(strconv.FormatInt(int64(t), 10))
	case int8:
		sw.writeString(strconv.FormatInt(int64(t), 10))
	case int16:
		sw.writeString(strconv.FormatInt(int64(t), 10))
	case int32:
		sw.writeString(strconv.FormatInt(int64(t), 10))
	case int64:
		sw.writeString(strconv.FormatInt(t, 10))
	case uint:
		sw.writeString(strconv.FormatUint(uint64(t), 10))
	case uint8:
		sw.writeString(strconv.FormatUint(uint64(t), 10))
	case uint16:
		sw.writeString(strconv.FormatUint(uint64(t), 10))
	case uint32:
		sw.writeString(strconv.FormatUint(uint64(t), 10))
	case uint64:
		sw.writeString(strconv.FormatUint(t, 10))
	case float32:
		e.writeFloat(sw, float64(t))
	case float64:
		e.writeFloat(sw, t)
	case *apd.Decimal:
		s, err := formatApdDecimal(t)
		if err != nil {
			sw.err = err
			return
		}
		sw.writeString(s)
	default:
		sw.err = &EncodeError{Msg: "unsupported value of type " + reflect.TypeOf(v).String()}
	}
}

func (e *Encoder) writeFloat(sw *stickyWriter, f float64) {
	if nonFinite(f) {
		sw.writeString("null")
		return
	}
	s, err := formatFloat(f, e.cfg.DecimalMode)
	if err != nil {
		sw.err = err
		return
	}
	sw.writeString(s)
}

// quoteIfNeeded returns s unquoted when it is a safe token, otherwise
// wraps it in double quotes with the five supported escapes applied.
func quoteIfNeeded(s string) string {
	if isSafeToken(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
