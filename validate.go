package cton

// Validate checks data against the CTON grammar without returning a value
// tree; the values parsed along the way are discarded. Unlike Decode, it does not stop at the first error: once a
// pair fails to parse, it recovers at the next structural boundary
// (newline, ',', ';', ')', ']', or '}') and keeps scanning, so a single
// input can yield several errors.
func Validate(data []byte) []ValidationError {
	d := &decoder{data: data}
	d.skipSpaceAndComments()
	if d.pos >= len(d.data) {
		return nil
	}
	var errs []ValidationError
	if !d.looksLikeDocument() {
		if _, err := d.parseValue(false); err != nil {
			errs = append(errs, toValidationError(err))
			return errs
		}
		d.skipSpaceAndComments()
		if d.pos != len(d.data) {
			errs = append(errs, toValidationError(d.errorf("trailing data after value")))
		}
		return errs
	}
	for {
		d.skipSpaceAndComments()
		if d.pos >= len(d.data) {
			break
		}
		before := d.pos
		if err := d.validateOnePair(); err != nil {
			errs = append(errs, toValidationError(err))
			if !d.recover() && d.pos <= before {
				d.pos = min(before+1, len(d.data))
			}
		}
	}
	return errs
}

// validateOnePair parses one top-level pair purely for its side effect of
// validating the grammar; the parsed value is discarded.
func (d *decoder) validateOnePair() error {
	key, err := d.parseKey()
	if err != nil {
		return err
	}
	d.skipSpaceAndComments()
	if d.pos >= len(d.data) {
		return d.errorf("expected '(', '[', or '=' after key %q", key)
	}
	switch d.data[d.pos] {
	case '(':
		d.pos++
		_, err = d.parseObjectContents()
	case '[':
		d.pos++
		_, err = d.parseArrayContents()
	case '=':
		d.pos++
		d.skipSpaceAndComments()
		_, err = d.parseScalar(true)
	default:
		err = d.errorf("expected '(', '[', or '=' after key %q", key)
	}
	return err
}

// recover advances past the next structural boundary byte so scanning
// can resume after a malformed pair. It reports whether it made progress.
func (d *decoder) recover() bool {
	start := d.pos
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case '\n', ',', ';', ')', ']', '}':
			d.pos++
			return true
		}
		d.pos++
	}
	return d.pos > start
}

func toValidationError(err error) ValidationError {
	if pe, ok := err.(*ParseError); ok {
		return *pe
	}
	return ParseError{Msg: err.Error()}
}
