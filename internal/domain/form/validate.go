package form

import (
	"strconv"
	"time"
)

// RequireAll fails unless every key is present
func RequireAll(d Data, keys ...string) error {
	for _, key := range keys {
		if !d.Has(key) {
			return newMissingDataError(d, keys)
		}
	}
	return nil
}

// RequireAtLeastOne fails unless at least one of the keys is present
func RequireAtLeastOne(d Data, keys ...string) error {
	for _, key := range keys {
		if d.Has(key) {
			return nil
		}
	}
	return newMissingDataError(d, keys)
}

// RequireValueIn fails unless the key is present and its value is one of the
// allowed strings. Returns the matched value.
func RequireValueIn(d Data, key string, allowed ...string) (string, error) {
	if !d.Has(key) {
		return "", newMissingDataError(d, []string{key})
	}

	val := d[key].Text()
	for _, candidate := range allowed {
		if val == candidate {
			return val, nil
		}
	}

	return "", &InvalidValueError{Key: key, Value: val, Allowed: append([]string{}, allowed...)}
}

// RequireDateTime fails unless the key is present and holds a datetime value
// or an RFC 3339 string. Returns the parsed time.
func RequireDateTime(d Data, key string) (time.Time, error) {
	if !d.Has(key) {
		return time.Time{}, newMissingDataError(d, []string{key})
	}

	val := d[key]
	if t, ok := val.AsDateTime(); ok {
		return t, nil
	}
	if s, ok := val.AsString(); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &FormatError{Kind: KindDateTime, Key: key, Value: val.Text()}
}

// RequireBool fails unless the key is present and holds a bool value or a
// string parseable as a bool. Returns the parsed bool.
func RequireBool(d Data, key string) (bool, error) {
	if !d.Has(key) {
		return false, newMissingDataError(d, []string{key})
	}

	val := d[key]
	if b, ok := val.AsBool(); ok {
		return b, nil
	}
	if s, ok := val.AsString(); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, nil
		}
	}

	return false, &FormatError{Kind: KindBool, Key: key, Value: val.Text()}
}
