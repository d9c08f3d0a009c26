package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingFormData is returned when required form fields are absent
	ErrMissingFormData = errors.New("missing form data")

	// ErrInvalidFormValue is returned when a field's value is outside its allowed set
	ErrInvalidFormValue = errors.New("invalid form value")

	// ErrFormDataFormat is returned when a field's value cannot be parsed as the required kind
	ErrFormDataFormat = errors.New("form data format error")
)

// MissingDataError reports which keys were expected against what was supplied
type MissingDataError struct {
	Supplied []string
	Expected []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%v: expected [%s], supplied [%s]",
		ErrMissingFormData,
		strings.Join(e.Expected, ", "),
		strings.Join(e.Supplied, ", "))
}

func (e *MissingDataError) Unwrap() error {
	return ErrMissingFormData
}

func newMissingDataError(d Data, expected []string) *MissingDataError {
	supplied := d.Keys()
	sort.Strings(supplied)
	return &MissingDataError{
		Supplied: supplied,
		Expected: append([]string{}, expected...),
	}
}

// InvalidValueError reports a value outside its allowed set
type InvalidValueError struct {
	Key     string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%v: %s=%q not in [%s]",
		ErrInvalidFormValue, e.Key, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidFormValue
}

// FormatError reports a value that failed to parse as the required kind
type FormatError struct {
	Kind  Kind
	Key   string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s=%q is not a valid %s", ErrFormDataFormat, e.Key, e.Value, e.Kind)
}

func (e *FormatError) Unwrap() error {
	return ErrFormDataFormat
}
