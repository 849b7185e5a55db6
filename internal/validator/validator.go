// Package validator collects per-field validation messages.
package validator

// Validator accumulates every failed check keyed by field name, so callers can
// report all offending fields at once instead of stopping at the first.
type Validator struct {
	Errors map[string][]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

// Valid reports whether no check has failed.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

// Check adds message under key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Has reports whether key already carries an error.
func (v *Validator) Has(key string) bool {
	_, ok := v.Errors[key]
	return ok
}

// PermittedValue reports whether value is one of permittedValues.
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	for i := range permittedValues {
		if value == permittedValues[i] {
			return true
		}
	}
	return false
}

// Unique reports whether values contains no duplicates.
func Unique[T comparable](values []T) bool {
	uniqueValues := make(map[T]struct{}, len(values))
	for _, value := range values {
		uniqueValues[value] = struct{}{}
	}
	return len(values) == len(uniqueValues)
}
