package domain

import "errors"

// ValidationKind classifica erros de entrada.
type ValidationKind string

const (
	MissingInput      ValidationKind = "missing_input"
	InvalidCharacters ValidationKind = "invalid_characters"
	UnsupportedLabel  ValidationKind = "unsupported_label"
)

// ValidationError é devolvido antes de qualquer probe ser disparado.
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return "validation: " + string(e.Kind)
	}
	return "validation: " + e.Reason
}

// Is permite errors.Is(err, &ValidationError{Kind: X}) comparando só o Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// AsValidation extrai um *ValidationError de err, se houver.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
