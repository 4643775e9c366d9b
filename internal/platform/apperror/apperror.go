package apperror

import (
	"errors"
	"sort"
	"strings"
)

// Clases de error que los handlers traducen a status HTTP.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
)

// Error es el error de aplicación: una clase (Kind), un mensaje legible y,
// para validaciones, los mensajes por campo.
type Error struct {
	Kind    error
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound no distingue "no existe" de "no es tuyo".
func NotFound(resource string) *Error {
	return &Error{Kind: ErrNotFound, Message: resource + " not found"}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: ErrUnauthenticated, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// BadRequest es un error de validación sin campo (p.ej. JSON mal formado).
func BadRequest(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

// Invalid es un error de validación de un solo campo.
func Invalid(field, message string) *Error {
	v := NewValidation()
	v.Add(field, message)
	return v.err()
}

// Validation acumula errores por campo antes de devolverlos juntos.
type Validation struct {
	fields map[string][]string
}

func NewValidation() *Validation {
	return &Validation{fields: map[string][]string{}}
}

func (v *Validation) Add(field, message string) {
	v.fields[field] = append(v.fields[field], message)
}

// Merge incorpora los campos de otro error de validación. Otros errores se
// registran bajo "non_field_errors".
func (v *Validation) Merge(err error) {
	if err == nil {
		return
	}
	var ae *Error
	if errors.As(err, &ae) && errors.Is(ae.Kind, ErrValidation) {
		if len(ae.Fields) == 0 {
			v.Add("non_field_errors", ae.Message)
			return
		}
		for f, msgs := range ae.Fields {
			for _, m := range msgs {
				v.Add(f, m)
			}
		}
		return
	}
	v.Add("non_field_errors", err.Error())
}

func (v *Validation) Has(field string) bool {
	_, ok := v.fields[field]
	return ok
}

func (v *Validation) Empty() bool {
	return len(v.fields) == 0
}

// Err devuelve nil si no se registró ningún error.
func (v *Validation) Err() error {
	if v.Empty() {
		return nil
	}
	return v.err()
}

func (v *Validation) err() *Error {
	fields := make(map[string][]string, len(v.fields))
	for k, msgs := range v.fields {
		fields[k] = append([]string(nil), msgs...)
	}
	return &Error{Kind: ErrValidation, Message: ErrValidation.Error(), Fields: fields}
}

// FieldsOf extrae los errores por campo, si los hay.
func FieldsOf(err error) map[string][]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
