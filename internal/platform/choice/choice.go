// Package choice modela enums de código + etiqueta: se escribe el código y se
// lee el par (código, etiqueta).
package choice

import "strings"

type Option[T ~string] struct {
	Code  T
	Label string
}

type Table[T ~string] struct {
	options []Option[T]
	labels  map[T]string
}

func New[T ~string](options ...Option[T]) Table[T] {
	labels := make(map[T]string, len(options))
	for _, o := range options {
		labels[o.Code] = o.Label
	}
	return Table[T]{options: options, labels: labels}
}

func (t Table[T]) Valid(code T) bool {
	_, ok := t.labels[code]
	return ok
}

// Label devuelve "" para códigos desconocidos.
func (t Table[T]) Label(code T) string {
	return t.labels[code]
}

// Parse acepta el código exacto (con espacios alrededor recortados).
func (t Table[T]) Parse(raw string) (T, bool) {
	code := T(strings.TrimSpace(raw))
	return code, t.Valid(code)
}

func (t Table[T]) Options() []Option[T] {
	return append([]Option[T](nil), t.options...)
}

// InvalidMessage replica el mensaje de "choice" inválido por campo.
func InvalidMessage(raw string) string {
	return `"` + raw + `" is not a valid choice.`
}
