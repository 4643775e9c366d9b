// Package payload lee cuerpos JSON o multipart con detección de presencia de
// campos: para PATCH hay que distinguir "no enviado" de "enviado como null".
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"pet-records/internal/platform/apperror"
	"pet-records/internal/platform/dates"

	"github.com/shopspring/decimal"
)

// Memoria máxima para partes multipart; el resto va a archivos temporales.
const maxMultipartMemory = 8 << 20

var (
	errNotString  = errors.New("Not a valid string.")
	errNotBool    = errors.New("Must be a valid boolean.")
	errNotNumber  = errors.New("A valid number is required.")
	errNullValue  = errors.New("This field may not be null.")
	errNotFile    = errors.New("The submitted data was not a file.")
	errBadPayload = "invalid json"
)

type Payload struct {
	values map[string]json.RawMessage
	form   map[string][]string
	files  map[string][]*multipart.FileHeader
}

// Parse decodifica el cuerpo según Content-Type. Cuerpo vacío = payload vacío.
// El límite de tamaño lo aplica el router (chi middleware.RequestSize).
func Parse(r *http.Request) (*Payload, error) {
	p := &Payload{
		values: map[string]json.RawMessage{},
		form:   map[string][]string{},
		files:  map[string][]*multipart.FileHeader{},
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, bodyError(err, "invalid multipart body")
		}
		if r.MultipartForm != nil {
			p.form = r.MultipartForm.Value
			p.files = r.MultipartForm.File
		}
		return p, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err, "invalid form body")
		}
		p.form = r.PostForm
		return p, nil
	}

	if r.Body == nil {
		return p, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, bodyError(err, errBadPayload)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p.values); err != nil || p.values == nil {
		return nil, apperror.BadRequest(errBadPayload)
	}
	return p, nil
}

// FromJSON arma un payload a partir de un objeto JSON ya leído (tests, CLI).
func FromJSON(raw []byte) (*Payload, error) {
	r, _ := http.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return Parse(r)
}

func bodyError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.BadRequest("request body too large")
	}
	return apperror.BadRequest(msg)
}

func (p *Payload) Has(field string) bool {
	if _, ok := p.values[field]; ok {
		return true
	}
	if _, ok := p.form[field]; ok {
		return true
	}
	_, ok := p.files[field]
	return ok
}

// IsNull sólo aplica a JSON; en formularios no hay null.
func (p *Payload) IsNull(field string) bool {
	v, ok := p.values[field]
	return ok && bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (p *Payload) formValue(field string) (string, bool) {
	vs, ok := p.form[field]
	if !ok || len(vs) == 0 {
		return "", ok
	}
	return vs[0], true
}

// String devuelve (valor, presente, error). null se informa como error; el
// llamador decide si el campo admite vaciarse.
func (p *Payload) String(field string) (string, bool, error) {
	if v, ok := p.formValue(field); ok {
		return v, true, nil
	}
	raw, ok := p.values[field]
	if !ok {
		return "", false, nil
	}
	if p.IsNull(field) {
		return "", true, errNullValue
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, errNotString
	}
	return s, true, nil
}

func (p *Payload) Bool(field string) (bool, bool, error) {
	if v, ok := p.formValue(field); ok {
		b, err := parseBool(v)
		return b, true, err
	}
	raw, ok := p.values[field]
	if !ok {
		return false, false, nil
	}
	if p.IsNull(field) {
		return false, true, errNullValue
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		b, err := parseBool(s)
		return b, true, err
	}
	return false, true, errNotBool
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, errNotBool
	}
}

func (p *Payload) Date(field string) (time.Time, bool, error) {
	s, ok, err := p.String(field)
	if !ok || err != nil {
		if errors.Is(err, errNotString) {
			err = dates.ErrFormat
		}
		return time.Time{}, ok, err
	}
	t, err := dates.Parse(s)
	return t, true, err
}

// Decimal acepta número JSON o string ("70.50").
func (p *Payload) Decimal(field string) (decimal.Decimal, bool, error) {
	if v, ok := p.formValue(field); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Decimal{}, true, errNotNumber
		}
		return d, true, nil
	}
	raw, ok := p.values[field]
	if !ok {
		return decimal.Decimal{}, false, nil
	}
	if p.IsNull(field) {
		return decimal.Decimal{}, true, errNullValue
	}
	text := strings.TrimSpace(string(raw))
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, true, errNotNumber
	}
	return d, true, nil
}

// File devuelve el primer archivo del campo. Un valor no-archivo con el mismo
// nombre es un error.
func (p *Payload) File(field string) (*multipart.FileHeader, bool, error) {
	if fs, ok := p.files[field]; ok && len(fs) > 0 {
		return fs[0], true, nil
	}
	if v, ok := p.formValue(field); ok {
		if v == "" {
			return nil, false, nil
		}
		return nil, true, errNotFile
	}
	return nil, false, nil
}

// Cleared indica que el campo vino explícitamente vacío: null en JSON o
// valor "" en un formulario. Se usa para borrar fotos.
func (p *Payload) Cleared(field string) bool {
	if p.IsNull(field) {
		return true
	}
	if _, ok := p.files[field]; ok {
		return false
	}
	v, ok := p.formValue(field)
	return ok && strings.TrimSpace(v) == ""
}
