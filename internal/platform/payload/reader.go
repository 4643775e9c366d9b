package payload

import (
	"mime/multipart"
	"time"

	"pet-records/internal/platform/apperror"

	"github.com/shopspring/decimal"
)

// Reader acumula los errores de tipo por campo mientras el handler arma su
// input con punteros (nil = no enviado).
type Reader struct {
	p *Payload
	v *apperror.Validation
}

func (p *Payload) Reader() *Reader {
	return &Reader{p: p, v: apperror.NewValidation()}
}

func (r *Reader) String(field string) *string {
	s, ok, err := r.p.String(field)
	if err != nil {
		r.v.Add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &s
}

func (r *Reader) Bool(field string) *bool {
	b, ok, err := r.p.Bool(field)
	if err != nil {
		r.v.Add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &b
}

func (r *Reader) Date(field string) *time.Time {
	t, ok, err := r.p.Date(field)
	if err != nil {
		r.v.Add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &t
}

func (r *Reader) Decimal(field string) *decimal.Decimal {
	d, ok, err := r.p.Decimal(field)
	if err != nil {
		r.v.Add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &d
}

func (r *Reader) File(field string) *multipart.FileHeader {
	fh, ok, err := r.p.File(field)
	if err != nil {
		r.v.Add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return fh
}

func (r *Reader) Err() error {
	return r.v.Err()
}
