// Package forms describes how each record kind is laid out in HTML forms
// and list tables, and converts between url.Values and record structs.
package forms

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poseidon-capital/console/internal/validation"
)

// DateLayout is the wire format of date inputs.
const DateLayout = "2006-01-02"

type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindPassword Kind = "password"
	KindSelect   Kind = "select"
)

// Field is one form input. List fields are also shown as list columns.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Options  []string
	Required bool
	List     bool
}

// Resource binds a record type to its URL segment and form layout.
type Resource[T any] struct {
	Name   string
	Title  string
	Noun   string
	Fields []Field
	ID     func(T) int

	decode func(*reader) T
	encode func(T, writer)
}

// Decode builds a record from submitted values. Inputs that cannot be parsed
// are reported in the returned errors and left unset on the record.
func (r Resource[T]) Decode(values url.Values) (T, validation.FieldErrors) {
	rd := &reader{values: values, fields: r.Fields, errs: validation.FieldErrors{}}
	rec := r.decode(rd)
	if len(rd.errs) == 0 {
		return rec, nil
	}
	return rec, rd.errs
}

// Encode renders rec as form values, one entry per field.
func (r Resource[T]) Encode(rec T) url.Values {
	values := url.Values{}
	r.encode(rec, writer(values))
	return values
}

// Columns returns the fields shown in list tables.
func (r Resource[T]) Columns() []Field {
	cols := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.List {
			cols = append(cols, f)
		}
	}
	return cols
}

type reader struct {
	values url.Values
	fields []Field
	errs   validation.FieldErrors
}

func (r *reader) label(name string) string {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Label
		}
	}
	return name
}

func (r *reader) text(name string) string {
	return strings.TrimSpace(r.values.Get(name))
}

func (r *reader) float(name string) *float64 {
	raw := r.text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		r.errs.Add(name, r.label(name)+" must be a number")
		return nil
	}
	return &v
}

func (r *reader) int(name string) *int {
	raw := r.text(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs.Add(name, r.label(name)+" must be a whole number")
		return nil
	}
	return &v
}

func (r *reader) date(name string) *time.Time {
	raw := r.text(name)
	if raw == "" {
		return nil
	}
	v, err := time.Parse(DateLayout, raw)
	if err != nil {
		r.errs.Add(name, r.label(name)+" must be a date (YYYY-MM-DD)")
		return nil
	}
	return &v
}

type writer url.Values

func (w writer) text(name, v string) {
	url.Values(w).Set(name, v)
}

func (w writer) float(name string, v *float64) {
	if v == nil {
		w.text(name, "")
		return
	}
	w.text(name, strconv.FormatFloat(*v, 'f', -1, 64))
}

func (w writer) int(name string, v *int) {
	if v == nil {
		w.text(name, "")
		return
	}
	w.text(name, strconv.Itoa(*v))
}

func (w writer) date(name string, v *time.Time) {
	if v == nil {
		w.text(name, "")
		return
	}
	w.text(name, v.Format(DateLayout))
}
