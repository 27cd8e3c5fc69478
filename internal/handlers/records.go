package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/internal/validation"
)

// RecordService is the use-case surface the CRUD routes need.
type RecordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int, rec T) (T, error)
	Delete(ctx context.Context, id int) error
}

// RecordHandler serves list, add, update and delete pages of one record kind.
type RecordHandler[T any] struct {
	resource  forms.Resource[T]
	service   RecordService[T]
	validator *validation.Validator
	views     *Views
	logger    *slog.Logger
}

func NewRecordHandler[T any](resource forms.Resource[T], service RecordService[T], validator *validation.Validator, views *Views, logger *slog.Logger) *RecordHandler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordHandler[T]{
		resource:  resource,
		service:   service,
		validator: validator,
		views:     views,
		logger:    logger.With("resource", resource.Name),
	}
}

// RecordRouter registers the CRUD routes of h under /{resource}.
func RecordRouter[T any](r chi.Router, h *RecordHandler[T]) {
	r.Route("/"+h.resource.Name, func(r chi.Router) {
		r.Get("/list", h.List)
		r.Get("/add", h.Add)
		r.Post("/validate", h.Validate)
		r.Get("/update/{id}", h.Edit)
		r.Post("/update/{id}", h.Update)
		r.Get("/delete/{id}", h.Delete)
	})
}

func (h *RecordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		serverError(h.views, h.logger, w, r, err)
		return
	}
	renderList(h.views, w, r, h.resource, records)
}

func (h *RecordHandler[T]) Add(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, 0, url.Values{}, nil)
}

// Validate creates a record from the add form.
func (h *RecordHandler[T]) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	rec, errs := h.decode(r.PostForm)
	if errs != nil {
		h.renderForm(w, r, 0, r.PostForm, errs)
		return
	}

	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "record created", "id", h.resource.ID(created))
	redirect(w, r, listPath(h.resource.Name))
}

// Edit renders the update form pre-filled from the stored record.
func (h *RecordHandler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(h.resource.Name))
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			redirect(w, r, notFoundPath(h.resource.Name))
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.renderForm(w, r, id, h.resource.Encode(rec), nil)
}

func (h *RecordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(h.resource.Name))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	rec, errs := h.decode(r.PostForm)
	if errs != nil {
		h.renderForm(w, r, id, r.PostForm, errs)
		return
	}

	if _, err := h.service.Update(r.Context(), id, rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			redirect(w, r, notFoundPath(h.resource.Name))
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "record updated", "id", id)
	redirect(w, r, listPath(h.resource.Name))
}

// Delete removes the record if it exists. A missing record is not an error.
func (h *RecordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(h.resource.Name))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			redirect(w, r, notFoundPath(h.resource.Name))
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "record deleted", "id", id)
	redirect(w, r, listPath(h.resource.Name))
}

// decode parses and validates a submitted form. Parse failures win over
// constraint messages for the same field.
func (h *RecordHandler[T]) decode(values url.Values) (T, validation.FieldErrors) {
	rec, errs := h.resource.Decode(values)
	if invalid := h.validator.Struct(rec); invalid != nil {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs.Merge(invalid)
	}
	return rec, errs
}

func (h *RecordHandler[T]) renderForm(w http.ResponseWriter, r *http.Request, id int, values url.Values, errs validation.FieldErrors) {
	renderForm(h.views, w, r, h.resource, id, values, errs, "")
}

type listView struct {
	Resource string
	Title    string
	Columns  []forms.Field
	Rows     []listRow
	Span     int
}

type listRow struct {
	ID    int
	Cells []string
}

type formView struct {
	Resource string
	Noun     string
	Action   string
	Editing  bool
	Fields   []forms.Field
	Values   url.Values
	Errors   validation.FieldErrors
}

func renderList[T any](views *Views, w http.ResponseWriter, r *http.Request, res forms.Resource[T], records []T) {
	columns := res.Columns()
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		values := res.Encode(rec)
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, values.Get(col.Name))
		}
		rows = append(rows, listRow{ID: res.ID(rec), Cells: cells})
	}

	page := Page{
		Title: res.Title,
		Content: listView{
			Resource: res.Name,
			Title:    res.Title,
			Columns:  columns,
			Rows:     rows,
			Span:     len(columns) + 2,
		},
	}
	if r.URL.Query().Has(notFoundParam) {
		page.Error = res.Noun + " not found."
	}
	views.Render(w, r, http.StatusOK, "list", page)
}

func renderForm[T any](views *Views, w http.ResponseWriter, r *http.Request, res forms.Resource[T], id int, values url.Values, errs validation.FieldErrors, formError string) {
	action := "/" + res.Name + "/validate"
	title := "Add " + res.Noun
	if id > 0 {
		action = "/" + res.Name + "/update/" + strconv.Itoa(id)
		title = "Update " + res.Noun
	}
	if errs == nil {
		errs = validation.FieldErrors{}
	}
	views.Render(w, r, http.StatusOK, "form", Page{
		Title: title,
		Error: formError,
		Content: formView{
			Resource: res.Name,
			Noun:     res.Noun,
			Action:   action,
			Editing:  id > 0,
			Fields:   res.Fields,
			Values:   values,
			Errors:   errs,
		},
	})
}

func serverError(views *Views, logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	views.Message(w, r, http.StatusInternalServerError, "Error", "Something went wrong while processing your request.")
}
