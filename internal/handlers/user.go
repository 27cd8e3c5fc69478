package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/internal/validation"
	"github.com/poseidon-capital/console/types"
)

const duplicateUsernameMessage = "Username already exists. Please choose another username."

// UserService is the account management surface the user routes need.
type UserService interface {
	List(ctx context.Context) ([]types.User, error)
	Get(ctx context.Context, id int) (types.User, error)
	Create(ctx context.Context, user types.User, password string) (types.User, error)
	Update(ctx context.Context, id int, user types.User, password string) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserHandler serves the admin-only account pages. Passwords go to the
// service in plaintext and are never rendered back.
type UserHandler struct {
	service   UserService
	validator *validation.Validator
	views     *Views
	logger    *slog.Logger
}

func NewUserHandler(service UserService, validator *validation.Validator, views *Views, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		service:   service,
		validator: validator,
		views:     views,
		logger:    logger.With("resource", forms.Users.Name),
	}
}

// UserRouter registers the account routes under /user.
func UserRouter(r chi.Router, h *UserHandler) {
	r.Route("/"+forms.Users.Name, func(r chi.Router) {
		r.Get("/list", h.List)
		r.Get("/add", h.Add)
		r.Post("/validate", h.Validate)
		r.Get("/update/{id}", h.Edit)
		r.Post("/update/{id}", h.Update)
		r.Get("/delete/{id}", h.Delete)
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		serverError(h.views, h.logger, w, r, err)
		return
	}
	rows := make([]forms.UserForm, 0, len(users))
	for _, u := range users {
		rows = append(rows, forms.UserForm{User: u})
	}
	renderList(h.views, w, r, forms.Users, rows)
}

func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	renderForm(h.views, w, r, forms.Users, 0, url.Values{}, nil, "")
}

func (h *UserHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form, errs := h.decode(r.PostForm, true)
	if errs != nil {
		renderForm(h.views, w, r, forms.Users, 0, r.PostForm, errs, "")
		return
	}

	created, err := h.service.Create(r.Context(), form.User, form.Password)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			renderForm(h.views, w, r, forms.Users, 0, r.PostForm, nil, duplicateUsernameMessage)
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "user created", "id", created.ID, "username", created.Username)
	redirect(w, r, listPath(forms.Users.Name))
}

// Edit renders the update form. The password input is always blank.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(forms.Users.Name))
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			redirect(w, r, notFoundPath(forms.Users.Name))
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	renderForm(h.views, w, r, forms.Users, id, forms.Users.Encode(forms.UserForm{User: user}), nil, "")
}

// Update saves the profile. A blank password keeps the current one.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(forms.Users.Name))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form, errs := h.decode(r.PostForm, false)
	if errs != nil {
		renderForm(h.views, w, r, forms.Users, id, r.PostForm, errs, "")
		return
	}

	if _, err := h.service.Update(r.Context(), id, form.User, form.Password); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			redirect(w, r, notFoundPath(forms.Users.Name))
		case errors.Is(err, store.ErrAlreadyExists):
			renderForm(h.views, w, r, forms.Users, id, r.PostForm, nil, duplicateUsernameMessage)
		default:
			serverError(h.views, h.logger, w, r, err)
		}
		return
	}
	h.logger.InfoContext(r.Context(), "user updated", "id", id)
	redirect(w, r, listPath(forms.Users.Name))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		redirect(w, r, notFoundPath(forms.Users.Name))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			redirect(w, r, notFoundPath(forms.Users.Name))
			return
		}
		serverError(h.views, h.logger, w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "user deleted", "id", id)
	redirect(w, r, listPath(forms.Users.Name))
}

// decode validates the profile fields and, when required or supplied, the
// password.
func (h *UserHandler) decode(values url.Values, passwordRequired bool) (forms.UserForm, validation.FieldErrors) {
	form, _ := forms.Users.Decode(values)
	errs := validation.FieldErrors{}
	errs.Merge(h.validator.Struct(form.User))
	if passwordRequired || form.Password != "" {
		errs.Merge(h.validator.Password(form.Password))
	}
	if len(errs) == 0 {
		return form, nil
	}
	return form, errs
}
