package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	notFoundParam = "notfound"
	deniedMessage = "You are not authorized for the requested data."
)

var errInvalidID = errors.New("invalid id")

func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

// redirect sends a 303 after form posts and a 302 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, target, status)
}

func listPath(resource string) string {
	return "/" + resource + "/list"
}

func notFoundPath(resource string) string {
	return listPath(resource) + "?" + notFoundParam
}
