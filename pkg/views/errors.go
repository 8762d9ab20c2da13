package views

import (
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-modelform/pkg/log"
)

// ErrNotImplemented is reported when a view lacks a capability it needs, such
// as an instance getter or a session.
var ErrNotImplemented = errors.New("views: not implemented")

func fail(w http.ResponseWriter, r *http.Request, logger log.Logger, status int, err error) {
	log.OrNop(logger).Error("view failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	http.Error(w, http.StatusText(status), status)
}

func writeBody(w http.ResponseWriter, contentType string, status int, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
