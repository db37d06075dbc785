package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"syscall"
)

// BindError reports that the listening socket could not be opened,
// typically because the port is taken or needs privileges.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot listen on %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

var (
	errTraversal      = errors.New("path traversal attempt detected")
	errInvalidPath    = errors.New("invalid request path")
	errAlreadyRunning = errors.New("server already running")
)

// statusForError maps a filesystem error onto the response status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
