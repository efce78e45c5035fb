package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"
)

// ErrInvalidRequest marks failures caused by the client's request. Handlers
// answer these with 400 and anything else with 500.
var ErrInvalidRequest = errors.New("invalid_request")

type requestError struct {
	param string
	msg   string
}

func (e requestError) Error() string { return e.msg }

func (e requestError) Unwrap() error { return ErrInvalidRequest }

func invalidRequestf(param, format string, args ...any) error {
	return requestError{param: param, msg: fmt.Sprintf(format, args...)}
}

// writeFailure maps err onto the error envelope.
func writeFailure(c *echo.Context, err error) error {
	var re requestError
	if errors.As(err, &re) {
		return writeBadRequest(c, re.msg, re.param)
	}
	if errors.Is(err, ErrInvalidRequest) {
		return writeBadRequest(c, err.Error(), "")
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
}
