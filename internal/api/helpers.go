package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

func writeBadRequest(c *echo.Context, msg, param string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, param, "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

// decodeJSON reads a JSON request body. Read failures stay plain errors;
// empty or malformed bodies are invalid requests.
func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	body, err := io.ReadAll(r)
	if err != nil {
		return out, fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, invalidRequestf("", "request body is empty")
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, invalidRequestf("", "invalid JSON body: %v", err)
	}
	return out, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(c *echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, invalidRequestf(name, "%s must be a non-negative integer", name)
	}
	return n, nil
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
