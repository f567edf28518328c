package handler // handler defines the HTTP handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// respond is the envelope every endpoint returns: an error flag, a human
// readable message and any payload fields merged alongside.
func respond(c echo.Context, status int, isErr bool, message string, extra echo.Map) error {
	body := echo.Map{"error": isErr, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, message string) error {
	return respond(c, http.StatusBadRequest, true, message, nil)
}

func internalError(c echo.Context) error {
	return respond(c, http.StatusInternalServerError, true, "Internal Server Error", nil)
}

// getUserID extracts the owner identity bound by the auth middleware. It is
// the only place handlers obtain an owner id from; note ids arrive in the
// URL but owner ids never come from the client.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no authenticated user in context")
}
