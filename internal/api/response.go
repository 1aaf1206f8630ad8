package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope of every API reply.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorDetail describes one request problem.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

func dataResponse(c echo.Context, status int, data any) error {
	return c.JSON(status, Response{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func successResponse(c echo.Context, data any) error {
	return dataResponse(c, http.StatusOK, data)
}

func createdResponse(c echo.Context, data any) error {
	return dataResponse(c, http.StatusCreated, data)
}

func badRequestResponse(c echo.Context, details []ErrorDetail) error {
	return dataResponse(c, http.StatusBadRequest, details)
}

func notFoundResponse(c echo.Context, message string) error {
	return dataResponse(c, http.StatusNotFound, []ErrorDetail{{Code: "ERR_NOT_FOUND", Message: message}})
}

func unprocessableResponse(c echo.Context, code string, err error) error {
	return dataResponse(c, http.StatusUnprocessableEntity, []ErrorDetail{{Code: code, Message: err.Error()}})
}

func internalErrorResponse(c echo.Context) error {
	return dataResponse(c, http.StatusInternalServerError, []ErrorDetail{{Code: "ERR_INTERNAL", Message: "Something went wrong"}})
}
