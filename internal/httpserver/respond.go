package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/util"
	"github.com/mkravchenko/marketplace/internal/validation"
)

// envelope is the response shape shared by every endpoint. List endpoints
// add pagination.
type envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Code       string              `json:"code,omitempty"`
	Pagination *util.Pagination    `json:"pagination,omitempty"`
}

func respondOK(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, envelope{Success: true, Data: data, Message: message})
}

func respondList(c echo.Context, data any, p util.Pagination) error {
	return c.JSON(200, envelope{Success: true, Data: data, Pagination: &p})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Message: message, Error: message})
}

func respondValidation(c echo.Context, errs validation.Errors) error {
	return c.JSON(400, envelope{
		Success: false,
		Message: "Please check your input and try again.",
		Error:   "validation failed",
		Errors:  errs,
	})
}
