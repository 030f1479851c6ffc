package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/validation"
	"github.com/mkravchenko/marketplace/pkg/logging"
)

func (d *Deps) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signin")

	var req validation.SignInData
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.SignIn(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	user, err := d.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return respondError(c, http.StatusUnauthorized, "Invalid email or password")
		}
		l.Error("signin_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	return respondMessage(c, http.StatusOK, user, "Successfully signed in!")
}

func (d *Deps) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req validation.SignUpData
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_bad_body", "error", err)
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validation.SignUp(req); !errs.Valid() {
		return respondValidation(c, errs)
	}

	user, err := d.Auth.SignUp(ctx, req.SignUpData)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return respondError(c, http.StatusConflict, "User with this email already exists")
		}
		l.Error("signup_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}

	return respondMessage(c, http.StatusCreated, user, "Account created successfully!")
}

func (d *Deps) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	if err := d.Auth.SignOut(ctx); err != nil {
		logging.FromContext(ctx).Error("signout_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	return respondMessage(c, http.StatusOK, nil, "Successfully signed out!")
}

// Me answers the current session user. A missing session is a successful
// response with null data, not an error.
func (d *Deps) Me(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := d.Auth.CurrentUser(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("me_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error. Please try again later.")
	}
	if user == nil {
		return respondMessage(c, http.StatusOK, nil, "no session")
	}
	return respondOK(c, http.StatusOK, user)
}
