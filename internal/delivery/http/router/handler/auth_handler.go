// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	deliverycontext "platter/internal/delivery/context"
	"platter/internal/delivery/http/response"
	"platter/internal/delivery/http/session"
	"platter/internal/domain/entity"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Variant describes how one actor kind appears on the wire.
type Variant struct {
	// Key names the envelope field carrying the actor, e.g. "user".
	Key string
	// DisplayField is the JSON name of the display name, e.g. "fullName".
	DisplayField string
	// Label prefixes the success messages, e.g. "Food partner".
	Label string
}

// UserVariant and PartnerVariant are the two wire shapes served under /auth.
var (
	UserVariant    = Variant{Key: "user", DisplayField: "fullName", Label: "User"}
	PartnerVariant = Variant{Key: "partner", DisplayField: "name", Label: "Food partner"}
)

// registerRequest accepts both display-name spellings; the variant picks one.
type registerRequest struct {
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves register, login, logout and me for one variant.
type AuthHandler struct {
	uc      usecase.AuthUsecase
	carrier *session.Carrier
	variant Variant
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(uc usecase.AuthUsecase, carrier *session.Carrier, variant Variant) *AuthHandler {
	return &AuthHandler{uc: uc, carrier: carrier, variant: variant}
}

// Register handles the registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid registration input")
	}

	displayName := req.FullName
	if h.variant.DisplayField == PartnerVariant.DisplayField {
		displayName = req.Name
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		DisplayName: displayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.carrier.Set(c, output.Token, output.ExpiresAt)

	return response.Success(c, http.StatusCreated, h.variant.Label+" registered successfully", h.variant.Key, h.actorBody(output.Actor))
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.carrier.Set(c, output.Token, output.ExpiresAt)

	return response.Success(c, http.StatusOK, h.variant.Label+" logged in successfully", h.variant.Key, h.actorBody(output.Actor))
}

// Logout clears the session cookie. The token itself stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.carrier.Clear(c)

	return response.Success(c, http.StatusOK, h.variant.Label+" logged out successfully", "", nil)
}

// Me returns the actor resolved by the auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	return response.Success(c, http.StatusOK, h.variant.Label+" profile", h.variant.Key, h.actorBody(actor))
}

// actorBody is the only public view of an actor; it has no room for the password hash.
func (h *AuthHandler) actorBody(actor *entity.Actor) map[string]any {
	return map[string]any{
		"id":                   actor.ID.String(),
		"email":                actor.Email,
		h.variant.DisplayField: actor.DisplayName,
	}
}
