package handler

import (
	"net/http"

	"platter/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness only; it does not touch the credential store.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, "Service is healthy", "", nil)
}
