// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"platter/internal/delivery/http/middleware"
	"platter/internal/delivery/http/router/handler"
	"platter/internal/delivery/http/session"
	"platter/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams collects the two auth workflows and shared HTTP plumbing.
type RouterParams struct {
	fx.In

	UserAuth       usecase.AuthUsecase `name:"users"`
	PartnerAuth    usecase.AuthUsecase `name:"partners"`
	Carrier        *session.Carrier
	AuthMiddleware *middleware.AuthMiddleware
}

type router struct {
	users          *handler.AuthHandler
	partners       *handler.AuthHandler
	userAuth       usecase.AuthUsecase
	partnerAuth    usecase.AuthUsecase
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		users:          handler.NewAuthHandler(params.UserAuth, params.Carrier, handler.UserVariant),
		partners:       handler.NewAuthHandler(params.PartnerAuth, params.Carrier, handler.PartnerVariant),
		userAuth:       params.UserAuth,
		partnerAuth:    params.PartnerAuth,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.users.Register)
		authGroup.POST("/login", r.users.Login)
		authGroup.POST("/logout", r.users.Logout)
		authGroup.GET("/me", r.users.Me, r.authMiddleware.Authenticate(r.userAuth))
	}

	partnerGroup := authGroup.Group("/partner")
	{
		partnerGroup.POST("/register", r.partners.Register)
		partnerGroup.POST("/login", r.partners.Login)
		partnerGroup.POST("/logout", r.partners.Logout)
		partnerGroup.GET("/me", r.partners.Me, r.authMiddleware.Authenticate(r.partnerAuth))
	}
}
