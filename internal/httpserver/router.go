package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkova/taskboard/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	TaskHandler *TaskHTTP
	Guard       *middleware.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)

	tasks := e.Group("/tasks", d.Guard.RequireAuth)
	tasks.GET("", d.TaskHandler.List)
	tasks.POST("", d.TaskHandler.Create)
	tasks.GET("/search", d.TaskHandler.Search)
	tasks.GET("/:id", d.TaskHandler.Get)
	tasks.PATCH("/:id", d.TaskHandler.Patch)
	tasks.DELETE("/:id", d.TaskHandler.Delete)
	tasks.PATCH("/:id/toggle", d.TaskHandler.Toggle)
}
