package routes

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/hydrosmart/reporter/internal/validator"
)

// Room for the largest accepted photo plus the text fields
const bodyLimit = "11M"

func BuildEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	validate := validator.Create()
	e.Validator = &validate

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware("hydrosmart-mock-backend"),
		slogecho.NewWithConfig(logger, slogecho.Config{}),
		middleware.BodyLimit(bodyLimit),
	)

	e.GET("/health/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")
	api.POST("/query/", Query)

	return e
}
