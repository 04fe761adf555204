package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"

	"github.com/hydrosmart/reporter/internal/query"
	"github.com/hydrosmart/reporter/internal/types"
	"github.com/hydrosmart/reporter/internal/validator"
)

type queryForm struct {
	Description string `form:"description" validate:"required"`
	Latitude    string `form:"latitude"    validate:"required,latitude"`
	Longitude   string `form:"longitude"   validate:"required,longitude"`
}

func fieldError(field string, message string) *echo.HTTPError {
	return echo.NewHTTPError(
		http.StatusBadRequest,
		types.Error{
			Message: message,
			Fields:  map[string]string{field: message},
		},
	)
}

// Query accepts one water quality report
//
// Multipart fields: myimg (photo, at most 10 MiB), description, latitude and
// longitude. Rejections carry a human readable message.
func Query(c echo.Context) error {
	var data queryForm

	err := c.Bind(&data)
	if err != nil {
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed parsing request data"),
		)
	}

	err = c.Validate(data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	header, err := c.FormFile(query.FieldImage)
	if err != nil {
		return fieldError(query.FieldImage, query.FieldImage+" is required")
	}

	if !validator.ValidateImageSize(header.Size) {
		return fieldError(
			query.FieldImage,
			fmt.Sprintf("image must be between 1 byte and %d bytes", validator.MaxImageSize),
		)
	}

	file, err := header.Open()
	if err != nil {
		return fieldError(query.FieldImage, "image could not be read")
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return fieldError(query.FieldImage, "image could not be read")
	}
	if !validator.IsImageContentType(detected.String()) {
		return fieldError(query.FieldImage, "bad file")
	}

	id := uuid.New().String()
	slogecho.AddCustomAttributes(c, slog.String("query_id", id))
	slogecho.AddCustomAttributes(c, slog.String("content_type", detected.String()))

	return c.JSON(http.StatusOK, types.QueryResponse{
		Message: "query received",
		ID:      id,
	})
}
