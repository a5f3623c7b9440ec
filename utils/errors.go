package utils

import (
	"errors"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// AppError is the error kind carried from services up to the handlers.
// Status picks the HTTP code; Message ends up in the response envelope.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NewBadRequest(message string) *AppError {
	return &AppError{Status: iris.StatusBadRequest, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Status: iris.StatusNotFound, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Status: iris.StatusForbidden, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Status: iris.StatusConflict, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Status: iris.StatusUnauthorized, Message: message}
}

// CreateError writes the uniform error envelope.
func CreateError(status int, message string, ctx iris.Context) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"success": false, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Error interno del servidor", ctx)
}

// HandleError maps service errors to the envelope. Unknown errors become 500
// with the message suppressed outside development mode.
func HandleError(err error, ctx iris.Context) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		CreateError(appErr.Status, appErr.Message, ctx)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		CreateError(iris.StatusNotFound, "Recurso no encontrado", ctx)
		return
	}
	if os.Getenv("ENV") == "development" {
		CreateError(iris.StatusInternalServerError, err.Error(), ctx)
		return
	}
	CreateInternalServerError(ctx)
}

// HandleValidationErrors formats validator.v10 failures into the envelope.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field())
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Datos de entrada inválidos",
			"fields":  fields,
		})
		return
	}
	CreateError(iris.StatusBadRequest, "Cuerpo de la petición inválido", ctx)
}
