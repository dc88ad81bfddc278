package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/judyrop/storefront/apperr"
)

// ErrorHandler turns the last error recorded with c.Error into a
// {"message": ...} response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := Describe(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[HTTP] [ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.AbortWithStatusJSON(status, gin.H{"message": message})
	}
}

// Describe maps err to the status and client-facing message.
func Describe(err error) (int, string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "resource not found"
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return http.StatusBadRequest, ValidationMessage(validationErrors)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return http.StatusBadRequest, "invalid request body"
	}

	return http.StatusInternalServerError, "internal server error"
}

// ValidationMessage joins one readable line per failed field.
func ValidationMessage(validationErrors validator.ValidationErrors) string {
	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email", field))
		case "min", "gte":
			details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
		case "max", "lte":
			details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		case "eqfield":
			details = append(details, fmt.Sprintf("%s must match %s", field, lowerCamel(fieldError.Param())))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(details, "; ")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
