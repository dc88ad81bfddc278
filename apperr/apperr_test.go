package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("order %d not found", 3)))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", Conflict("dup"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusOf(InvalidCredentials()))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "refund failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "refund failed", err.Message)
	assert.Contains(t, err.Error(), "connection reset")
}
