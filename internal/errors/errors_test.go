package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studytracker/internal/errors"
)

func TestAppError_Wrapping(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("saving session: %w", errors.NewInternalError(cause))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, appErr.Error(), "disk full")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NewNotFoundError("subject", 3)))
	assert.False(t, errors.IsNotFound(errors.NewConflictError("in use")))
	assert.False(t, errors.IsNotFound(stderrors.New("plain")))
}
