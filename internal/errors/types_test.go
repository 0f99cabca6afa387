package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewConfigError("chunk overlap must be smaller than chunk size")
	assert.Equal(t, "chunk overlap must be smaller than chunk size", err.Error())

	cause := errors.New("connection refused")
	wrapped := NewIndexBuildError(cause)
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestErrorHTTPCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		httpCode int
	}{
		{"config", NewConfigError("bad"), http.StatusBadRequest},
		{"input", NewInvalidInputError("question", "required"), http.StatusBadRequest},
		{"extraction", NewExtractionError("a.pdf", errors.New("corrupt")), http.StatusBadRequest},
		{"empty corpus", NewEmptyCorpusError(), http.StatusBadRequest},
		{"not ready", NewNotReadyError(), http.StatusConflict},
		{"index build", NewIndexBuildError(errors.New("x")), http.StatusBadGateway},
		{"provider", NewProviderError("embedding", errors.New("x")), http.StatusBadGateway},
		{"generation", NewGenerationError(errors.New("x")), http.StatusBadGateway},
		{"system", NewSystemError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.httpCode, tt.err.HTTPCode)
		})
	}
}

func TestHasCode_WrappedChain(t *testing.T) {
	inner := NewEmptyCorpusError()
	outer := fmt.Errorf("ingest failed: %w", inner)

	assert.True(t, HasCode(outer, ErrCodeEmptyCorpus))
	assert.True(t, IsEmptyCorpusError(outer))
	assert.False(t, IsNotReadyError(outer))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeEmptyCorpus))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError("x")))
	assert.True(t, IsExtractionError(NewExtractionError("f", nil)))
	assert.True(t, IsNotReadyError(NewNotReadyError()))
	assert.True(t, IsIndexBuildError(NewIndexBuildError(nil)))
	assert.True(t, IsProviderError(NewProviderError("p", nil)))
	assert.True(t, IsGenerationError(NewGenerationError(nil)))
	assert.False(t, IsConfigError(NewGenerationError(nil)))
}

func TestGetAppError(t *testing.T) {
	appErr := NewNotReadyError()
	assert.Equal(t, appErr, GetAppError(appErr))

	plain := errors.New("disk full")
	converted := GetAppError(plain)
	assert.Equal(t, ErrCodeInternalServer, converted.Code)
	assert.Equal(t, plain, converted.Cause)
}

func TestWithDetails(t *testing.T) {
	err := NewInvalidInputError("question", "required").WithDetails(map[string]string{"field": "question"})
	assert.NotNil(t, err.Details)
}
