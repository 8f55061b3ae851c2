package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusPerKind(t *testing.T) {
	cases := map[Kind]int{
		Validation:   http.StatusBadRequest,
		BusinessRule: http.StatusBadRequest,
		NotFound:     http.StatusNotFound,
		Permission:   http.StatusForbidden,
		Internal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(kind, "x")))
	}

	// Unknown errors default to 500.
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestMessageMasksInternal(t *testing.T) {
	err := Wrap(Internal, errors.New("dial tcp: connection refused"), "db down")
	assert.Equal(t, "Error interno del servidor", MessageOf(err))
	assert.Contains(t, err.Error(), "connection refused", "full chain kept for logs")

	visible := New(BusinessRule, "Stock insuficiente para %s (disponible: %d)", "Cemento", 3)
	assert.Equal(t, "Stock insuficiente para Cemento (disponible: 3)", MessageOf(visible))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(NotFound, cause, "missing")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, NotFound, KindOf(err))
}
