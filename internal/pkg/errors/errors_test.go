// internal/pkg/errors/errors_test.go
package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("cart is empty"), http.StatusBadRequest},
		{"not found", NotFound("order"), http.StatusNotFound},
		{"conflict", Conflict("stale price"), http.StatusConflict},
		{"invalid transition", InvalidTransition("order", "delivered", "processing"), http.StatusConflict},
		{"forbidden", Forbidden("seller does not own this item"), http.StatusForbidden},
		{"unavailable", Unavailable("payment gateway", nil), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("placing order: %w", Validation("cart is empty")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("order", "processing", "refunded")
	assert.Contains(t, err.Error(), `"processing"`)
	assert.Contains(t, err.Error(), `"refunded"`)
}

func TestNotFoundMessage(t *testing.T) {
	assert.EqualError(t, NotFound("cart"), "cart not found")
}
