package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/identity-server/internal/model"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"illegal argument", model.NewIllegalArgument("bad"), http.StatusBadRequest},
		{"access denied", model.NewAccessDenied("no"), http.StatusUnauthorized},
		{"not found", model.NewNotFound("gone"), http.StatusNotFound},
		{"conflict", model.NewConflict("taken"), http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("failed: %w", model.NewConflict("taken")), http.StatusConflict},
		{"unexpected", model.NewUnexpected(errors.New("db down")), http.StatusInternalServerError},
		{"raw error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
