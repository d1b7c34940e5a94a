package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/identity-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "illegal argument -> InvalidArgument",
			in:       model.NewIllegalArgument("account id is malformed"),
			wantCode: codes.InvalidArgument,
			wantMsg:  "illegal argument: account id is malformed",
		},
		{
			name:     "access denied -> PermissionDenied",
			in:       model.NewAccessDenied("insufficient roles"),
			wantCode: codes.PermissionDenied,
			wantMsg:  "access denied: insufficient roles",
		},
		{
			name:     "not found -> NotFound",
			in:       model.NewNotFound("account not found"),
			wantCode: codes.NotFound,
			wantMsg:  "not found: account not found",
		},
		{
			name:     "conflict -> AlreadyExists",
			in:       model.NewConflict("name taken"),
			wantCode: codes.AlreadyExists,
			wantMsg:  "conflict: name taken",
		},
		{
			name:     "other -> Internal",
			in:       errors.New("boom"),
			wantCode: codes.Internal,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := handleError(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}
