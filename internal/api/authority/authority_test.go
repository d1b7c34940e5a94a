package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/identity-server/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    *model.Authority
		wantErr bool
	}{
		{
			name:    "anonymous",
			headers: map[string]string{},
		},
		{
			name: "full authority",
			headers: map[string]string{
				HeaderID:       "550e8400-e29b-41d4-a716-446655440000",
				HeaderRoles:    "6",
				HeaderAuthTime: "1700000000",
			},
			want: &model.Authority{ID: "550e8400-e29b-41d4-a716-446655440000", Roles: 6, AuthTime: 1_700_000_000},
		},
		{
			name:    "roles only",
			headers: map[string]string{HeaderRoles: "1"},
			want:    &model.Authority{Roles: model.RoleSystem},
		},
		{
			name:    "negative roles parse and fail validation later",
			headers: map[string]string{HeaderRoles: "-1"},
			want:    &model.Authority{Roles: -1},
		},
		{
			name:    "roles not a number",
			headers: map[string]string{HeaderRoles: "admin"},
			wantErr: true,
		},
		{
			name:    "roles overflow short",
			headers: map[string]string{HeaderRoles: "40000"},
			wantErr: true,
		},
		{
			name:    "auth time not a number",
			headers: map[string]string{HeaderAuthTime: "yesterday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(MapLookup(tt.headers))
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrIllegalArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	a := &model.Authority{ID: "550e8400-e29b-41d4-a716-446655440000", Roles: model.RoleUser, AuthTime: 42}

	got, err := Parse(MapLookup(Encode(a)))
	require.NoError(t, err)
	assert.Equal(t, a, got)

	assert.Nil(t, Encode(nil))
}
