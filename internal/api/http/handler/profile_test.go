package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpcontext "github.com/dtroode/identity-server/internal/api/http/context"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/testutil"
)

type profileService struct {
	mock.Mock
}

func (m *profileService) Read(ctx context.Context, authority *model.Authority, accountID, name *string) (model.Profile, error) {
	args := m.Called(ctx, authority, accountID, name)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *profileService) Create(ctx context.Context, authority *model.Authority, in model.ProfileInput) (model.Profile, error) {
	args := m.Called(ctx, authority, in)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *profileService) Update(ctx context.Context, authority *model.Authority, accountID, name *string, in model.ProfileInput) (model.Profile, error) {
	args := m.Called(ctx, authority, accountID, name, in)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *profileService) Delete(ctx context.Context, authority *model.Authority, accountID, name *string) error {
	args := m.Called(ctx, authority, accountID, name)
	return args.Error(0)
}

func newProfileEngine(svc ProfileService, a *model.Authority) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cm := httpcontext.NewManager()
	h := NewProfile(svc, cm, testutil.MakeNoopLogger())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(cm.SetAuthorityToContext(c.Request.Context(), a))
	})
	r.GET("/profiles", h.Read)
	r.POST("/profiles", h.Create)
	r.PUT("/profiles", h.Update)
	r.DELETE("/profiles", h.Delete)
	return r
}

func TestProfile_QueryParameters(t *testing.T) {
	a := &model.Authority{Roles: model.RoleSystem}
	svc := &profileService{}
	r := newProfileEngine(svc, a)

	svc.On("Read", mock.Anything, a, testutil.Ptr("42"), (*string)(nil)).
		Return(model.Profile{Name: "nick"}, nil).Once()
	svc.On("Delete", mock.Anything, a, (*string)(nil), testutil.Ptr("")).
		Return(model.NewIllegalArgument("name is malformed")).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profiles?accountId=42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"nick"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/profiles?name=", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"illegal argument: name is malformed"}`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestProfile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"conflict", model.NewConflict("name taken"), http.StatusConflict, `{"error":"conflict: name taken"}`},
		{"access denied", model.NewAccessDenied("not yours"), http.StatusUnauthorized, `{"error":"access denied: not yours"}`},
		{"unexpected hides detail", model.NewUnexpected(assert.AnError), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &profileService{}
			r := newProfileEngine(svc, nil)

			in := model.ProfileInput{AccountID: testutil.Ptr("42"), Name: testutil.Ptr("nick")}
			svc.On("Create", mock.Anything, (*model.Authority)(nil), in).Return(model.Profile{}, tt.err).Once()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"accountId":"42","name":"nick"}`)))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestProfile_Update(t *testing.T) {
	svc := &profileService{}
	r := newProfileEngine(svc, nil)

	in := model.ProfileInput{Name: testutil.Ptr("renamed")}
	svc.On("Update", mock.Anything, (*model.Authority)(nil), testutil.Ptr("42"), (*string)(nil), in).
		Return(model.Profile{Name: "renamed"}, nil).Once()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/profiles?accountId=42", strings.NewReader(`{"name":"renamed"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
