package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"acharwala/internal/delivery/http/middleware"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerTestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestHealthCheck(t *testing.T) {
	c, rec := newHandlerTestContext(http.MethodGet, "/health")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetPrincipal(t *testing.T) {
	c, _ := newHandlerTestContext(http.MethodGet, "/api/cart")
	want := entity.Principal{UserID: uuid.New(), Role: entity.RoleCustomer}
	c.Set(middleware.ContextKeyPrincipal, want)

	got, err := getPrincipal(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetPrincipal_MissingYieldsUnauthorized(t *testing.T) {
	c, _ := newHandlerTestContext(http.MethodGet, "/api/cart")

	_, err := getPrincipal(c)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestParseIDParam(t *testing.T) {
	c, _ := newHandlerTestContext(http.MethodGet, "/api/products/not-a-uuid")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	_, err := parseIDParam(c, "id")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())

	id := uuid.New()
	c, _ = newHandlerTestContext(http.MethodGet, "/api/products/"+id.String())
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	got, err := parseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
