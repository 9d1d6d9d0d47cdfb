package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"emarket/internal/domain/model"
	"emarket/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// roleをcontextに入れた状態でguardを通す
func callAdminGuard(t *testing.T, role interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if role != nil {
		c.Set(middleware.CtxUserRoleKey, role)
	}

	nextCalled := false
	h := middleware.AdminRoleGuard()(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	assert.NoError(t, err)
	return rec, nextCalled
}

func TestAdminRoleGuard_AdminPasses(t *testing.T) {
	rec, nextCalled := callAdminGuard(t, string(model.RoleAdmin))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_UserIsForbidden(t *testing.T) {
	rec, nextCalled := callAdminGuard(t, string(model.RoleUser))

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_MissingRoleIsUnauthorized(t *testing.T) {
	rec, nextCalled := callAdminGuard(t, nil)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
