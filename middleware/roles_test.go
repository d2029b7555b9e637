package middleware

import (
	"net/http/httptest"
	"os"
	"testing"

	"learnhub/config"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	os.Exit(m.Run())
}

// injectUser stands in for JWTMiddleware so the role gate can be tested
// without a database.
func injectUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

func okHandler(c *fiber.Ctx) error {
	return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		gate       fiber.Handler
		wantStatus int
	}{
		{"no user is unauthenticated", nil, RequireAdmin(), fiber.StatusUnauthorized},
		{"wrong role is forbidden", &models.User{Role: models.RoleStudent}, RequireAdmin(), fiber.StatusForbidden},
		{"matching role passes", &models.User{Role: models.RoleAdmin}, RequireAdmin(), fiber.StatusOK},
		{"teacher passes combined gate", &models.User{Role: models.RoleTeacher}, RequireTeacherOrAdmin(), fiber.StatusOK},
		{"admin passes combined gate", &models.User{Role: models.RoleAdmin}, RequireTeacherOrAdmin(), fiber.StatusOK},
		{"student fails combined gate", &models.User{Role: models.RoleStudent}, RequireTeacherOrAdmin(), fiber.StatusForbidden},
		{"student passes any-role gate", &models.User{Role: models.RoleStudent}, RequireTeacherOrAdminOrStudent(), fiber.StatusOK},
		{"unknown role fails any-role gate", &models.User{Role: "AUDITOR"}, RequireTeacherOrAdminOrStudent(), fiber.StatusForbidden},
		{"no user fails any-role gate", nil, RequireTeacherOrAdminOrStudent(), fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/guarded", injectUser(tt.user), tt.gate, okHandler)

			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestGenerateJWT(t *testing.T) {
	_, err := GenerateJWT(nil)
	assert.Error(t, err)

	user := &models.User{Email: "user@example.com", Role: models.RoleStudent}
	user.ID = 5

	tokenString, err := GenerateJWT(user)
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTKey), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 5, claims["userId"])
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, models.RoleStudent, claims["role"])
}
