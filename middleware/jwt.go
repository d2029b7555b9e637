package middleware

import (
	"fmt"
	"strings"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a session token for the user
func GenerateJWT(user *models.User) (string, error) {
	if user == nil {
		return "", fmt.Errorf("cannot issue token for nil user")
	}

	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// resolveUser decodes and verifies the bearer token and re-reads the user
// from the database, so deleted or deactivated users are unauthenticated
// immediately even while their token is still structurally valid.
func resolveUser(c *fiber.Ctx) (*models.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, fmt.Errorf("invalid authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, fmt.Errorf("invalid token payload")
	}

	userID := uint(claims["userId"].(float64))
	email, _ := claims["email"].(string)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user no longer exists")
	}
	if user.Email != email {
		return nil, fmt.Errorf("token does not match user")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user account is deactivated")
	}

	return &user, nil
}

// JWTMiddleware requires a valid session token and stores the resolved user
// in the request context. Any failure is a 401.
func JWTMiddleware(c *fiber.Ctx) error {
	user, err := resolveUser(c)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	c.Locals("user", user)
	c.Locals("userId", user.ID)
	return c.Next()
}

// OptionalJWTMiddleware never rejects: with no or an invalid token the
// request simply proceeds anonymously.
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	if user, err := resolveUser(c); err == nil {
		c.Locals("user", user)
		c.Locals("userId", user.ID)
	}
	return c.Next()
}

// CurrentUser returns the user resolved by the JWT middleware, or nil for an
// anonymous request.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
