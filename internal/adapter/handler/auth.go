package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/srgjo27/enterprise_booking/internal/core/domain"
)

const actorKey = "actor"

var errNoActor = errors.New("no authenticated actor")

// Claims are issued by the account backend: sub is the user id and role
// is "student" or "staff".
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth verifies the HS256 bearer token and stores the caller as a
// domain.Actor on the echo context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			var claims Claims
			tok, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}

			role := domain.UserRole(claims.Role)
			if role != domain.UserStudent && role != domain.UserStaff {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown role"})
			}

			c.Set(actorKey, domain.Actor{UserID: userID, Role: role})
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get(actorKey).(domain.Actor)
	if !ok {
		return domain.Actor{}, errNoActor
	}

	return actor, nil
}
