package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
)

const identityContextKey = "identity"

// Claims is the JWT payload issued to authenticated users.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for the given identity. Used by the auth frontend
// and by tests.
func IssueToken(secret string, identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: identity.Username,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken validates a JWT and extracts the caller's identity.
func parseToken(secret, tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid subject: %w", err)
	}

	role := domain.Role(claims.Role)
	switch role {
	case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
	default:
		role = domain.RoleUser
	}
	return domain.Identity{UserID: userID, Username: claims.Username, Role: role}, nil
}

// requireAuth authenticates the request via a Bearer token. WebSocket
// clients may pass the token as a query parameter instead, since browsers
// cannot set headers on the upgrade request.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			tokenString = c.QueryParam("token")
		}
		if tokenString == "" {
			return echo.NewHTTPError(401, "missing authentication token")
		}

		identity, err := parseToken(s.config.JWTSecret, tokenString)
		if err != nil {
			return echo.NewHTTPError(401, "invalid authentication token")
		}

		c.Set(identityContextKey, identity)
		c.Set("userID", identity.UserID.String())
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}

func identityFrom(c echo.Context) domain.Identity {
	identity, _ := c.Get(identityContextKey).(domain.Identity)
	return identity
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
