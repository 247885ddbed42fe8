package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken envuelve cualquier fallo al validar un token.
var ErrInvalidToken = errors.New("jwt: token inválido")

// leeway tolera desfase de reloj entre quien emite y este servicio.
const leeway = 30 * time.Second

// Claims incluye los claims estándar JWT más el rol.
// El UserID queda como actor en el kárdex y como posted_by en los asientos.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "admin" | "bodeguero" | "contador"
}

// Generate firma un token HS256 para userID con el rol indicado. role puede ir vacío
// (el middleware lo rechaza después con MISSING_ROLE).
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	if userID == "" {
		return "", errors.New("jwt: userID vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma (solo HS256) y expiración, y devuelve userID y role.
// Tokens emitidos por otros sistemas pueden traer el usuario solo en "sub".
func Parse(secret, tokenString string) (userID, role string, err error) {
	if secret == "" {
		return "", "", errors.New("jwt: secret vacío")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	var claims Claims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID = claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return "", "", fmt.Errorf("%w: sin usuario", ErrInvalidToken)
	}
	return userID, claims.Role, nil
}
