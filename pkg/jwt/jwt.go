package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims de un access token de Supabase Auth. El rol de negocio vive en
// user_metadata.role o app_metadata.role; el claim "role" de Supabase es el rol de Postgres
// (authenticated / service_role) y no se usa para autorizar.
type Claims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	PostgresRole string         `json:"role,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Principal identidad resuelta de un token válido.
type Principal struct {
	UserID string
	Email  string
	Role   string // "admin" | "customer" | "service_provider" | "" si no hay rol
}

// BusinessRole resuelve el rol igual que la proyección del directorio: user_metadata, luego app_metadata.
func (c *Claims) BusinessRole() string {
	if r, _ := c.UserMetadata["role"].(string); r != "" {
		return r
	}
	r, _ := c.AppMetadata["role"].(string)
	return r
}

// Generate firma un token HS256 con el formato de Supabase. Se usa en tests y herramientas internas.
func Generate(secret, userID, email, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email:        email,
		PostgresRole: "authenticated",
	}
	if role != "" {
		claims.AppMetadata = map[string]any{"role": role}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve el Principal.
// Si issuer no está vacío también se valida el claim iss.
func Parse(secret, issuer, tokenString string) (*Principal, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.BusinessRole(),
	}, nil
}
