// Package session signs the admin session into a cookie-safe token.
package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"hotel_site/internal/domain"
)

type claims struct {
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// JWTCodec is an HS256 domain.SessionCodec. Tokens carry no exp claim: a session lasts until logout.
type JWTCodec struct {
	secret []byte
}

func NewJWTCodec(secret string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &JWTCodec{secret: []byte(secret)}, nil
}

func (c *JWTCodec) Encode(s domain.AdminSession) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		IsAdmin:          s.IsAdmin,
		Email:            s.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: s.ID},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(token string) (domain.AdminSession, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.AdminSession{}, fmt.Errorf("parse session: %w", err)
	}
	return domain.AdminSession{IsAdmin: cl.IsAdmin, Email: cl.Email, ID: cl.Subject}, nil
}
