package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hotel_site/internal/domain"
)

// PasswordMode selects how stored admin passwords are compared.
type PasswordMode string

const (
	// PasswordPlaintext compares the stored value byte for byte.
	PasswordPlaintext PasswordMode = "plaintext"
	// PasswordBcrypt treats the stored value as a bcrypt hash.
	PasswordBcrypt PasswordMode = "bcrypt"
)

func ParsePasswordMode(s string) PasswordMode {
	if strings.EqualFold(strings.TrimSpace(s), string(PasswordBcrypt)) {
		return PasswordBcrypt
	}
	return PasswordPlaintext
}

// Store prepares a plain password for the admins table in this mode.
func (m PasswordMode) Store(plain string) (string, error) {
	if m != PasswordBcrypt {
		return plain, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type AuthService struct {
	admins domain.AdminRepository
	codec  domain.SessionCodec
	mode   PasswordMode
}

func NewAuthService(a domain.AdminRepository, c domain.SessionCodec, mode PasswordMode) *AuthService {
	if mode == "" {
		mode = PasswordPlaintext
	}
	return &AuthService{admins: a, codec: c, mode: mode}
}

func (s *AuthService) passwordMatches(stored, given string) bool {
	if s.mode == PasswordBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

// Login checks the credentials and returns the new session with its token.
// Unknown email and wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AdminSession, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.AdminSession{}, "", domain.Invalid("", "email and password are required")
	}
	a, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info().Str("email", email).Msg("admin login: unknown email")
			return domain.AdminSession{}, "", domain.ErrInvalidCredentials
		}
		return domain.AdminSession{}, "", domain.Gateway("find admin", err)
	}
	if !s.passwordMatches(a.Password, password) {
		log.Info().Str("email", email).Msg("admin login: wrong password")
		return domain.AdminSession{}, "", domain.ErrInvalidCredentials
	}

	sess := domain.AdminSession{IsAdmin: true, Email: a.Email, ID: a.ID}
	tok, err := s.codec.Encode(sess)
	if err != nil {
		return domain.AdminSession{}, "", err
	}
	return sess, tok, nil
}

type SessionStatus struct {
	IsAdmin bool   `json:"is_admin"`
	Email   string `json:"email,omitempty"`
	ID      string `json:"id,omitempty"`
}

// CheckSession never fails: a missing or malformed token is simply not an admin.
func (s *AuthService) CheckSession(token string) SessionStatus {
	sess := s.Session(token)
	return SessionStatus{IsAdmin: sess.IsAdmin, Email: sess.Email, ID: sess.ID}
}

// Session decodes token into the session record, zero value when absent or malformed.
func (s *AuthService) Session(token string) domain.AdminSession {
	if strings.TrimSpace(token) == "" {
		return domain.AdminSession{}
	}
	sess, err := s.codec.Decode(token)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring malformed admin session")
		return domain.AdminSession{}
	}
	return sess
}
