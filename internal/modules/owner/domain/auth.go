package domain

import (
	"errors"
	"strings"
)

type AuthMode string

const (
	AuthModeRegister AuthMode = "register"
	AuthModeLogin    AuthMode = "login"
)

// TokenStorageKey is the durable storage key of the bearer token.
const TokenStorageKey = "token"

var (
	ErrNotAuthenticated = errors.New("Please login first!")
	ErrInvalidAuthMode  = errors.New("auth mode must be register or login")
)

func ParseAuthMode(raw string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(raw))) {
	case AuthModeRegister:
		return AuthModeRegister, nil
	case AuthModeLogin:
		return AuthModeLogin, nil
	default:
		return "", ErrInvalidAuthMode
	}
}

func (m AuthMode) Toggle() AuthMode {
	if m == AuthModeLogin {
		return AuthModeRegister
	}
	return AuthModeLogin
}

// Credentials is the auth form. Name is only sent on registration.
type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
