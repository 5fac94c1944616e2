package model

import "errors"

var (
	// Token related errors
	ErrNoStoredToken  = errors.New("no stored token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")

	// Session related errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSuperseded       = errors.New("superseded by a newer session transition")

	// Lookup related errors
	ErrCEPNotFound = errors.New("cep not found")
)
