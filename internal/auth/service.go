// Package auth provides user registration, login and token verification
// on top of the credential store.
package auth

import (
	"context"
	"fmt"

	"github.com/roomchat/roomchat-server/internal/model"
	"github.com/roomchat/roomchat-server/internal/store"
)

// Service implements the authentication operations of the store gateway.
type Service struct {
	store  store.CredentialStore
	tokens TokenConfig
}

// NewService creates an authentication service.
func NewService(credentials store.CredentialStore, tokens TokenConfig) *Service {
	return &Service{
		store:  credentials,
		tokens: tokens,
	}
}

// Register validates the username, hashes the password and stores the
// credential. Returns store.ErrConflict if the name is taken.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := (model.User{Name: username}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", store.ErrValidation)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.SaveCredential(ctx, username, hash)
}

// Login checks the credentials and issues a token, recording it in the
// token store. Returns store.ErrUnauthorized on an unknown user or a
// password mismatch.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	hash, err := s.store.GetCredential(ctx, username)
	if err != nil {
		return "", err
	}
	if err := ComparePassword(hash, password); err != nil {
		return "", fmt.Errorf("%w: password mismatch", store.ErrUnauthorized)
	}

	token, err := MintToken(s.tokens, username)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveToken(ctx, token, username); err != nil {
		return "", err
	}
	return token, nil
}

// Verify resolves a presented token back to its username. Verification is
// a pure store lookup: tokens never expire and are never revoked.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	return s.store.LookupToken(ctx, token)
}
