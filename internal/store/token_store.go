// Package store persists the session token across process restarts.
// It is a single-slot durable store: one file, one token, absence means
// logged out.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

type TokenStore struct {
	path string
	mu   sync.Mutex
}

type tokenFile struct {
	Token string `json:"token"`
}

func New(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (s *TokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", model.ErrNoStoredToken
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	var file tokenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}

	if strings.TrimSpace(file.Token) == "" {
		return "", model.ErrNoStoredToken
	}

	return file.Token, nil
}

// Save overwrites the slot. The write goes through a temp file and a
// rename so a crash never leaves a truncated token behind.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace token file: %w", err)
	}

	return nil
}

func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}

	return nil
}
