// Package session stores the local account and drives the boot sequence
// that precedes the desktop.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/opendoor/internal/runtimepath"
)

var (
	// ErrNoUser is returned by Load when no account has been created.
	ErrNoUser = errors.New("no user account")
	// ErrBadPassword is returned when a password does not match.
	ErrBadPassword = errors.New("incorrect password")
)

// User is the stored account. Only the bcrypt hash of the password is kept.
type User struct {
	Username     string    `yaml:"username"`
	PasswordHash string    `yaml:"password_hash"`
	CreatedAt    time.Time `yaml:"created_at"`
}

// Store reads and writes the account file.
type Store struct {
	path string
	cost int
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, cost: bcrypt.DefaultCost}
}

// DefaultStore returns the store under the state directory.
func DefaultStore() (*Store, error) {
	path, err := runtimepath.UserFilePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Path returns the account file location.
func (s *Store) Path() string { return s.path }

// Load reads the account.
func (s *Store) Load() (*User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoUser
		}
		return nil, fmt.Errorf("failed to read user file: %w", err)
	}
	var u User
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to parse user file %s: %w", s.path, err)
	}
	if u.Username == "" || u.PasswordHash == "" {
		return nil, fmt.Errorf("user file %s is incomplete", s.path)
	}
	return &u, nil
}

// ValidateCredentials checks a new username and password.
func ValidateCredentials(username, password string) error {
	name := strings.TrimSpace(username)
	switch {
	case name == "":
		return errors.New("username is required")
	case strings.ContainsAny(name, " \t/:"):
		return errors.New("username must not contain spaces, slashes or colons")
	case len(name) > 32:
		return errors.New("username must be at most 32 characters")
	case password == "":
		return errors.New("password is required")
	case len(password) > 72:
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

// Create hashes password and writes a new account, replacing any existing
// one.
func (s *Store) Create(username, password string) (*User, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := &User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.write(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) write(u *User) error {
	data, err := yaml.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write user file: %w", err)
	}
	return nil
}

// Reset deletes the account. A missing file is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove user file: %w", err)
	}
	return nil
}

// Verify compares password against the stored hash.
func (u *User) Verify(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrBadPassword
	}
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}
