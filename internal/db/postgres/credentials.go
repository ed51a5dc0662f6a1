package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zalando/go-keyring"
)

const serviceName = "lazygrid"

// ErrPasswordNotFound is returned when the keyring has no entry for a connection
var ErrPasswordNotFound = errors.New("password not found in keyring")

// PasswordStore keeps connection passwords in the OS keyring
type PasswordStore struct {
	service string
}

// NewPasswordStore returns a store under the application's keyring service
func NewPasswordStore() *PasswordStore {
	return &PasswordStore{service: serviceName}
}

// Save stores a password.
// key format: "host:port:database:user"
func (ps *PasswordStore) Save(host string, port uint16, database, user, password string) error {
	if password == "" {
		return nil
	}
	if err := keyring.Set(ps.service, makeKey(host, port, database, user), password); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves a password
func (ps *PasswordStore) Get(host string, port uint16, database, user string) (string, error) {
	secret, err := keyring.Get(ps.service, makeKey(host, port, database, user))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return secret, nil
}

// Delete removes a password; a missing entry is not an error
func (ps *PasswordStore) Delete(host string, port uint16, database, user string) error {
	err := keyring.Delete(ps.service, makeKey(host, port, database, user))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

// Remember saves the password of a parsed connection config
func (ps *PasswordStore) Remember(cfg *pgconn.Config) error {
	return ps.Save(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password)
}

// fill sets a missing password from the keyring. It reports whether one was found.
func (ps *PasswordStore) fill(cfg *pgconn.Config) (bool, error) {
	if cfg.Password != "" {
		return false, nil
	}
	secret, err := ps.Get(cfg.Host, cfg.Port, cfg.Database, cfg.User)
	if errors.Is(err, ErrPasswordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cfg.Password = secret
	return true, nil
}

func makeKey(host string, port uint16, database, user string) string {
	return fmt.Sprintf("%s:%d:%s:%s", host, port, database, user)
}
