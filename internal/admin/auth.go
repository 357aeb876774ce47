package admin

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn    = errors.New("admin login required")
)

// Authenticator checks admin credentials
type Authenticator interface {
	Verify(username, password string) bool
}

// BcryptAuthenticator one configured account with a bcrypt password hash
type BcryptAuthenticator struct {
	username string
	hash     []byte
}

// NewBcryptAuthenticator uses passwordHash when set and hashes the plaintext password otherwise
func NewBcryptAuthenticator(username, password, passwordHash string) (*BcryptAuthenticator, error) {
	if username == "" {
		return nil, errors.New("admin username is empty")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.Wrap(err, "invalid admin password hash")
		}
		return &BcryptAuthenticator{username: username, hash: []byte(passwordHash)}, nil
	}
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	if username == "admin" && password == "admin123" {
		zap.L().Warn("admin: default credentials in use, set admin.password_hash")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash admin password")
	}
	return &BcryptAuthenticator{username: username, hash: hash}, nil
}

func (a *BcryptAuthenticator) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}
