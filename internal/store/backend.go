package store

import "github.com/pkg/errors"

var (
	ErrNotFound      = errors.New("store: key not found")
	ErrQuotaExceeded = errors.New("store: quota exceeded")
)

// Backend raw byte storage keyed by string. Get returns ErrNotFound for a missing key.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
