package store

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Storage keys
const (
	KeyCart         = "rgim.cart"
	KeyHistory      = "rgim.history"
	KeyAdminSession = "rgim.adminSession"
	KeyLang         = "rgim.lang"
)

type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusCorrupt
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusCorrupt:
		return "corrupt"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result outcome of a load or save. A non-OK result on load means the
// fallback was returned; on save it means the value lives only in memory.
type Result struct {
	Status Status `json:"status"`
	Err    error  `json:"-"`
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

func (r Result) FellBack() bool {
	return r.Status != StatusOK
}

// Store reads and writes JSON values by key. It never returns a hard error:
// failures are logged and reported through Result.
type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load decodes the value under key, or returns fallback when the key is missing or unreadable
func Load[T any](s *Store, key string, fallback T) (T, Result) {
	data, err := s.backend.Get(key)
	if errors.Is(err, ErrNotFound) {
		return fallback, Result{Status: StatusMissing}
	}
	if err != nil {
		zap.L().Warn("store: read failed", zap.String("key", key), zap.Error(err))
		return fallback, Result{Status: StatusFailed, Err: errors.Wrapf(err, "read %s", key)}
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		zap.L().Warn("store: stored value is not valid json", zap.String("key", key), zap.Error(err))
		return fallback, Result{Status: StatusCorrupt, Err: errors.Wrapf(err, "decode %s", key)}
	}
	return v, Result{Status: StatusOK}
}

// Save encodes value and writes it under key
func (s *Store) Save(key string, value interface{}) Result {
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Error("store: encode failed", zap.String("key", key), zap.Error(err))
		return Result{Status: StatusFailed, Err: errors.Wrapf(err, "encode %s", key)}
	}
	if err := s.backend.Put(key, data); err != nil {
		zap.L().Error("store: write failed", zap.String("key", key), zap.Int("bytes", len(data)), zap.Error(err))
		return Result{Status: StatusFailed, Err: errors.Wrapf(err, "write %s", key)}
	}
	return Result{Status: StatusOK}
}

func (s *Store) Remove(key string) Result {
	if err := s.backend.Delete(key); err != nil {
		zap.L().Error("store: delete failed", zap.String("key", key), zap.Error(err))
		return Result{Status: StatusFailed, Err: errors.Wrapf(err, "delete %s", key)}
	}
	return Result{Status: StatusOK}
}

func (s *Store) Close() error {
	return s.backend.Close()
}
