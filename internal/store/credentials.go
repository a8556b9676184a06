package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jobhub/jobhub/internal/models"
)

// Credentials is the auth state that survives restarts.
type Credentials struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CredentialStorage persists the signed-in identity between runs.
type CredentialStorage interface {
	Save(Credentials) error
	Load() (*Credentials, error)
	Clear() error
}

// ErrNoCredentials means nothing is stored; callers treat it as signed-out.
var ErrNoCredentials = errors.New("no stored credentials")

// FileStorage keeps credentials in a JSON file, mode 0600.
type FileStorage struct {
	Path string
}

// DefaultFileStorage stores under the user config dir.
func DefaultFileStorage() (*FileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileStorage{Path: filepath.Join(dir, "jobhub", "credentials.json")}, nil
}

func (f *FileStorage) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f *FileStorage) Load() (*Credentials, error) {
	raw, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, ErrNoCredentials
	} else if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (f *FileStorage) Clear() error {
	err := os.Remove(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStorage is the test double.
type MemoryStorage struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(creds Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &creds
	return nil
}

func (m *MemoryStorage) Load() (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, ErrNoCredentials
	}
	c := *m.creds
	return &c, nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}
