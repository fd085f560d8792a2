package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("no user logged in")
)

// User is a locally registered account. The password hash is deliberately
// non-cryptographic; it only keeps casual eyes off the stored value and the
// identity is advisory either way.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"createdAt"`
	DisplayName  string    `json:"displayName,omitempty"`
}

// Registry stores users, the current session, and the durable device
// identity in plain files under a data directory.
type Registry struct {
	dir string
}

func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

func (r *Registry) usersPath() string   { return filepath.Join(r.dir, "users.json") }
func (r *Registry) sessionPath() string { return filepath.Join(r.dir, "session") }
func (r *Registry) devicePath() string  { return filepath.Join(r.dir, "device_id") }

func simpleHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

func (r *Registry) loadUsers() ([]User, error) {
	data, err := os.ReadFile(r.usersPath())
	if os.IsNotExist(err) {
		return []User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return users, nil
}

func (r *Registry) saveUsers(users []User) error {
	if err := os.MkdirAll(r.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize users: %w", err)
	}
	if err := os.WriteFile(r.usersPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write users: %w", err)
	}
	return nil
}

// Register creates a new local account and logs it in.
func (r *Registry) Register(username, password string) (User, error) {
	if len(username) < 3 {
		return User{}, errors.New("username must be at least 3 characters long")
	}
	if len(password) < 4 {
		return User{}, errors.New("password must be at least 4 characters long")
	}

	users, err := r.loadUsers()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return User{}, ErrUsernameTaken
		}
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: simpleHash(password),
		CreatedAt:    time.Now().UTC(),
		DisplayName:  username,
	}
	users = append(users, user)
	if err := r.saveUsers(users); err != nil {
		return User{}, err
	}
	if err := r.setSession(username); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies the password hash and records the session.
func (r *Registry) Login(username, password string) (User, error) {
	users, err := r.loadUsers()
	if err != nil {
		return User{}, err
	}
	hashed := simpleHash(password)
	for _, u := range users {
		if strings.EqualFold(u.Username, username) && u.PasswordHash == hashed {
			if err := r.setSession(u.Username); err != nil {
				return User{}, err
			}
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Logout clears the current session.
func (r *Registry) Logout() error {
	err := os.Remove(r.sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the logged-in user, or ErrNotLoggedIn.
func (r *Registry) Current() (User, error) {
	data, err := os.ReadFile(r.sessionPath())
	if os.IsNotExist(err) {
		return User{}, ErrNotLoggedIn
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to read session: %w", err)
	}
	username := strings.TrimSpace(string(data))

	users, err := r.loadUsers()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	// Stale session pointing at a removed user.
	_ = r.Logout()
	return User{}, ErrNotLoggedIn
}

func (r *Registry) setSession(username string) error {
	if err := os.MkdirAll(r.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(r.sessionPath(), []byte(username), 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// DeviceID returns the durable per-device identity used to scope data when no
// registered user is logged in, generating and persisting one on first use.
func (r *Registry) DeviceID() (string, error) {
	data, err := os.ReadFile(r.devicePath())
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id := "user_" + uuid.NewString()
	if err := os.MkdirAll(r.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(r.devicePath(), []byte(id), 0600); err != nil {
		return "", fmt.Errorf("failed to write device id: %w", err)
	}
	return id, nil
}

// Scope returns the key under which the current session's data lives: the
// logged-in username, or the device identity.
func (r *Registry) Scope() (string, error) {
	user, err := r.Current()
	if err == nil {
		return user.Username, nil
	}
	if !errors.Is(err, ErrNotLoggedIn) {
		return "", err
	}
	return r.DeviceID()
}
