package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	maxSessions       = 100_000
	tokenBytes        = 32
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

type sessionRecord struct {
	AccountID uint64
	Username  string
}

type accountRecord struct {
	AccountID     uint64
	Username      string
	PasswordHash  []byte
	LastLoginTime time.Time
}

// Manager provides in-memory account management for single-binary
// deployment. Sessions live in an expiring LRU so tokens age out without a
// dedicated janitor goroutine.
type Manager struct {
	mu sync.Mutex

	nextAccountID uint64
	sessions      *expirable.LRU[string, sessionRecord]
	accountsByID  map[uint64]accountRecord
	accountsByKey map[string]uint64 // normalized username -> account
}

func NewManager() *Manager {
	return &Manager{
		nextAccountID: 100000, // start from a readable non-trivial range
		sessions:      expirable.NewLRU[string, sessionRecord](maxSessions, nil, defaultSessionTTL),
		accountsByID:  make(map[uint64]accountRecord),
		accountsByKey: make(map[string]uint64),
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

// Register creates a new account and returns an authenticated session token.
func (m *Manager) Register(username, password string) (accountID uint64, sessionToken string, err error) {
	if err = validateUsername(username); err != nil {
		return 0, "", err
	}
	if err = validatePassword(password); err != nil {
		return 0, "", err
	}

	normalized := normalizeUsername(username)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accountsByKey[normalized]; exists {
		return 0, "", ErrUsernameTaken
	}

	m.nextAccountID++
	accountID = m.nextAccountID
	m.accountsByID[accountID] = accountRecord{
		AccountID:     accountID,
		Username:      normalized,
		PasswordHash:  passwordHash,
		LastLoginTime: time.Now(),
	}
	m.accountsByKey[normalized] = accountID

	sessionToken = m.issueSession(accountID, normalized)
	return accountID, sessionToken, nil
}

// Login validates credentials and returns a fresh session token.
func (m *Manager) Login(username, password string) (accountID uint64, sessionToken string, err error) {
	normalized := normalizeUsername(username)
	if normalized == "" || password == "" {
		return 0, "", ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	accountID, exists := m.accountsByKey[normalized]
	if !exists {
		return 0, "", ErrInvalidCredentials
	}
	profile := m.accountsByID[accountID]
	if bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password)) != nil {
		return 0, "", ErrInvalidCredentials
	}

	profile.LastLoginTime = time.Now()
	m.accountsByID[accountID] = profile
	sessionToken = m.issueSession(accountID, normalized)
	return accountID, sessionToken, nil
}

// ResolveSession validates and refreshes a session token. Re-adding resets
// the LRU entry's TTL, giving sliding expiry.
func (m *Manager) ResolveSession(token string) (accountID uint64, username string, ok bool) {
	if token == "" {
		return 0, "", false
	}
	rec, exists := m.sessions.Get(token)
	if !exists {
		return 0, "", false
	}
	m.sessions.Add(token, rec)
	return rec.AccountID, rec.Username, true
}

// Logout invalidates a session token.
func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.sessions.Remove(token)
}

func (m *Manager) Close() error { return nil }

func (m *Manager) issueSession(accountID uint64, username string) string {
	token := mustToken()
	m.sessions.Add(token, sessionRecord{AccountID: accountID, Username: username})
	return token
}

func mustToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
