package client

import (
	"context"
	"time"
)

type Client interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout()
	LoggedIn() bool

	VerifyMaster(ctx context.Context, masterPassword string) error
	Session(ctx context.Context) (*SessionInfo, error)
	Profile(ctx context.Context) (*Profile, error)

	ListPasswords(ctx context.Context, category, search string) ([]*Entry, error)
	CreatePassword(ctx context.Context, in CreateEntry) (*Entry, error)
	GetPassword(ctx context.Context, id string) (*Entry, error)
	UpdatePassword(ctx context.Context, id string, in UpdateEntry) (*Entry, error)
	DeletePassword(ctx context.Context, id string) error
	DecryptPassword(ctx context.Context, id, masterPassword string) (string, error)
	Export(ctx context.Context) (*ExportInfo, error)

	Ping(ctx context.Context) error
}

type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	MasterPassword  string `json:"masterPassword"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResult struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	User      User   `json:"user"`
}

// SessionInfo is the server view of the current login session.
type SessionInfo struct {
	ID            string
	LoginTime     time.Time
	ExpiryTime    time.Time
	TimeRemaining time.Duration
}

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entry is a vault entry as returned by the server. The password is only
// available in encrypted form; use DecryptPassword to reveal it.
type Entry struct {
	ID                string    `json:"_id"`
	User              string    `json:"user"`
	Website           string    `json:"website"`
	Username          string    `json:"username"`
	EncryptedPassword string    `json:"encryptedPassword"`
	Category          string    `json:"category"`
	Notes             string    `json:"notes"`
	URL               string    `json:"url"`
	Tags              []string  `json:"tags"`
	IsFavorite        bool      `json:"isFavorite"`
	LastModified      time.Time `json:"lastModified"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateEntry struct {
	Website        string   `json:"website"`
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	MasterPassword string   `json:"masterPassword"`
	Category       string   `json:"category,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	URL            string   `json:"url,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	IsFavorite     bool     `json:"isFavorite,omitempty"`
}

// UpdateEntry is a partial update; nil fields are not sent.
type UpdateEntry struct {
	Website        *string   `json:"website,omitempty"`
	Username       *string   `json:"username,omitempty"`
	Password       *string   `json:"password,omitempty"`
	MasterPassword *string   `json:"masterPassword,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	URL            *string   `json:"url,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	IsFavorite     *bool     `json:"isFavorite,omitempty"`
}

type ExportInfo struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}
