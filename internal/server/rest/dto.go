package rest

import (
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
)

// messageResponse is used for both errors and plain acknowledgements.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	MasterPassword  string `json:"masterPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type masterPasswordRequest struct {
	MasterPassword string `json:"masterPassword"`
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token"`
	SessionID string      `json:"sessionId"`
	User      userSummary `json:"user"`
}

type sessionView struct {
	ID            string    `json:"id"`
	LoginTime     time.Time `json:"loginTime"`
	ExpiryTime    time.Time `json:"expiryTime"`
	TimeRemaining int64     `json:"timeRemaining"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Session sessionView `json:"session"`
	} `json:"data"`
}

type profileView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileResponse struct {
	Success bool `json:"success"`
	Data    struct {
		User profileView `json:"user"`
	} `json:"data"`
}

// entryView is the wire form of a vault entry.
type entryView struct {
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

func toEntryView(e *models.PasswordEntry) entryView {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return entryView{
		ID:                e.ID,
		User:              e.UserID,
		Website:           e.Website,
		Username:          e.Username,
		EncryptedPassword: e.EncryptedPassword,
		Category:          string(e.Category),
		Notes:             e.Notes,
		URL:               e.URL,
		Tags:              tags,
		IsFavorite:        e.IsFavorite,
		LastModified:      e.LastModified,
		CreatedAt:         e.CreatedAt,
	}
}

type listResponse struct {
	Success   bool        `json:"success"`
	Count     int         `json:"count"`
	Passwords []entryView `json:"passwords"`
}

type entryResponse struct {
	Success  bool      `json:"success"`
	Password entryView `json:"password"`
}

type createEntryRequest struct {
	Website        string   `json:"website"`
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	MasterPassword string   `json:"masterPassword"`
	Category       string   `json:"category"`
	Notes          string   `json:"notes"`
	URL            string   `json:"url"`
	Tags           []string `json:"tags"`
	IsFavorite     bool     `json:"isFavorite"`
}

// updateEntryRequest uses pointers so absent fields can be told apart from
// empty ones.
type updateEntryRequest struct {
	Website        *string   `json:"website"`
	Username       *string   `json:"username"`
	Password       *string   `json:"password"`
	MasterPassword *string   `json:"masterPassword"`
	Category       *string   `json:"category"`
	Notes          *string   `json:"notes"`
	URL            *string   `json:"url"`
	Tags           *[]string `json:"tags"`
	IsFavorite     *bool     `json:"isFavorite"`
}

type decryptResponse struct {
	Success  bool   `json:"success"`
	Password string `json:"password"`
}

type exportResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	URL     string `json:"url"`
	Count   int    `json:"count"`
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
