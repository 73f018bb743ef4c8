package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/cryptox"
	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/entries"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
)

const (
	msgEntryNotFound  = "Password not found"
	msgNotAuthorized  = "Not authorized"
	msgMasterRequired = "Master password is required"
	msgDecryptFailed  = "Failed to decrypt password. Invalid master password."
)

// CreateEntryInput is a new vault entry with its plaintext password.
type CreateEntryInput struct {
	Website        string
	Username       string
	Password       string
	MasterPassword string
	Category       models.Category
	Notes          string
	URL            string
	Tags           []string
	IsFavorite     bool
}

// UpdateEntryInput is a partial update. Nil fields are left unchanged.
// Website, Username and Category are also left unchanged when empty;
// Notes, URL and Tags may be cleared with an empty value.
type UpdateEntryInput struct {
	Website        *string
	Username       *string
	Password       *string
	MasterPassword *string
	Category       *models.Category
	Notes          *string
	URL            *string
	Tags           []string
	TagsSet        bool
	IsFavorite     *bool
}

// EntryService is the owner-checked vault. Only ciphertext is stored; the
// master password passes through on create, decrypt and re-encrypting
// updates and is never persisted.
type EntryService struct {
	repomanager repomanager.RepositoryManager
	now         Clock
	log         logging.Logger
}

func NewEntryService(m repomanager.RepositoryManager, log logging.Logger) *EntryService {
	return &EntryService{
		repomanager: m,
		now:         systemClock,
		log:         logging.ForModule(log, "entries"),
	}
}

func (s *EntryService) WithClock(c Clock) *EntryService {
	s.now = c
	return s
}

func (s *EntryService) repo() entries.Repository {
	return s.repomanager.Entries(s.repomanager.Conn())
}

func (s *EntryService) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.PasswordEntry, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := s.repo().List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return list, nil
}

func (s *EntryService) Create(ctx context.Context, userID string, in CreateEntryInput) (*models.PasswordEntry, error) {
	in.Website = strings.TrimSpace(in.Website)
	in.Username = strings.TrimSpace(in.Username)

	if in.Website == "" || in.Username == "" || in.Password == "" || in.MasterPassword == "" {
		return nil, common.NewValidationError("Website, username, password, and master password are required")
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if !in.Category.Valid() {
		return nil, invalidCategory(in.Category)
	}

	ciphertext, err := cryptox.EncryptPassword(in.Password, in.MasterPassword)
	if err != nil {
		return nil, fmt.Errorf("encrypt password: %w", err)
	}

	now := s.now()
	entry := &models.PasswordEntry{
		UserID:            userID,
		Website:           in.Website,
		Username:          in.Username,
		EncryptedPassword: ciphertext,
		Category:          in.Category,
		Notes:             strings.TrimSpace(in.Notes),
		URL:               strings.TrimSpace(in.URL),
		Tags:              cleanTags(in.Tags),
		IsFavorite:        in.IsFavorite,
		LastModified:      now,
		CreatedAt:         now,
	}

	created, err := s.repo().Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	s.log.Info(ctx, "entry created", "user_id", userID, "entry_id", created.ID)
	return created, nil
}

// Get returns common.ErrorNotFound for an unknown id and common.ErrForbidden
// when the entry belongs to someone else, in that order.
func (s *EntryService) Get(ctx context.Context, userID, id string) (*models.PasswordEntry, error) {
	return s.load(ctx, userID, id)
}

func (s *EntryService) Decrypt(ctx context.Context, userID, id, masterPassword string) (string, error) {
	if masterPassword == "" {
		return "", common.NewValidationError(msgMasterRequired)
	}

	entry, err := s.load(ctx, userID, id)
	if err != nil {
		return "", err
	}

	plaintext, err := cryptox.DecryptPassword(entry.EncryptedPassword, masterPassword)
	if err != nil {
		if errors.Is(err, common.ErrDecryption) {
			return "", common.NewError(common.ErrDecryption, msgDecryptFailed)
		}
		return "", fmt.Errorf("decrypt password: %w", err)
	}
	return plaintext, nil
}

// Update applies in to the entry. A new password must come with the master
// password; a master password alone changes nothing.
func (s *EntryService) Update(ctx context.Context, userID, id string, in UpdateEntryInput) (*models.PasswordEntry, error) {
	entry, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	newPassword := in.Password != nil && *in.Password != ""
	hasMaster := in.MasterPassword != nil && *in.MasterPassword != ""
	if newPassword && !hasMaster {
		return nil, common.NewValidationError("Master password is required to change the password")
	}

	if in.Website != nil && strings.TrimSpace(*in.Website) != "" {
		entry.Website = strings.TrimSpace(*in.Website)
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		entry.Username = strings.TrimSpace(*in.Username)
	}
	if in.Category != nil && *in.Category != "" {
		if !in.Category.Valid() {
			return nil, invalidCategory(*in.Category)
		}
		entry.Category = *in.Category
	}
	if in.Notes != nil {
		entry.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.URL != nil {
		entry.URL = strings.TrimSpace(*in.URL)
	}
	if in.TagsSet {
		entry.Tags = cleanTags(in.Tags)
	}
	if in.IsFavorite != nil {
		entry.IsFavorite = *in.IsFavorite
	}
	if newPassword {
		ciphertext, err := cryptox.EncryptPassword(*in.Password, *in.MasterPassword)
		if err != nil {
			return nil, fmt.Errorf("encrypt password: %w", err)
		}
		entry.EncryptedPassword = ciphertext
	}

	entry.LastModified = s.now()

	if err := s.repo().Update(ctx, entry); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgEntryNotFound)
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.load(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, msgEntryNotFound)
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	s.log.Info(ctx, "entry deleted", "user_id", userID, "entry_id", id)
	return nil
}

// load checks existence first and ownership second.
func (s *EntryService) load(ctx context.Context, userID, id string) (*models.PasswordEntry, error) {
	entry, err := s.repo().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, msgEntryNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != userID {
		s.log.Warn(ctx, "entry access denied", "user_id", userID, "entry_id", id)
		return nil, common.NewError(common.ErrForbidden, msgNotAuthorized)
	}
	return entry, nil
}

func invalidCategory(c models.Category) error {
	return common.NewValidationError(fmt.Sprintf("`%s` is not a valid category", c))
}

// cleanTags trims every tag and drops empty ones, keeping order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
