package models

import (
	"slices"
	"strings"
	"time"
)

// Category groups entries in the vault.
type Category string

const (
	CategorySocial   Category = "social"
	CategoryWork     Category = "work"
	CategoryFinance  Category = "finance"
	CategoryShopping Category = "shopping"
	CategoryOther    Category = "other"

	// CategoryAll is accepted by list filters only and matches everything.
	CategoryAll Category = "all"
)

var categories = []Category{CategorySocial, CategoryWork, CategoryFinance, CategoryShopping, CategoryOther}

// Valid reports whether c is one of the storable categories.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// PasswordEntry is a single stored credential. EncryptedPassword is only
// ever produced by cryptox.EncryptPassword.
type PasswordEntry struct {
	ID                string
	UserID            string
	Website           string
	Username          string
	EncryptedPassword string
	Category          Category
	Notes             string
	URL               string
	Tags              []string
	IsFavorite        bool
	LastModified      time.Time
	CreatedAt         time.Time
}

// EntryFilter narrows List results. Zero values mean no filtering.
type EntryFilter struct {
	Category Category
	Search   string
}

// ByCategory reports whether the filter restricts by category.
func (f EntryFilter) ByCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}

// Matches applies the filter to e: exact category, then a case-insensitive
// substring match against website, username, notes, or any tag.
func (f EntryFilter) Matches(e *PasswordEntry) bool {
	if f.ByCategory() && e.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}

	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(e.Website), q) ||
		strings.Contains(strings.ToLower(e.Username), q) ||
		strings.Contains(strings.ToLower(e.Notes), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
