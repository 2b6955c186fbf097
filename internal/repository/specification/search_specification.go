package specification

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds an ILIKE pattern that treats the user's query literally.
func contains(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// TextSearch matches title or content case-insensitively.
type TextSearch struct {
	Query string
}

func (s TextSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := contains(s.Query)
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

// ContentSearch is TextSearch for tables without a title.
type ContentSearch struct {
	Query string
}

func (s ContentSearch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content ILIKE ?", contains(s.Query))
}

// UserSearch backs the moderation console's user lookup.
type UserSearch struct {
	Query string
}

func (s UserSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := contains(s.Query)
	return db.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern)
}
