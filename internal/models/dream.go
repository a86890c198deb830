package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is an ordered list of strings persisted as a JSONB array.
// A NULL column scans into an empty list.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// DreamDB represents a dream row in the database
type DreamDB struct {
	DreamID     uuid.UUID  `json:"id" db:"dream_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Date        string     `json:"date" db:"dream_date"` // YYYY-MM-DD
	Tags        StringList `json:"tags" db:"tags"`
	Themes      StringList `json:"themes" db:"themes"`
	IsLucid     bool       `json:"is_lucid" db:"is_lucid"`
	IsPublic    bool       `json:"is_public" db:"is_public"`
	ShareID     *string    `json:"share_id" db:"share_id"`
	AIInsight   *string    `json:"ai_insight" db:"ai_insight"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// HasInsight reports whether an AI insight was generated for the dream.
func (d *DreamDB) HasInsight() bool {
	return d.AIInsight != nil && *d.AIInsight != ""
}

// PublicDreamDB is a shared dream joined with its author's name.
type PublicDreamDB struct {
	DreamDB
	AuthorName string `json:"author_name" db:"author_name"`
}

// DreamPatch carries a partial dream update; nil fields are left unchanged.
type DreamPatch struct {
	Title       *string
	Description *string
	Date        *string
	Tags        *[]string
	Themes      *[]string
	IsLucid     *bool
	IsPublic    *bool
}

// DreamFilter narrows dream scans and counts. Nil fields are not applied.
type DreamFilter struct {
	UserID   uuid.UUID
	DateFrom *string // inclusive
	DateTo   *string // exclusive
	IsLucid  *bool
}
