// model.go this code defines the data model for the application
package datastore

import (
	"strings"
	"time"
)

// User represents an account that owns notes and comments
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"` // stored lowercased
	Password  string `gorm:"not null"`             // bcrypt digest, never the plaintext
	CreatedAt time.Time
}

// Species is static reference data describing a bird species
type Species struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"index:idx_species_name"`
	ScientificName string
}

// Behavior is static reference data describing an observed behavior
type Behavior struct {
	ID    uint   `gorm:"primaryKey"`
	Label string `gorm:"column:behavior;index:idx_behaviors_behavior"`
}

// Note represents a single bird sighting record
type Note struct {
	ID            uint `gorm:"primaryKey"`
	Habitat       string
	Date          string `gorm:"index:idx_notes_date"` // YYYY-MM-DD
	Appearance    string
	Vocalisations string
	FlockSize     int
	UserID        uint  `gorm:"index;not null"` // owner, immutable after creation
	SpeciesID     *uint `gorm:"index"`

	User      User       `gorm:"foreignKey:UserID"`
	Species   *Species   `gorm:"foreignKey:SpeciesID"`
	Behaviors []Behavior `gorm:"many2many:behaviors_notes"`
	Comments  []Comment  `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}

// NoteBehavior links a note to a behavior tag. The composite primary key
// keeps the behavior set duplicate free.
type NoteBehavior struct {
	NoteID     uint `gorm:"primaryKey"`
	BehaviorID uint `gorm:"primaryKey"`
}

// TableName keeps the join table name used by the notes many2many relation.
func (NoteBehavior) TableName() string {
	return "behaviors_notes"
}

// Comment represents a user comment on a note
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	NoteID    uint      `gorm:"index;not null"` // Foreign key to associate with Note
	UserID    uint      `gorm:"index;not null"` // Foreign key to the comment author
	Entry     string    `gorm:"type:text"`      // The actual comment text
	CreatedAt time.Time `gorm:"index"`          // When the comment was created, server-assigned

	User User `gorm:"foreignKey:UserID"`
}

// DateLayout is the encoding used for note dates. Lexicographic order of
// this layout is chronological order, which the list sorter relies on.
const DateLayout = "2006-01-02"

// Validate checks the write-time invariants of a note: the date must parse
// as a calendar date and must not be in the future, and the flock size must
// not be negative.
func (n *Note) Validate() error {
	date, err := time.Parse(DateLayout, n.Date)
	if err != nil {
		return validationError("invalid note date", "date", n.Date)
	}
	if date.After(time.Now()) {
		return validationError("note date must not be in the future", "date", n.Date)
	}
	if n.FlockSize < 0 {
		return validationError("flock size must not be negative", "flock_size", n.FlockSize)
	}
	return nil
}

// SpeciesName returns the name of the associated species, or an empty
// string when the note has none.
func (n *Note) SpeciesName() string {
	if n.Species == nil {
		return ""
	}
	return n.Species.Name
}

// IsOwnedBy reports whether userID is the owner of the note. Ownership is
// the sole authorization boundary for edit and delete.
func (n *Note) IsOwnedBy(userID uint) bool {
	return n.UserID == userID
}

// Validate rejects empty comment text.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Entry) == "" {
		return validationError("comment text must not be empty", "entry", c.Entry)
	}
	return nil
}
