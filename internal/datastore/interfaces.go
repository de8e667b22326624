// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/birdlog/birding-go/internal/conf"
	"github.com/birdlog/birding-go/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Interface abstracts the underlying database implementation and defines the
// operations available to the web layer.
type Interface interface {
	Open() error
	Close() error
	// users
	CreateUser(user *User) error
	GetUser(id string) (User, error)
	GetUserByEmail(email string) (User, error)
	// reference data
	GetAllSpecies() ([]Species, error)
	GetAllBehaviors() ([]Behavior, error)
	// notes
	SaveNote(note *Note, behaviorIDs []uint) error
	GetNote(id string) (Note, error)
	GetAllNotes() ([]Note, error)
	GetNotesByUser(userID uint) ([]Note, error)
	UpdateNote(note *Note, behaviorIDs []uint) error
	DeleteNote(id string) error
	ReplaceBehaviors(noteID uint, behaviorIDs []uint) error
	// comments
	SaveComment(comment *Comment) error
	GetNoteComments(noteID uint) ([]Comment, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("getting generic database interface: %w", err)
	}
	return sqlDB.Close()
}

// CreateUser inserts a new user. Emails are stored lowercased so lookups are
// case-insensitive; a duplicate email surfaces as a conflict error.
func (ds *DataStore) CreateUser(user *User) error {
	user.Email = strings.ToLower(user.Email)
	if user.Email == "" {
		return validationError("email must not be empty", "email", user.Email)
	}
	if user.Password == "" {
		return validationError("password digest must not be empty", "password", "")
	}
	if err := ds.DB.Create(user).Error; err != nil {
		// Both stores open with TranslateError, so a unique violation
		// surfaces as ErrDuplicatedKey on every dialect.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflictError(err, "email already registered", "email", user.Email)
		}
		return dbError(err, "create_user", "email", user.Email)
	}
	return nil
}

// GetUser retrieves a user by its ID.
func (ds *DataStore) GetUser(id string) (User, error) {
	userID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return User{}, notFoundError("user", id)
	}

	var user User
	if err := ds.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, notFoundError("user", id)
		}
		return User{}, dbError(err, "get_user", "user_id", userID)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (ds *DataStore) GetUserByEmail(email string) (User, error) {
	var user User
	err := ds.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, notFoundError("user", email)
		}
		return User{}, dbError(err, "get_user_by_email")
	}
	return user, nil
}

// GetAllSpecies retrieves the species reference list ordered by name.
func (ds *DataStore) GetAllSpecies() ([]Species, error) {
	var species []Species
	if err := ds.DB.Order("name").Find(&species).Error; err != nil {
		return nil, dbError(err, "get_all_species")
	}
	return species, nil
}

// GetAllBehaviors retrieves the behavior reference list ordered by label.
func (ds *DataStore) GetAllBehaviors() ([]Behavior, error) {
	var behaviors []Behavior
	if err := ds.DB.Order("behavior").Find(&behaviors).Error; err != nil {
		return nil, dbError(err, "get_all_behaviors")
	}
	return behaviors, nil
}

// SaveNote stores a note and its behavior associations as a single
// transaction in the database.
func (ds *DataStore) SaveNote(note *Note, behaviorIDs []uint) error {
	if err := note.Validate(); err != nil {
		return err
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		// Omit associations so GORM does not auto-save them, association
		// rows are written by replaceBehaviors below.
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return dbError(err, "save_note", "user_id", note.UserID)
		}
		return replaceBehaviors(tx, note.ID, behaviorIDs)
	})
}

// GetNote retrieves a note by its ID with owner, species and behavior tags
// preloaded. A malformed id is reported the same way as a missing row.
func (ds *DataStore) GetNote(id string) (Note, error) {
	noteID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return Note{}, notFoundError("note", id)
	}

	var note Note
	err = ds.DB.
		Preload("User").
		Preload("Species").
		Preload("Behaviors").
		First(&note, noteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Note{}, notFoundError("note", id)
		}
		return Note{}, dbError(err, "get_note", "note_id", noteID)
	}
	return note, nil
}

// GetAllNotes retrieves all notes with owner and species preloaded, in
// storage order.
func (ds *DataStore) GetAllNotes() ([]Note, error) {
	var notes []Note
	err := ds.DB.
		Preload("User").
		Preload("Species").
		Preload("Behaviors").
		Find(&notes).Error
	if err != nil {
		return nil, dbError(err, "get_all_notes")
	}
	return notes, nil
}

// GetNotesByUser retrieves the notes owned by the given user, in storage
// order. Authorization is the caller's responsibility.
func (ds *DataStore) GetNotesByUser(userID uint) ([]Note, error) {
	var notes []Note
	err := ds.DB.
		Preload("User").
		Preload("Species").
		Preload("Behaviors").
		Where("user_id = ?", userID).
		Find(&notes).Error
	if err != nil {
		return nil, dbError(err, "get_notes_by_user", "user_id", userID)
	}
	return notes, nil
}

// UpdateNote applies new field values to an existing note and replaces its
// behavior set, as a single transaction. The owner column is never updated.
func (ds *DataStore) UpdateNote(note *Note, behaviorIDs []uint) error {
	if err := note.Validate(); err != nil {
		return err
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		// Existence is checked with a read rather than inferred from the
		// update's row count: MySQL reports changed rows, not matched rows,
		// so a no-op edit would otherwise look like a missing note.
		var existing Note
		if err := tx.First(&existing, note.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("note", note.ID)
			}
			return dbError(err, "update_note", "note_id", note.ID)
		}

		err := tx.Model(&Note{}).
			Where("id = ?", note.ID).
			Select("habitat", "date", "appearance", "vocalisations", "flock_size", "species_id").
			Updates(map[string]any{
				"habitat":       note.Habitat,
				"date":          note.Date,
				"appearance":    note.Appearance,
				"vocalisations": note.Vocalisations,
				"flock_size":    note.FlockSize,
				"species_id":    note.SpeciesID,
			}).Error
		if err != nil {
			return dbError(err, "update_note", "note_id", note.ID)
		}
		return replaceBehaviors(tx, note.ID, behaviorIDs)
	})
}

// DeleteNote removes a note together with its behavior associations and
// comments. Dependent rows are cascade-deleted in the same transaction so
// no orphaned join rows are left behind.
func (ds *DataStore) DeleteNote(id string) error {
	noteID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return notFoundError("note", id)
	}

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var note Note
		if err := tx.First(&note, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("note", id)
			}
			return dbError(err, "delete_note", "note_id", noteID)
		}
		if err := tx.Where("note_id = ?", noteID).Delete(&NoteBehavior{}).Error; err != nil {
			return dbError(err, "delete_note_behaviors", "note_id", noteID)
		}
		if err := tx.Where("note_id = ?", noteID).Delete(&Comment{}).Error; err != nil {
			return dbError(err, "delete_note_comments", "note_id", noteID)
		}
		if err := tx.Delete(&Note{}, noteID).Error; err != nil {
			return dbError(err, "delete_note", "note_id", noteID)
		}
		return nil
	})
}

// ReplaceBehaviors rewrites the behavior set of a note inside its own
// transaction. An empty id list leaves the note with zero tags.
func (ds *DataStore) ReplaceBehaviors(noteID uint, behaviorIDs []uint) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		return replaceBehaviors(tx, noteID, behaviorIDs)
	})
}

// replaceBehaviors deletes every existing association row for the note and
// inserts one row per supplied behavior id. This is intentionally a full
// replace, not a diff; the surrounding transaction keeps readers from
// observing the intermediate empty set. Duplicate ids collapse to one row.
func replaceBehaviors(tx *gorm.DB, noteID uint, behaviorIDs []uint) error {
	if err := tx.Where("note_id = ?", noteID).Delete(&NoteBehavior{}).Error; err != nil {
		return dbError(err, "delete_note_behaviors", "note_id", noteID)
	}

	seen := make(map[uint]struct{}, len(behaviorIDs))
	for _, behaviorID := range behaviorIDs {
		if _, ok := seen[behaviorID]; ok {
			continue
		}
		seen[behaviorID] = struct{}{}

		link := NoteBehavior{NoteID: noteID, BehaviorID: behaviorID}
		if err := tx.Create(&link).Error; err != nil {
			return dbError(err, "insert_note_behavior", "note_id", noteID, "behavior_id", behaviorID)
		}
	}
	return nil
}

// SaveComment appends a comment to a note. The creation time is assigned by
// the database layer, not the client. Empty text is rejected.
func (ds *DataStore) SaveComment(comment *Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	if err := ds.DB.Omit(clause.Associations).Create(comment).Error; err != nil {
		return dbError(err, "save_comment", "note_id", comment.NoteID)
	}
	return nil
}

// GetNoteComments retrieves the comments of a note newest first, with the
// author preloaded.
func (ds *DataStore) GetNoteComments(noteID uint) ([]Comment, error) {
	var comments []Comment
	err := ds.DB.
		Preload("User").
		Where("note_id = ?", noteID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, dbError(err, "get_note_comments", "note_id", noteID)
	}
	return comments, nil
}
