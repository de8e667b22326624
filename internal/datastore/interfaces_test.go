package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdlog/birding-go/internal/conf"
)

// createDatabase initializes a temporary database for testing purposes.
// It ensures the database connection is opened and handles potential errors.
func createDatabase(t *testing.T, settings *conf.Settings) Interface {
	t.Helper()
	if settings == nil {
		settings = &conf.Settings{}
	}
	tempDir := t.TempDir()
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = tempDir + "/test.db"

	dataStore := New(settings)

	// Attempt to open a database connection.
	require.NoError(t, dataStore.Open(), "Failed to open database")

	// Ensure the database is closed after the test completes.
	t.Cleanup(func() {
		assert.NoError(t, dataStore.Close(), "Failed to close datastore")
	})

	return dataStore
}

// createTestUser stores a user with the given email and returns it.
func createTestUser(t *testing.T, ds Interface, email string) *User {
	t.Helper()
	user := &User{Email: email, Password: "not-a-real-hash"}
	require.NoError(t, ds.CreateUser(user), "Failed to create user")
	return user
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	user := createTestUser(t, ds, "Birder@Example.COM")
	assert.Equal(t, "birder@example.com", user.Email)

	// Lookup is case-insensitive because the stored value is lowercased.
	found, err := ds.GetUserByEmail("BIRDER@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	createTestUser(t, ds, "dupe@example.com")

	err := ds.CreateUser(&User{Email: "DUPE@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsConflict(err), "expected a conflict error, got: %v", err)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	user := createTestUser(t, ds, "birder@example.com")

	found, err := ds.GetUser("1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = ds.GetUser("99")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = ds.GetUser("not-a-number")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetUserByEmailNotFound(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	_, err := ds.GetUserByEmail("nobody@example.com")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestReferenceDataSeeded(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	species, err := ds.GetAllSpecies()
	require.NoError(t, err)
	assert.NotEmpty(t, species, "expected seeded species")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)
	assert.NotEmpty(t, behaviors, "expected seeded behaviors")
}

func TestSaveNoteRoundTrip(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	species, err := ds.GetAllSpecies()
	require.NoError(t, err)
	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(behaviors), 2)

	note := &Note{
		Habitat:       "mangrove boardwalk",
		Date:          "2025-06-14",
		Appearance:    "grey crown, white belly",
		Vocalisations: "sharp double whistle",
		FlockSize:     4,
		UserID:        user.ID,
		SpeciesID:     &species[0].ID,
	}
	require.NoError(t, ds.SaveNote(note, []uint{behaviors[0].ID, behaviors[1].ID}))
	require.NotZero(t, note.ID)

	got, err := ds.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "mangrove boardwalk", got.Habitat)
	assert.Equal(t, "2025-06-14", got.Date)
	assert.Equal(t, 4, got.FlockSize)
	assert.Equal(t, user.Email, got.User.Email)
	require.NotNil(t, got.Species)
	assert.Equal(t, species[0].Name, got.Species.Name)
	assert.Len(t, got.Behaviors, 2)
}

func TestSaveNoteDeduplicatesBehaviors(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)

	note := &Note{
		Habitat: "canal edge",
		Date:    "2025-06-14",
		UserID:  user.ID,
	}
	dup := behaviors[0].ID
	require.NoError(t, ds.SaveNote(note, []uint{dup, dup, dup}))

	got, err := ds.GetNote("1")
	require.NoError(t, err)
	assert.Len(t, got.Behaviors, 1)
}

func TestSaveNoteRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	testCases := []struct {
		name string
		note Note
	}{
		{"malformed date", Note{Date: "14/06/2025", UserID: user.ID}},
		{"future date", Note{Date: "2999-01-01", UserID: user.ID}},
		{"negative flock size", Note{Date: "2025-06-14", FlockSize: -1, UserID: user.ID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			note := tc.note
			err := ds.SaveNote(&note, nil)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got: %v", err)
		})
	}

	// Nothing should have been stored.
	notes, err := ds.GetAllNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUpdateNoteReplacesBehaviorSet(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(behaviors), 3)

	note := &Note{Habitat: "reservoir", Date: "2025-06-14", UserID: user.ID}
	require.NoError(t, ds.SaveNote(note, []uint{behaviors[0].ID, behaviors[1].ID}))

	updated := &Note{
		ID:        note.ID,
		Habitat:   "reservoir edge",
		Date:      "2025-06-15",
		FlockSize: 2,
	}
	require.NoError(t, ds.UpdateNote(updated, []uint{behaviors[2].ID}))

	got, err := ds.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "reservoir edge", got.Habitat)
	assert.Equal(t, "2025-06-15", got.Date)
	require.Len(t, got.Behaviors, 1)
	assert.Equal(t, behaviors[2].ID, got.Behaviors[0].ID)
	// Ownership is never changed by an update.
	assert.Equal(t, user.ID, got.UserID)
}

func TestUpdateNoteIdenticalValuesSucceeds(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(behaviors), 2)

	note := &Note{Habitat: "estuary", Date: "2025-06-14", FlockSize: 5, UserID: user.ID}
	require.NoError(t, ds.SaveNote(note, []uint{behaviors[0].ID}))

	// Re-submitting an edit with unchanged field values must not be
	// mistaken for a missing note, and the behavior set must still be
	// replaced.
	identical := &Note{
		ID:        note.ID,
		Habitat:   note.Habitat,
		Date:      note.Date,
		FlockSize: note.FlockSize,
	}
	require.NoError(t, ds.UpdateNote(identical, []uint{behaviors[1].ID}))

	got, err := ds.GetNote("1")
	require.NoError(t, err)
	assert.Equal(t, "estuary", got.Habitat)
	require.Len(t, got.Behaviors, 1)
	assert.Equal(t, behaviors[1].ID, got.Behaviors[0].ID)
}

func TestUpdateNoteEmptyBehaviorsClearsSet(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)

	note := &Note{Habitat: "park", Date: "2025-06-14", UserID: user.ID}
	require.NoError(t, ds.SaveNote(note, []uint{behaviors[0].ID}))

	updated := &Note{ID: note.ID, Habitat: "park", Date: "2025-06-14"}
	require.NoError(t, ds.UpdateNote(updated, nil))

	got, err := ds.GetNote("1")
	require.NoError(t, err)
	assert.Empty(t, got.Behaviors)
}

func TestUpdateNoteMissingID(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	note := &Note{ID: 42, Habitat: "nowhere", Date: "2025-06-14"}
	err := ds.UpdateNote(note, nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDeleteNoteCascades(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	owner := createTestUser(t, ds, "owner@example.com")
	commenter := createTestUser(t, ds, "commenter@example.com")

	behaviors, err := ds.GetAllBehaviors()
	require.NoError(t, err)

	note := &Note{Habitat: "wetland", Date: "2025-06-14", UserID: owner.ID}
	require.NoError(t, ds.SaveNote(note, []uint{behaviors[0].ID}))
	require.NoError(t, ds.SaveComment(&Comment{NoteID: note.ID, UserID: commenter.ID, Entry: "Nice find!"}))

	require.NoError(t, ds.DeleteNote("1"))

	_, err = ds.GetNote("1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	comments, err := ds.GetNoteComments(note.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteNoteMissingID(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	err := ds.DeleteNote("99")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetNoteMalformedID(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)

	_, err := ds.GetNote("not-a-number")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetNotesByUser(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	alice := createTestUser(t, ds, "alice@example.com")
	bob := createTestUser(t, ds, "bob@example.com")

	require.NoError(t, ds.SaveNote(&Note{Habitat: "garden", Date: "2025-06-10", UserID: alice.ID}, nil))
	require.NoError(t, ds.SaveNote(&Note{Habitat: "forest", Date: "2025-06-11", UserID: bob.ID}, nil))
	require.NoError(t, ds.SaveNote(&Note{Habitat: "coast", Date: "2025-06-12", UserID: alice.ID}, nil))

	notes, err := ds.GetNotesByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, alice.ID, n.UserID)
	}
}

func TestCommentsOrderedNewestFirst(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	note := &Note{Habitat: "ridge trail", Date: "2025-06-14", UserID: user.ID}
	require.NoError(t, ds.SaveNote(note, nil))

	for _, entry := range []string{"first", "second", "third"} {
		require.NoError(t, ds.SaveComment(&Comment{NoteID: note.ID, UserID: user.ID, Entry: entry}))
	}

	comments, err := ds.GetNoteComments(note.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Entry)
	assert.Equal(t, "first", comments[2].Entry)
	assert.Equal(t, user.Email, comments[0].User.Email)
}

func TestSaveCommentRejectsEmptyEntry(t *testing.T) {
	t.Parallel()
	ds := createDatabase(t, nil)
	user := createTestUser(t, ds, "owner@example.com")

	note := &Note{Habitat: "quarry", Date: "2025-06-14", UserID: user.ID}
	require.NoError(t, ds.SaveNote(note, nil))

	err := ds.SaveComment(&Comment{NoteID: note.ID, UserID: user.ID, Entry: "   "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
