package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortFixture() []Note {
	return []Note{
		{ID: 1, Date: "2025-06-14", FlockSize: 3, Habitat: "wetland", User: User{Email: "carol@example.com"}},
		{ID: 2, Date: "2025-06-10", FlockSize: 12, Habitat: "forest", User: User{Email: "alice@example.com"}},
		{ID: 3, Date: "2025-06-12", FlockSize: 1, Habitat: "garden", User: User{Email: "bob@example.com"}},
	}
}

func TestSortNotesByDate(t *testing.T) {
	t.Parallel()

	notes := sortFixture()
	SortNotes(notes, "date", SortAscending)
	assert.Equal(t, []uint{2, 3, 1}, noteIDs(notes))

	SortNotes(notes, "date", SortDescending)
	assert.Equal(t, []uint{1, 3, 2}, noteIDs(notes))
}

func TestSortNotesByFlockSize(t *testing.T) {
	t.Parallel()

	notes := sortFixture()
	SortNotes(notes, "flockSize", SortAscending)
	assert.Equal(t, []uint{3, 1, 2}, noteIDs(notes))
}

func TestSortNotesByOwnerEmail(t *testing.T) {
	t.Parallel()

	notes := sortFixture()
	SortNotes(notes, "email", SortDescending)
	assert.Equal(t, []uint{1, 3, 2}, noteIDs(notes))
}

func TestSortNotesBySpeciesHandlesMissing(t *testing.T) {
	t.Parallel()

	notes := []Note{
		{ID: 1, Species: &Species{Name: "Javan Myna"}},
		{ID: 2},
		{ID: 3, Species: &Species{Name: "Asian Koel"}},
	}
	SortNotes(notes, "species", SortAscending)
	// Notes without a species sort first on the empty name.
	assert.Equal(t, []uint{2, 3, 1}, noteIDs(notes))
}

func TestSortNotesUnknownFieldPreservesOrder(t *testing.T) {
	t.Parallel()

	notes := sortFixture()
	SortNotes(notes, "plumage", SortAscending)
	assert.Equal(t, []uint{1, 2, 3}, noteIDs(notes))

	SortNotes(notes, "", "")
	assert.Equal(t, []uint{1, 2, 3}, noteIDs(notes))
}

func TestSortNotesStable(t *testing.T) {
	t.Parallel()

	notes := []Note{
		{ID: 1, Date: "2025-06-14"},
		{ID: 2, Date: "2025-06-14"},
		{ID: 3, Date: "2025-06-10"},
	}
	SortNotes(notes, "date", SortAscending)
	// Equal dates keep their original relative order.
	assert.Equal(t, []uint{3, 1, 2}, noteIDs(notes))
}

func TestSortSpecies(t *testing.T) {
	t.Parallel()

	species := []Species{
		{ID: 1, Name: "Javan Myna", ScientificName: "Acridotheres javanicus"},
		{ID: 2, Name: "Asian Koel", ScientificName: "Eudynamys scolopaceus"},
		{ID: 3, Name: "House Crow", ScientificName: "Corvus splendens"},
	}

	SortSpecies(species, "name", SortAscending)
	assert.Equal(t, "Asian Koel", species[0].Name)
	assert.Equal(t, "Javan Myna", species[2].Name)

	SortSpecies(species, "scientificName", SortDescending)
	assert.Equal(t, "Eudynamys scolopaceus", species[0].ScientificName)

	// Unknown keys leave the list untouched.
	before := []uint{species[0].ID, species[1].ID, species[2].ID}
	SortSpecies(species, "wingspan", SortAscending)
	assert.Equal(t, before, []uint{species[0].ID, species[1].ID, species[2].ID})
}

func TestSortBehaviors(t *testing.T) {
	t.Parallel()

	behaviors := []Behavior{
		{ID: 1, Label: "Singing"},
		{ID: 2, Label: "Bathing"},
		{ID: 3, Label: "Foraging"},
	}

	SortBehaviors(behaviors, "behavior", SortAscending)
	assert.Equal(t, "Bathing", behaviors[0].Label)
	assert.Equal(t, "Singing", behaviors[2].Label)

	SortBehaviors(behaviors, "behavior", SortDescending)
	assert.Equal(t, "Singing", behaviors[0].Label)
}

func TestSortableNoteFields(t *testing.T) {
	t.Parallel()

	fields := SortableNoteFields()
	require.NotEmpty(t, fields)
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "flockSize")
}

func noteIDs(notes []Note) []uint {
	ids := make([]uint, 0, len(notes))
	for i := range notes {
		ids = append(ids, notes[i].ID)
	}
	return ids
}
