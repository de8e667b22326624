// sort.go: post-fetch sorting of list responses driven by request parameters.
//
// Sorting is applied after fetching rather than pushed into the query layer,
// trading query efficiency for one comparator set that covers string, number
// and date fields uniformly across both database dialects.
package datastore

import "sort"

// Sort order tokens accepted in list requests.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// noteLess compares two notes on a single named field.
type noteLess func(a, b *Note) bool

// noteComparators is the enumerated set of sortable note fields. Requests
// naming any other field leave the list in storage order, an unknown sort
// key is not an error.
var noteComparators = map[string]noteLess{
	// YYYY-MM-DD encoding sorts chronologically
	"date":      func(a, b *Note) bool { return a.Date < b.Date },
	"flockSize": func(a, b *Note) bool { return a.FlockSize < b.FlockSize },
	"habitat":   func(a, b *Note) bool { return a.Habitat < b.Habitat },
	"species":   func(a, b *Note) bool { return a.SpeciesName() < b.SpeciesName() },
	"email":     func(a, b *Note) bool { return a.User.Email < b.User.Email },
}

// speciesComparators covers the sortable columns of the species list.
var speciesComparators = map[string]func(a, b *Species) bool{
	"name":           func(a, b *Species) bool { return a.Name < b.Name },
	"scientificName": func(a, b *Species) bool { return a.ScientificName < b.ScientificName },
}

// behaviorComparators covers the sortable columns of the behavior list. The
// column is named "behavior" on the wire, matching its storage name.
var behaviorComparators = map[string]func(a, b *Behavior) bool{
	"behavior": func(a, b *Behavior) bool { return a.Label < b.Label },
}

// sortStable sorts items in place with the given comparator. The sort is
// stable, so ties keep their previous order. Direction flips by swapping
// the comparator's arguments.
func sortStable[T any](items []T, less func(a, b *T) bool, sortOrder string) {
	descending := sortOrder == SortDescending
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}

// SortNotes sorts notes in place by the named field. An unknown field is a
// no-op rather than an error.
func SortNotes(notes []Note, sortBy, sortOrder string) {
	if less, ok := noteComparators[sortBy]; ok {
		sortStable(notes, less, sortOrder)
	}
}

// SortSpecies sorts the species reference list in place by the named field.
func SortSpecies(species []Species, sortBy, sortOrder string) {
	if less, ok := speciesComparators[sortBy]; ok {
		sortStable(species, less, sortOrder)
	}
}

// SortBehaviors sorts the behavior reference list in place by the named field.
func SortBehaviors(behaviors []Behavior, sortBy, sortOrder string) {
	if less, ok := behaviorComparators[sortBy]; ok {
		sortStable(behaviors, less, sortOrder)
	}
}

// SortableNoteFields returns the accepted sortBy keys, mainly for reference
// responses and tests.
func SortableNoteFields() []string {
	fields := make([]string, 0, len(noteComparators))
	for field := range noteComparators {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
