package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/datastore"
)

// NoteRequest carries the submitted fields of a note, from an HTML form or
// a JSON body. Numeric fields arrive as strings and are validated here.
type NoteRequest struct {
	Habitat       string   `form:"habitat" json:"habitat"`
	Date          string   `form:"date" json:"date"`
	Appearance    string   `form:"appearance" json:"appearance"`
	Vocalisations string   `form:"vocalisations" json:"vocalisations"`
	FlockSize     string   `form:"flockSize" json:"flockSize"`
	SpeciesID     string   `form:"species" json:"species"`
	BehaviorIDs   []string `form:"behaviors" json:"behaviors"`
}

// NoteResponse is the JSON shape of a note joined with its owner, species
// and behavior tags.
type NoteResponse struct {
	ID                    uint               `json:"id"`
	Habitat               string             `json:"habitat"`
	Date                  string             `json:"date"`
	Appearance            string             `json:"appearance"`
	Vocalisations         string             `json:"vocalisations"`
	FlockSize             int                `json:"flockSize"`
	OwnerID               uint               `json:"ownerId"`
	OwnerEmail            string             `json:"ownerEmail"`
	SpeciesName           string             `json:"speciesName,omitempty"`
	SpeciesScientificName string             `json:"speciesScientificName,omitempty"`
	Behaviors             []BehaviorResponse `json:"behaviors"`
	Comments              []CommentResponse  `json:"comments,omitempty"`
}

func toNoteResponse(note *datastore.Note) NoteResponse {
	resp := NoteResponse{
		ID:            note.ID,
		Habitat:       note.Habitat,
		Date:          note.Date,
		Appearance:    note.Appearance,
		Vocalisations: note.Vocalisations,
		FlockSize:     note.FlockSize,
		OwnerID:       note.UserID,
		OwnerEmail:    note.User.Email,
		Behaviors:     make([]BehaviorResponse, 0, len(note.Behaviors)),
	}
	if note.Species != nil {
		resp.SpeciesName = note.Species.Name
		resp.SpeciesScientificName = note.Species.ScientificName
	}
	for i := range note.Behaviors {
		resp.Behaviors = append(resp.Behaviors, toBehaviorResponse(&note.Behaviors[i]))
	}
	return resp
}

func toNoteResponses(notes []datastore.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, toNoteResponse(&notes[i]))
	}
	return responses
}

// parseNoteRequest binds and validates a note submission. Malformed numbers
// are rejected before any storage roundtrip.
func (h *Handlers) parseNoteRequest(c echo.Context) (note datastore.Note, behaviorIDs []uint, herr *HandlerError) {
	req := new(NoteRequest)
	if err := c.Bind(req); err != nil {
		return note, nil, h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
	}

	flockSize := 0
	if req.FlockSize != "" {
		parsed, err := strconv.Atoi(req.FlockSize)
		if err != nil {
			return note, nil, h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
		}
		flockSize = parsed
	}

	var speciesID *uint
	if req.SpeciesID != "" {
		parsed, err := strconv.ParseUint(req.SpeciesID, 10, 32)
		if err != nil {
			return note, nil, h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
		}
		id := uint(parsed)
		speciesID = &id
	}

	behaviorIDs = make([]uint, 0, len(req.BehaviorIDs))
	for _, raw := range req.BehaviorIDs {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return note, nil, h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
		}
		behaviorIDs = append(behaviorIDs, uint(parsed))
	}

	note = datastore.Note{
		Habitat:       req.Habitat,
		Date:          req.Date,
		Appearance:    req.Appearance,
		Vocalisations: req.Vocalisations,
		FlockSize:     flockSize,
		SpeciesID:     speciesID,
	}
	return note, behaviorIDs, nil
}

// ListNotes handles GET / and returns all notes, optionally sorted.
func (h *Handlers) ListNotes(c echo.Context) error {
	notes, err := h.DS.GetAllNotes()
	if err != nil {
		return err
	}

	sortBy := c.QueryParam("sortBy")
	sortOrder := c.QueryParam("sortOrder")
	datastore.SortNotes(notes, sortBy, sortOrder)

	return c.JSON(http.StatusOK, map[string]any{
		"notes":     toNoteResponses(notes),
		"sortBy":    sortBy,
		"sortOrder": sortOrder,
	})
}

// GetNote handles GET /note/:id and returns the note together with its
// behaviors and comments.
func (h *Handlers) GetNote(c echo.Context) error {
	note, err := h.DS.GetNote(c.Param("id"))
	if err != nil {
		return err
	}

	comments, err := h.DS.GetNoteComments(note.ID)
	if err != nil {
		return err
	}

	resp := toNoteResponse(&note)
	resp.Comments = toCommentResponses(comments)
	return c.JSON(http.StatusOK, resp)
}

// NewNote handles GET /note and returns the reference data needed to fill
// in the new-note form.
func (h *Handlers) NewNote(c echo.Context) error {
	species, err := h.DS.GetAllSpecies()
	if err != nil {
		return err
	}
	behaviors, err := h.DS.GetAllBehaviors()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"species":   toSpeciesResponses(species),
		"behaviors": toBehaviorResponses(behaviors),
	})
}

// CreateNote handles POST /note. The new note is owned by the session
// identity and the response redirects to its page.
func (h *Handlers) CreateNote(c echo.Context) error {
	user := h.currentUser(c)

	note, behaviorIDs, herr := h.parseNoteRequest(c)
	if herr != nil {
		return herr
	}
	note.UserID = user.ID

	if err := h.DS.SaveNote(&note, behaviorIDs); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/note/%d", note.ID))
}

// EditNote handles GET /note/:id/edit. Only the owner may load the edit
// form; anyone else is sent to their own note list.
func (h *Handlers) EditNote(c echo.Context) error {
	user := h.currentUser(c)

	note, err := h.DS.GetNote(c.Param("id"))
	if err != nil {
		return err
	}
	if !note.IsOwnedBy(user.ID) {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
	}

	species, err := h.DS.GetAllSpecies()
	if err != nil {
		return err
	}
	behaviors, err := h.DS.GetAllBehaviors()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"note":      toNoteResponse(&note),
		"species":   toSpeciesResponses(species),
		"behaviors": toBehaviorResponses(behaviors),
	})
}

// UpdateNote handles PUT /note/:id. Ownership is checked before any
// mutation; a non-owner is redirected without touching the note.
func (h *Handlers) UpdateNote(c echo.Context) error {
	user := h.currentUser(c)

	existing, err := h.DS.GetNote(c.Param("id"))
	if err != nil {
		return err
	}
	if !existing.IsOwnedBy(user.ID) {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
	}

	note, behaviorIDs, herr := h.parseNoteRequest(c)
	if herr != nil {
		return herr
	}
	note.ID = existing.ID

	if err := h.DS.UpdateNote(&note, behaviorIDs); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/note/%d", note.ID))
}

// DeleteNote handles DELETE /note/:id. Ownership-checked like UpdateNote;
// dependent behavior links and comments are removed with the note.
func (h *Handlers) DeleteNote(c echo.Context) error {
	user := h.currentUser(c)

	note, err := h.DS.GetNote(c.Param("id"))
	if err != nil {
		return err
	}
	if !note.IsOwnedBy(user.ID) {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
	}

	if err := h.DS.DeleteNote(c.Param("id")); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}
