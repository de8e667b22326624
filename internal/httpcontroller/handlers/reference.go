package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/datastore"
)

// SpeciesResponse is the JSON shape of a species entry.
type SpeciesResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientificName"`
}

// BehaviorResponse is the JSON shape of a behavior tag.
type BehaviorResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

func toBehaviorResponse(b *datastore.Behavior) BehaviorResponse {
	return BehaviorResponse{ID: b.ID, Label: b.Label}
}

func toSpeciesResponses(species []datastore.Species) []SpeciesResponse {
	responses := make([]SpeciesResponse, 0, len(species))
	for i := range species {
		responses = append(responses, SpeciesResponse{
			ID:             species[i].ID,
			Name:           species[i].Name,
			ScientificName: species[i].ScientificName,
		})
	}
	return responses
}

func toBehaviorResponses(behaviors []datastore.Behavior) []BehaviorResponse {
	responses := make([]BehaviorResponse, 0, len(behaviors))
	for i := range behaviors {
		responses = append(responses, toBehaviorResponse(&behaviors[i]))
	}
	return responses
}

// ListSpecies handles GET /species/all, optionally sorted.
func (h *Handlers) ListSpecies(c echo.Context) error {
	species, err := h.DS.GetAllSpecies()
	if err != nil {
		return err
	}
	datastore.SortSpecies(species, c.QueryParam("sortBy"), c.QueryParam("sortOrder"))
	return c.JSON(http.StatusOK, toSpeciesResponses(species))
}

// ListBehaviors handles GET /behaviors, optionally sorted.
func (h *Handlers) ListBehaviors(c echo.Context) error {
	behaviors, err := h.DS.GetAllBehaviors()
	if err != nil {
		return err
	}
	datastore.SortBehaviors(behaviors, c.QueryParam("sortBy"), c.QueryParam("sortOrder"))
	return c.JSON(http.StatusOK, toBehaviorResponses(behaviors))
}
