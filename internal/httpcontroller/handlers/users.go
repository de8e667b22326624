package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/datastore"
)

// ListUserNotes handles GET /users/:id. A user may only view their own
// list; requesting someone else's sends them back to their own.
func (h *Handlers) ListUserNotes(c echo.Context) error {
	user := h.currentUser(c)

	requested := c.Param("id")
	if requested != fmt.Sprintf("%d", user.ID) {
		return c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
	}

	notes, err := h.DS.GetNotesByUser(user.ID)
	if err != nil {
		return err
	}

	sortBy := c.QueryParam("sortBy")
	sortOrder := c.QueryParam("sortOrder")
	datastore.SortNotes(notes, sortBy, sortOrder)

	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
		"notes":     toNoteResponses(notes),
		"sortBy":    sortBy,
		"sortOrder": sortOrder,
	})
}
