package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/birdlog/birding-go/internal/datastore"
)

type commentRequest struct {
	Entry string `form:"entry" json:"entry"`
}

// CommentResponse is the JSON shape of a comment joined with its author.
type CommentResponse struct {
	ID          uint   `json:"id"`
	Entry       string `json:"entry"`
	AuthorID    uint   `json:"authorId"`
	AuthorEmail string `json:"authorEmail"`
	CreatedAt   string `json:"createdAt"`
}

func toCommentResponses(comments []datastore.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		responses = append(responses, CommentResponse{
			ID:          c.ID,
			Entry:       c.Entry,
			AuthorID:    c.UserID,
			AuthorEmail: c.User.Email,
			CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}

// AddComment handles POST /note/:id/comments. Any signed-in user may
// comment on any note.
func (h *Handlers) AddComment(c echo.Context) error {
	user := h.currentUser(c)

	note, err := h.DS.GetNote(c.Param("id"))
	if err != nil {
		return err
	}

	req := new(commentRequest)
	if err := c.Bind(req); err != nil {
		return h.NewHandlerError(err, "Input is invalid!", http.StatusNotFound)
	}

	comment := datastore.Comment{
		NoteID: note.ID,
		UserID: user.ID,
		Entry:  req.Entry,
	}
	if err := h.DS.SaveComment(&comment); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/note/%d", note.ID))
}
