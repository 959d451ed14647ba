package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"technotes/api/internal/repository"
	"technotes/api/internal/service"
)

var errorStatus = map[error]struct {
	status  int
	message string
}{
	service.ErrNoUsers:            {http.StatusNotFound, "No users found"},
	service.ErrNoNotes:            {http.StatusNotFound, "No notes found"},
	repository.ErrUserNotFound:    {http.StatusNotFound, "User not found"},
	repository.ErrNoteNotFound:    {http.StatusNotFound, "Note not found"},
	service.ErrDuplicateUsername:  {http.StatusConflict, "Username is already taken. Please enter a different username"},
	service.ErrDuplicateTitle:     {http.StatusConflict, "Duplicate note title"},
	service.ErrUserHasNotes:       {http.StatusConflict, "User has assigned notes"},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, "Unauthorized"},
	service.ErrUnauthenticated:    {http.StatusUnauthorized, "Unauthorized"},
}

// writeError maps domain errors onto the error taxonomy. Anything unmapped
// is a 500 with no internal detail in the body.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	for sentinel, mapped := range errorStatus {
		if errors.Is(err, sentinel) {
			c.JSON(mapped.status, gin.H{"message": mapped.message})
			return
		}
	}

	h.log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
