package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"technotes/api/internal/service"
)

type noteResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Username  string `json:"username,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Completed bool   `json:"completed"`
}

func (h HandlerSet) ListNotes(c *gin.Context) {
	notes, err := h.noteService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, noteResponse{
			ID:        note.ID,
			OwnerID:   note.OwnerID,
			Username:  note.Username,
			Title:     note.Title,
			Body:      note.Body,
			Completed: note.Completed,
		})
	}
	c.JSON(http.StatusOK, resp)
}

type createNoteRequest struct {
	OwnerID string `json:"ownerId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func (h HandlerSet) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	if _, err := h.noteService.Create(c.Request.Context(), req.OwnerID, req.Title, req.Body); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "New note created"})
}

type updateNoteRequest struct {
	ID        string `json:"id" binding:"required"`
	OwnerID   string `json:"ownerId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

func (h HandlerSet) UpdateNote(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), service.UpdateNoteInput{
		ID:        req.ID,
		OwnerID:   req.OwnerID,
		Title:     req.Title,
		Body:      req.Body,
		Completed: *req.Completed,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s successfully updated", note.Title)})
}

type deleteNoteRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h HandlerSet) DeleteNote(c *gin.Context) {
	var req deleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Note ID required"})
		return
	}

	reply, err := h.noteService.Delete(c.Request.Context(), req.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}
