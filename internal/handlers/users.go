package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"technotes/api/internal/models"
	"technotes/api/internal/service"
)

type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
		Active:   user.Active,
	}
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

type createUserRequest struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req.Username, req.Password, req.Roles)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("New user %s created", user.Username)})
}

type updateUserRequest struct {
	ID       string   `json:"id" binding:"required"`
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password"`
	Roles    []string `json:"roles" binding:"required,min=1"`
	Active   *bool    `json:"active" binding:"required"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), service.UpdateUserInput{
		ID:       req.ID,
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
		Active:   *req.Active,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s updated", user.Username)})
}

type deleteUserRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID required"})
		return
	}

	reply, err := h.userService.Delete(c.Request.Context(), req.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}
