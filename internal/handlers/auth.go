package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "jwt"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login verifies credentials, returns an access token and sets the refresh
// token as an HTTP-only cookie. The refresh token never appears in the body.
func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(h.tokens.RefreshTTL().Seconds()))
	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: result.AccessToken})
}

// Refresh reads the refresh cookie and re-issues an access token reflecting
// the user's current roles and active flag.
func (h HandlerSet) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	accessToken, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, accessTokenResponse{AccessToken: accessToken})
}

// Logout clears the refresh cookie. Idempotent, never fails.
func (h HandlerSet) Logout(c *gin.Context) {
	if _, err := c.Cookie(refreshCookie); err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Cookie cleared"})
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", true, true)
}
