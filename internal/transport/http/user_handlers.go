package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/store"
)

// UserHandlers provides HTTP handlers for profiles, avatars, and the
// public message history.
type UserHandlers struct {
	store     store.Store
	avatarDir string
	log       *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.Store, avatarDir string, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store:     st,
		avatarDir: avatarDir,
		log:       logger,
	}
}

// ProfileResponse is the public view of a user record.
type ProfileResponse struct {
	Username      string   `json:"username"`
	Discriminator string   `json:"discriminator"`
	Roles         []string `json:"roles"`
	Bio           string   `json:"bio"`
	AvatarURL     *string  `json:"avatarUrl"`
	Status        string   `json:"status"`
	LastSeen      int64    `json:"lastSeen"`
}

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	Bio    string `json:"bio"`
	Status string `json:"status"`
}

// MessageResponse is one entry of the public chat log.
type MessageResponse struct {
	Username      string   `json:"username"`
	Discriminator string   `json:"discriminator"`
	Roles         []string `json:"roles"`
	Text          string   `json:"text"`
	Time          string   `json:"time"`
}

// GetProfile returns the public record for a user.
// GET /api/profile/:username
func (h *UserHandlers) GetProfile(c *gin.Context) {
	user, err := h.store.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Roles:         user.Roles,
		Bio:           user.Bio,
		AvatarURL:     optionalString(user.AvatarURL),
		Status:        user.Status,
		LastSeen:      user.LastSeen.UnixMilli(),
	})
}

// UpdateProfile updates bio and status for the authenticated user.
// POST /api/profile/update
func (h *UserHandlers) UpdateProfile(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Status == "" {
		req.Status = store.StatusOnline
	}

	if err := h.store.UpdateProfile(c.Request.Context(), username, req.Bio, req.Status); err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to update profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadAvatar stores an uploaded avatar image and updates the user record.
// POST /api/avatar
func (h *UserHandlers) UploadAvatar(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file"})
		return
	}

	if err := os.MkdirAll(h.avatarDir, 0o755); err != nil {
		h.log.Error().Err(err).Str("dir", h.avatarDir).Msg("failed to create avatar dir")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.avatarDir, filename)); err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to save avatar")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	avatarURL := "/avatars/" + filename
	if err := h.store.UpdateAvatar(c.Request.Context(), username, avatarURL); err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to update avatar")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "avatarUrl": avatarURL})
}

// ListMessages returns the bounded public chat log, oldest first.
// GET /api/messages
func (h *UserHandlers) ListMessages(c *gin.Context) {
	msgs, err := h.store.ListMessages(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{
			Username:      m.Username,
			Discriminator: m.Discriminator,
			Roles:         m.Roles,
			Text:          m.Text,
			Time:          m.SentAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}
