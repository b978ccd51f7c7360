package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/service/friends"
)

// FriendsHandlers provides HTTP handlers for friend requests.
type FriendsHandlers struct {
	friends *friends.Service
	log     *zerolog.Logger
}

// NewFriendsHandlers creates a new friends handlers instance.
func NewFriendsHandlers(svc *friends.Service, logger *zerolog.Logger) *FriendsHandlers {
	return &FriendsHandlers{
		friends: svc,
		log:     logger,
	}
}

// FriendRequestBody is the send-request payload.
type FriendRequestBody struct {
	ToUsername string `json:"toUsername" binding:"required"`
}

// FriendRespondBody is the accept/reject payload.
type FriendRespondBody struct {
	FromUsername string `json:"fromUsername" binding:"required"`
	Accept       bool   `json:"accept"`
}

// FriendsOverviewResponse lists incoming requests and current friends.
type FriendsOverviewResponse struct {
	IncomingRequests []string `json:"incomingRequests"`
	Friends          []string `json:"friends"`
}

// SendRequest sends a friend request.
// POST /api/friends/request
func (h *FriendsHandlers) SendRequest(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.friends.SendRequest(c.Request.Context(), username, req.ToUsername)
	switch {
	case errors.Is(err, friends.ErrCannotFriendSelf):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "can't friend yourself"})
	case errors.Is(err, friends.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, friends.ErrRequestAlreadyExists):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request already sent"})
	case errors.Is(err, friends.ErrAlreadyFriends):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "already friends"})
	case err != nil:
		h.log.Error().Err(err).Str("username", username).Msg("failed to send friend request")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Respond accepts or rejects a pending friend request.
// POST /api/friends/respond
func (h *FriendsHandlers) Respond(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req FriendRespondBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.friends.Respond(c.Request.Context(), username, req.FromUsername, req.Accept)
	switch {
	case errors.Is(err, friends.ErrRequestNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no friend request from user"})
	case err != nil:
		h.log.Error().Err(err).Str("username", username).Msg("failed to respond to friend request")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// Overview returns incoming requests and the friend list.
// GET /api/friends
func (h *FriendsHandlers) Overview(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	incoming, friendsOf, err := h.friends.Overview(c.Request.Context(), username)
	if err != nil {
		h.log.Error().Err(err).Str("username", username).Msg("failed to load friends overview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if incoming == nil {
		incoming = []string{}
	}
	if friendsOf == nil {
		friendsOf = []string{}
	}
	c.JSON(http.StatusOK, FriendsOverviewResponse{
		IncomingRequests: incoming,
		Friends:          friendsOf,
	})
}
