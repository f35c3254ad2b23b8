package handler

import (
	"errors"
	"net/http"
	"time"

	"connect3/backend/internal/models"
	"connect3/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// region --- DTOs ---

// CreateUserInput defines the structure for creating a user.
// The connection counter is not accepted; it always starts at zero.
type CreateUserInput struct {
	ID         string  `json:"id" binding:"omitempty,uuid" example:"0b6f3a8e-4c1d-4a5e-9a43-2f1f7c1d9e10"`
	Name       string  `json:"name" binding:"required,notblank" example:"Ada Lovelace"`
	Email      string  `json:"email" binding:"required,email" example:"ada@example.com"`
	SchoolYear int     `json:"school_year" binding:"min=0" example:"2"`
	InvitedBy  *string `json:"invited_by" binding:"omitempty,notblank" example:"5d1c7f0e-8b7a-4f37-9d6e-1c2b3a4d5e6f"`
}

func (in CreateUserInput) toModel() *models.User {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &models.User{
		ID:         id,
		Name:       in.Name,
		Email:      normalizeEmail(in.Email),
		SchoolYear: in.SchoolYear,
		InvitedBy:  in.InvitedBy,
	}
}

// UserResponse wraps a created user.
type UserResponse struct {
	Message string      `json:"message" example:"User created successfully"`
	User    models.User `json:"user"`
}

// ConnectionsResponse lists a user's direct connections.
type ConnectionsResponse struct {
	Connections []models.User `json:"connections"`
}

// InviteResponse carries a signed invite link token.
type InviteResponse struct {
	InviteToken string    `json:"invite_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// endregion

// region --- User Handlers ---

// CreateUser godoc
// @Summary      Create a user
// @Description  Creates a new user. The email must not be in use. The id is generated when omitted.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserInput true "User"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse "Invalid input or email already in use"
// @Failure      404  {object}  ErrorResponse "Inviter not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := input.toModel()
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		h.respondStoreError(c, err, errorMessages{
			notFound: "Inviting user not found",
			conflict: "User with this email already exists",
		})
		return
	}

	h.logger.Info("user created", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, UserResponse{Message: "User created successfully", User: *user})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByEmail godoc
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Param        email path      string  true  "Email"
// @Success      200   {object}  models.User
// @Failure      404   {object}  ErrorResponse
// @Router       /users/email/{email} [get]
func (h *Handler) GetUserByEmail(c *gin.Context) {
	user, err := h.store.GetUserByEmail(c.Request.Context(), normalizeEmail(c.Param("email")))
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserConnections godoc
// @Summary      List a user's connections
// @Description  Returns every user directly connected to the given user.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ConnectionsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/connections [get]
func (h *Handler) GetUserConnections(c *gin.Context) {
	h.listConnections(c, c.Param("id"))
}

// GetUserConnectionsByEmail godoc
// @Summary      List a user's connections by email
// @Description  Same as /users/{id}/connections, with the user looked up by email.
// @Tags         users
// @Produce      json
// @Param        email path      string  true  "Email"
// @Success      200   {object}  ConnectionsResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/email/{email}/connections [get]
func (h *Handler) GetUserConnectionsByEmail(c *gin.Context) {
	user, err := h.store.GetUserByEmail(c.Request.Context(), normalizeEmail(c.Param("email")))
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}
	h.listConnections(c, user.ID)
}

func (h *Handler) listConnections(c *gin.Context, userID string) {
	connections, err := h.store.ListConnections(c.Request.Context(), userID)
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}
	if connections == nil {
		connections = []models.User{}
	}
	c.JSON(http.StatusOK, ConnectionsResponse{Connections: connections})
}

// CreateInvite godoc
// @Summary      Create an invite link token
// @Description  Issues a signed token that lets a new user sign up already connected to this user.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "Inviting user ID"
// @Success      200  {object}  InviteResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      501  {object}  ErrorResponse "Invites are disabled"
// @Router       /users/{id}/invites [post]
func (h *Handler) CreateInvite(c *gin.Context) {
	if !h.invites.Enabled() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Invites are disabled"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}

	token, expiresAt, err := h.invites.GenerateInviteToken(user.ID)
	if err != nil {
		if errors.Is(err, jwt.ErrInvitesDisabled) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "Invites are disabled"})
			return
		}
		h.logger.Error("failed to sign invite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invite"})
		return
	}

	c.JSON(http.StatusOK, InviteResponse{InviteToken: token, ExpiresAt: expiresAt})
}

// endregion
