package handler

import (
	"context"
	"net/http"

	"connect3/backend/internal/auth"
	"connect3/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// region --- DTOs ---

// ConnectByIDInput names the two users to connect by ID.
type ConnectByIDInput struct {
	User1 string `json:"user1" binding:"required,notblank" example:"0b6f3a8e-4c1d-4a5e-9a43-2f1f7c1d9e10"`
	User2 string `json:"user2" binding:"required,notblank" example:"5d1c7f0e-8b7a-4f37-9d6e-1c2b3a4d5e6f"`
}

// ConnectByNameInput names the two users to connect by display name.
type ConnectByNameInput struct {
	Name1 string `json:"name1" binding:"required,notblank" example:"Ada Lovelace"`
	Name2 string `json:"name2" binding:"required,notblank" example:"Alan Turing"`
}

// ConnectByEmailInput names the two users to connect by email.
type ConnectByEmailInput struct {
	Email1 string `json:"email1" binding:"required,email" example:"ada@example.com"`
	Email2 string `json:"email2" binding:"required,email" example:"alan@example.com"`
}

// endregion

// region --- Connection Handlers ---

// ConnectUsers godoc
// @Summary      Connect two users
// @Description  Creates a bidirectional connection. Connecting an already connected pair changes nothing.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        input body ConnectByIDInput true "User IDs"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connect_users [post]
func (h *Handler) ConnectUsers(c *gin.Context) {
	var input ConnectByIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.connect(c, input.User1, input.User2)
}

// ConnectUsersByName godoc
// @Summary      Connect two users by name
// @Description  Looks both users up by display name, then connects them. With duplicate names the earliest created user is used.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        input body ConnectByNameInput true "User names"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connect_users_by_name [post]
func (h *Handler) ConnectUsersByName(c *gin.Context) {
	var input ConnectByNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.connectResolved(c, input.Name1, input.Name2, h.store.GetUserByName)
}

// ConnectUsersByEmail godoc
// @Summary      Connect two users by email
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        input body ConnectByEmailInput true "User emails"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connect_users_by_email [post]
func (h *Handler) ConnectUsersByEmail(c *gin.Context) {
	var input ConnectByEmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.connectResolved(c, normalizeEmail(input.Email1), normalizeEmail(input.Email2), h.store.GetUserByEmail)
}

// CreateUserAndConnect godoc
// @Summary      Create a user connected to an existing user
// @Description  Creates the user and the connection in one transaction. The existing user is given by existing_user_id or by a signed invite_token; invited_by defaults to that user.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        existing_user_id query string false "Existing user ID"
// @Param        invite_token     query string false "Signed invite token"
// @Param        input body CreateUserInput true "New user"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Invalid invite token"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /create_user_and_connect [post]
func (h *Handler) CreateUserAndConnect(c *gin.Context) {
	existingID := c.Query("existing_user_id")
	if inviterID, ok := auth.Inviter(c); ok {
		if existingID != "" && existingID != inviterID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "existing_user_id does not match the invite"})
			return
		}
		existingID = inviterID
	}
	if existingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "existing_user_id or invite_token is required"})
		return
	}

	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := input.toModel()
	if user.InvitedBy == nil {
		user.InvitedBy = &existingID
	}

	if err := h.store.CreateUserAndConnect(c.Request.Context(), user, existingID); err != nil {
		h.respondStoreError(c, err, errorMessages{
			notFound: "Existing user or inviter not found",
			conflict: "User with this email already exists",
		})
		return
	}

	h.metrics.ConnectionCreated()
	h.logger.Info("user created and connected",
		zap.String("user_id", user.ID), zap.String("existing_user_id", existingID))
	c.JSON(http.StatusOK, UserResponse{Message: "User created and connected successfully", User: *user})
}

// endregion

// region --- Helpers ---

type userLookup func(ctx context.Context, key string) (*models.User, error)

func (h *Handler) connectResolved(c *gin.Context, key1, key2 string, lookup userLookup) {
	ctx := c.Request.Context()

	user1, err := lookup(ctx, key1)
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "One or both users not found"})
		return
	}
	user2, err := lookup(ctx, key2)
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "One or both users not found"})
		return
	}
	h.connect(c, user1.ID, user2.ID)
}

func (h *Handler) connect(c *gin.Context, a, b string) {
	created, err := h.store.Connect(c.Request.Context(), a, b)
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "One or both users not found"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, MessageResponse{Message: "Users are already connected"})
		return
	}
	h.metrics.ConnectionCreated()
	h.logger.Info("users connected", zap.String("user1", a), zap.String("user2", b))
	c.JSON(http.StatusOK, MessageResponse{Message: "Users connected successfully"})
}

// endregion
