package handler

import (
	"context"
	"net/http"
	"time"

	"connect3/backend/internal/hub"
	"connect3/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// region --- DTOs ---

// CreatePostInput defines the structure for creating a post.
type CreatePostInput struct {
	ID               string     `json:"id" binding:"omitempty,uuid" example:"9f1e2d3c-4b5a-4e6f-8a7b-6c5d4e3f2a1b"`
	Content          string     `json:"content" binding:"required,notblank" example:"Study group at 6pm"`
	AuthorID         string     `json:"author_id" binding:"required,notblank" example:"0b6f3a8e-4c1d-4a5e-9a43-2f1f7c1d9e10"`
	VisibilityDegree *int       `json:"visibility_degree" binding:"omitempty,min=0" example:"2"`
	Timestamp        *time.Time `json:"timestamp" example:"2024-09-01T12:00:00Z"`
}

func (in CreatePostInput) toModel() *models.Post {
	post := &models.Post{
		ID:        in.ID,
		Content:   in.Content,
		AuthorID:  in.AuthorID,
		Timestamp: time.Now().UTC(),
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if in.VisibilityDegree != nil {
		post.VisibilityDegree = *in.VisibilityDegree
	}
	if in.Timestamp != nil {
		post.Timestamp = in.Timestamp.UTC()
	}
	return post
}

// PostResponse wraps a created post.
type PostResponse struct {
	Message string      `json:"message" example:"Post created successfully"`
	Post    models.Post `json:"post"`
}

// endregion

// region --- Post Handlers ---

// CreatePost godoc
// @Summary      Create a post
// @Description  Stores a post and pushes it to the open feed streams of every user allowed to see it. visibility_degree defaults to 0 (author only); timestamp defaults to now.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        input body CreatePostInput true "Post"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Author not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := input.toModel()
	if err := h.store.CreatePost(c.Request.Context(), post); err != nil {
		h.respondStoreError(c, err, errorMessages{
			notFound: "Author not found",
			conflict: "Post with this id already exists",
		})
		return
	}

	h.publishPost(c.Request.Context(), *post)
	c.JSON(http.StatusOK, PostResponse{Message: "Post created successfully", Post: *post})
}

// endregion

// publishPost notifies the live streams of the post's audience. The post is
// already committed, so failures are only logged.
func (h *Handler) publishPost(ctx context.Context, post models.Post) {
	if !h.hub.HasSubscribers() {
		return
	}
	audience, err := h.feed.Audience(ctx, post)
	if err != nil {
		h.logger.Warn("failed to compute post audience", zap.String("post_id", post.ID), zap.Error(err))
		return
	}
	h.hub.Publish(audience, hub.Event{Type: hub.EventPostCreated, Payload: post})
}
