package handler

import (
	"io"
	"net/http"
	"time"

	"connect3/backend/internal/hub"
	"connect3/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	streamBuffer       = 16
	keepAliveInterval  = 25 * time.Second
	keepAliveEventName = "keepalive"
)

// FeedResponse is a user's feed, newest post first. Meta is present only for
// paginated requests.
type FeedResponse struct {
	Feed []models.Post   `json:"feed"`
	Meta *PaginationMeta `json:"meta,omitempty"`
}

// GetFeed godoc
// @Summary      Get a user's feed
// @Description  Returns every post whose author is within the post's visibility degree of the user, newest first; posts with equal timestamps are ordered by id. Without page or limit the whole feed is returned.
// @Tags         feed
// @Produce      json
// @Param        user_id path      string  true   "Requesting user ID"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page" default(10)
// @Success      200     {object}  FeedResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /feed/{user_id} [get]
func (h *Handler) GetFeed(c *gin.Context) {
	posts, err := h.feed.Feed(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}

	page, limit, paginated := parsePagination(c)
	if !paginated {
		c.JSON(http.StatusOK, FeedResponse{Feed: posts})
		return
	}

	meta := NewPaginationMeta(int64(len(posts)), page, limit)
	c.JSON(http.StatusOK, FeedResponse{Feed: paginate(posts, page, limit), Meta: &meta})
}

// StreamFeed godoc
// @Summary      Stream new feed posts
// @Description  Server-sent events stream. Each post_created event carries a newly created post the user is allowed to see.
// @Tags         feed
// @Produce      text/event-stream
// @Param        user_id path string true "Requesting user ID"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Router       /feed/{user_id}/stream [get]
func (h *Handler) StreamFeed(c *gin.Context) {
	userID := c.Param("user_id")
	if _, err := h.store.GetUser(c.Request.Context(), userID); err != nil {
		h.respondStoreError(c, err, errorMessages{notFound: "User not found"})
		return
	}

	client := hub.NewClient(streamBuffer)
	h.hub.Subscribe(userID, client)
	defer h.hub.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent(hub.EventPostCreated, string(msg))
			return true
		case <-keepAlive.C:
			c.SSEvent(keepAliveEventName, "")
			return true
		}
	})
}
