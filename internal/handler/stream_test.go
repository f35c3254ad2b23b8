package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connect3/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the data of the next SSE event named name.
func readEvent(t *testing.T, r *bufio.Reader, name string) string {
	t.Helper()
	var event string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:") && event == name:
			return strings.TrimPrefix(line, "data:")
		}
	}
}

func TestStreamFeed(t *testing.T) {
	ts := newTestServer(t)
	viewer := ts.createUser("Viewer", "viewer@example.com")
	friend := ts.createUser("Friend", "friend@example.com")
	stranger := ts.createUser("Stranger", "stranger@example.com")
	ts.connect(viewer, friend)

	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/feed/"+viewer+"/stream", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, 1, ts.handler.hub.Subscribers(viewer))

	post := func(author string, degree int) {
		body, err := json.Marshal(gin.H{"content": "from " + author, "author_id": author, "visibility_degree": degree})
		require.NoError(t, err)
		res, err := srv.Client().Post(srv.URL+"/posts", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	// Not visible to the viewer, so never delivered.
	post(stranger, 3)
	post(friend, 1)

	data := readEvent(t, bufio.NewReader(resp.Body), "post_created")

	var got struct {
		Type    string      `json:"type"`
		Payload models.Post `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, "post_created", got.Type)
	assert.Equal(t, friend, got.Payload.AuthorID)
}

func TestStreamFeedUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/feed/ghost/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
