package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/model"
)

func TestDigestFormat(t *testing.T) {
	items := []model.NewsItem{{
		Title:           "T",
		Summary:         "S",
		URL:             "u",
		PublicationDate: model.NewDate(2024, 1, 1),
		Rating:          8,
	}}

	digest := Digest(items)

	assert.True(t, strings.HasPrefix(digest, "*AI News Summary*\n\n"))
	assert.Contains(t, digest, "*Title:* T\n")
	assert.Contains(t, digest, "*Summary:* S\n")
	assert.Contains(t, digest, "Rating: 8/10\n")
	assert.Contains(t, digest, "<u|Read More>")
	assert.Contains(t, digest, "Published on: 2024-01-01")
	assert.Contains(t, digest, "---\n")
}

func TestDigestSeparatesItems(t *testing.T) {
	items := []model.NewsItem{
		{Title: "A", Summary: "a", URL: "ua", PublicationDate: model.NewDate(2024, 1, 1), Rating: 5},
		{Title: "B", Summary: "b", URL: "ub", PublicationDate: model.NewDate(2024, 1, 2), Rating: 6},
	}

	digest := Digest(items)

	assert.Equal(t, 2, strings.Count(digest, "---\n"))
	assert.Less(t, strings.Index(digest, "*Title:* A"), strings.Index(digest, "*Title:* B"))
}

func TestTelegramDigestEscapes(t *testing.T) {
	items := []model.NewsItem{{
		Title:           "It's a big deal!",
		Summary:         "v2.0 released.",
		URL:             "https://example.com/a(b)",
		PublicationDate: model.NewDate(2024, 1, 1),
		Rating:          7,
	}}

	digest := telegramDigest(items)

	assert.Contains(t, digest, `big deal\!`)
	assert.Contains(t, digest, `v2\.0 released\.`)
	assert.Contains(t, digest, `https://example.com/a(b\)`)
	assert.Contains(t, digest, `2024\-01\-01`)
}

func TestSlackNotifierPostsSingleMessage(t *testing.T) {
	var got struct {
		Text string `json:"text"`
	}
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, 5*time.Second)
	items := []model.NewsItem{{
		Title:           "T",
		Summary:         "S",
		URL:             "u",
		PublicationDate: model.NewDate(2024, 1, 1),
		Rating:          8,
	}}

	require.NoError(t, n.Publish(context.Background(), items))
	assert.Equal(t, 1, calls)
	assert.Contains(t, got.Text, "*Title:* T")
}

func TestSlackNotifierEmptyNoCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, 5*time.Second)
	require.NoError(t, n.Publish(context.Background(), nil))
	assert.Zero(t, calls)
}
