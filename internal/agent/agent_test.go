package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/model"
)

type stubGenerator struct {
	lastSystem string
	lastPrompt string
	response   string
	err        error
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	return s.response, s.err
}

func TestParseOutcomeUsable(t *testing.T) {
	raw := `{"news_items":[{"title":"T","summary":"S","url":"https://example.com/a","publication_date":"2024-01-01","rating":7}]}`

	out := parseOutcome(raw)
	require.True(t, out.Usable)
	require.Len(t, out.Report.NewsItems, 1)

	item := out.Report.NewsItems[0]
	assert.Equal(t, "T", item.Title)
	assert.Equal(t, "https://example.com/a", item.URL)
	assert.Equal(t, "2024-01-01", item.PublicationDate.String())
	assert.Equal(t, 7, item.Rating)
}

func TestParseOutcomeFencedJSON(t *testing.T) {
	raw := "```json\n{\"news_items\":[]}\n```"

	out := parseOutcome(raw)
	assert.True(t, out.Usable)
	assert.Empty(t, out.Report.NewsItems)
}

func TestParseOutcomeUnusable(t *testing.T) {
	raw := "I could not find any news today, sorry."

	out := parseOutcome(raw)
	assert.False(t, out.Usable)
	assert.Equal(t, raw, out.Raw)
}

func TestParseOutcomeBadDate(t *testing.T) {
	raw := `{"news_items":[{"title":"T","summary":"S","url":"u","publication_date":"yesterday"}]}`

	out := parseOutcome(raw)
	assert.False(t, out.Usable)
}

func TestResearcherPromptCarriesHits(t *testing.T) {
	gen := &stubGenerator{response: `{"news_items":[]}`}
	r := NewResearcher(gen, "AI, LLM")

	hits := []model.Hit{
		{
			Title:   "Model launch",
			URL:     "https://example.com/launch",
			Date:    time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			Excerpt: "A new model shipped.",
		},
	}

	out, err := r.Research(context.Background(), hits)
	require.NoError(t, err)
	assert.True(t, out.Usable)

	assert.Contains(t, gen.lastSystem, "Senior News Researcher")
	assert.Contains(t, gen.lastPrompt, "AI, LLM")
	assert.Contains(t, gen.lastPrompt, "Model launch")
	assert.Contains(t, gen.lastPrompt, "https://example.com/launch")
	assert.Contains(t, gen.lastPrompt, "2024-01-02")
	assert.Contains(t, gen.lastPrompt, "A new model shipped.")
}

func TestRaterPromptCarriesReport(t *testing.T) {
	gen := &stubGenerator{
		response: `{"news_items":[{"title":"T","summary":"S","url":"u","publication_date":"2024-01-01","rating":9}]}`,
	}
	a := NewRater(gen, "AI")

	report := model.NewsReport{NewsItems: []model.NewsItem{{
		Title:           "T",
		Summary:         "S",
		URL:             "u",
		PublicationDate: model.NewDate(2024, 1, 1),
	}}}

	out, err := a.Rate(context.Background(), report)
	require.NoError(t, err)
	require.True(t, out.Usable)
	assert.Equal(t, 9, out.Report.NewsItems[0].Rating)

	assert.Contains(t, gen.lastSystem, "Senior News Analyst")
	assert.Contains(t, gen.lastPrompt, `"url":"u"`)
}
