// Package agent implements the two generation delegations of the pipeline: a
// research step that turns raw search hits into a structured news report and a
// rating step that scores each reported item. Both speak to a text-generation
// backend through the Generator interface and share one response schema, so a
// non-conforming result degrades into an unusable outcome instead of an error
// the caller cannot recover from.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"newsdigest/internal/model"
)

// Generator produces raw text for a system/user prompt pair. Implementations
// are expected to request JSON constrained by ReportSchema, but the contract
// stays textual: conformance is checked here, not trusted.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ReportSchema describes the NewsReport JSON shape requested from every
// backend.
var ReportSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"news_items": {
			"type": "array",
			"description": "A list of news items found.",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "The title of the news article."},
					"summary": {"type": "string", "description": "A concise summary of the news article, up to 5 lines long."},
					"url": {"type": "string", "description": "The URL of the news article."},
					"publication_date": {"type": "string", "description": "The publication date of the news article in YYYY-MM-DD format."},
					"rating": {"type": "integer", "description": "A rating of the news article's relevance and importance from 1 to 10, where 10 is most important."}
				},
				"required": ["title", "summary", "url", "publication_date"]
			}
		}
	},
	"required": ["news_items"]
}`)

// Outcome is the tagged result of a generation step: a usable structured
// report, or the raw text that failed to conform to the schema.
type Outcome struct {
	Usable bool
	Report model.NewsReport
	Raw    string
}

func parseOutcome(raw string) Outcome {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var report model.NewsReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &report); err != nil {
		return Outcome{Raw: raw}
	}

	return Outcome{Usable: true, Report: report}
}

const researcherSystem = `You are a Senior News Researcher, an expert technology news researcher with a talent for finding the most impactful stories.
Your goal is to find the most relevant and recent news articles related to the given keywords.
Focus on quality over quantity, ensuring each item is recent and highly relevant.
Prioritize the most significant news from authoritative sources like company blogs, reputable tech news sites, and official announcements.
Exclude non-English and duplicate articles.
Respond with a JSON object containing a "news_items" list. Each item needs a title, a summary (up to 5 lines), a url, and a publication_date in YYYY-MM-DD format. Do not include a rating.`

const analystSystem = `You are a Senior News Analyst, a seasoned technology analyst with a sharp eye for what's truly important in the AI space.
For each news article provided, assign a rating from 1 to 10 based on:
1. Relevance to the given keywords.
2. The significance of the news (e.g., major product launch, breakthrough research).
3. Novelty (is this new information or a rehash of old news?).
Respond with a JSON object containing the same "news_items" list you were given, unchanged, but with a "rating" field (an integer from 1 to 10) added to each item. Do not add or drop items.`

// Researcher is the first pipeline step: search hits in, news report out.
type Researcher struct {
	gen      Generator
	keywords string
}

func NewResearcher(gen Generator, keywords string) *Researcher {
	return &Researcher{gen: gen, keywords: keywords}
}

func (r *Researcher) Research(ctx context.Context, hits []model.Hit) (Outcome, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Research the latest news, updates, and significant developments related to: %s.\n\n", r.keywords)
	b.WriteString("Raw search results from the past day:\n\n")
	for _, hit := range hits {
		fmt.Fprintf(&b, "- %s (%s)\n  %s\n", hit.Title, hit.Date.Format("2006-01-02"), hit.URL)
		if hit.Excerpt != "" {
			fmt.Fprintf(&b, "  %s\n", hit.Excerpt)
		}
	}

	raw, err := r.gen.Generate(ctx, researcherSystem, b.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("research generation: %w", err)
	}

	return parseOutcome(raw), nil
}

// Rater is the second pipeline step: it scores the researched report.
type Rater struct {
	gen      Generator
	keywords string
}

func NewRater(gen Generator, keywords string) *Rater {
	return &Rater{gen: gen, keywords: keywords}
}

func (a *Rater) Rate(ctx context.Context, report model.NewsReport) (Outcome, error) {
	encoded, err := json.Marshal(report)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode report for rating: %w", err)
	}

	prompt := fmt.Sprintf(
		"The keywords are: %s.\n\nAnalyze the following list of news articles and rate each one:\n\n%s",
		a.keywords, encoded,
	)

	raw, err := a.gen.Generate(ctx, analystSystem, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("rating generation: %w", err)
	}

	return parseOutcome(raw), nil
}
