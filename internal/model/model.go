// Package model defines the data structures moved through the digest pipeline:
// raw search hits, news items produced by the research step, and the report
// envelope both generation steps exchange.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD. Generation output is not
// always disciplined about formats, so unmarshalling also tolerates full
// timestamps and keeps only the date part.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	raw = strings.TrimSpace(raw)
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return nil
		}
	}

	return fmt.Errorf("unrecognized date %q", raw)
}

// NewsItem is a single article as reported by the research step. URL is the
// identity key for deduplication. Rating is zero until the rating step fills it.
type NewsItem struct {
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	URL             string `json:"url"`
	PublicationDate Date   `json:"publication_date"`
	Rating          int    `json:"rating,omitempty"`
}

// NewsReport is the structured result both generation steps produce. Item order
// is discovery order and is preserved through the whole pipeline.
type NewsReport struct {
	NewsItems []NewsItem `json:"news_items"`
}

// Hit is one raw result from the news search, fed verbatim into the research
// step's prompt.
type Hit struct {
	Title   string
	URL     string
	Date    time.Time
	Excerpt string
}
