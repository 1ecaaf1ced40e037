package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsdigest/internal/model"
)

func TestRowValuesOrder(t *testing.T) {
	item := model.NewsItem{
		Title:           "T",
		Summary:         "S",
		URL:             "https://example.com/a",
		PublicationDate: model.NewDate(2024, 1, 1),
		Rating:          8,
	}

	row := rowValues(item)

	assert.Equal(t, []interface{}{"2024-01-01", "T", "S", "https://example.com/a", 8}, row)
}
