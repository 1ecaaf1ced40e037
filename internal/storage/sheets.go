// Package storage persists published news items. Two backends implement the
// same append-only contract: a Google Sheets worksheet (one row per item, urls
// in column D) and a Postgres table.
package storage

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"newsdigest/internal/model"
)

// Rows carry (date, title, summary, url, rating); the url column is queried
// for deduplication.
const (
	urlColumnRange = "!D:D"
	appendRange    = "!A:E"
)

type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// URLs returns every value in the url column, including rows written by other
// processes since this one started.
func (s *SheetsStore) URLs(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+urlColumnRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read url column: %w", err)
	}

	var urls []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if u, ok := row[0].(string); ok && u != "" {
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// Append writes one row per item in input order. It stops on the first failure
// and reports how many rows made it; the written prefix stands.
func (s *SheetsStore) Append(ctx context.Context, items []model.NewsItem) (int, error) {
	appended := 0
	for _, item := range items {
		vr := &sheets.ValueRange{Values: [][]interface{}{rowValues(item)}}

		_, err := s.svc.Spreadsheets.Values.
			Append(s.spreadsheetID, s.sheetName+appendRange, vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err != nil {
			return appended, fmt.Errorf("append row for %s: %w", item.URL, err)
		}

		appended++
	}

	return appended, nil
}

func rowValues(item model.NewsItem) []interface{} {
	return []interface{}{
		item.PublicationDate.String(),
		item.Title,
		item.Summary,
		item.URL,
		item.Rating,
	}
}
