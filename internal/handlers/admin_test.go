package handlers

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/Sanchit081/NeuroBit/internal/models"
)

func TestBuildExportRowsJoinsInterests(t *testing.T) {
	subscribedAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := buildExportRows([]models.Subscriber{
		{
			Email:        "a@b.com",
			Name:         "A,B",
			Interests:    models.StringList{"x", "y"},
			Source:       "website",
			SubscribedAt: subscribedAt,
		},
	})

	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].Interests != "x; y" {
		t.Fatalf("expected interests joined with '; ', got %q", rows[0].Interests)
	}
	if rows[0].SubscribedAt != "2025-03-14" {
		t.Fatalf("expected YYYY-MM-DD date, got %q", rows[0].SubscribedAt)
	}
}

// A name with an embedded comma (and even a quote) must survive a round trip
// through a standard CSV parser.
func TestSubscriberExportRoundTrip(t *testing.T) {
	rows := buildExportRows([]models.Subscriber{
		{
			Email:        "a@b.com",
			Name:         `A,B "the builder"`,
			Interests:    models.StringList{"x", "y"},
			Source:       "website",
			SubscribedAt: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	})

	content, err := gocsv.MarshalString(&rows)
	if err != nil {
		t.Fatalf("csv marshal failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("standard csv parser rejected the export: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}

	header := records[0]
	want := []string{"Email", "Name", "Interests", "Source", "Subscribed At"}
	for i, col := range want {
		if header[i] != col {
			t.Fatalf("expected header %v, got %v", want, header)
		}
	}

	row := records[1]
	if row[0] != "a@b.com" || row[1] != `A,B "the builder"` || row[2] != "x; y" {
		t.Fatalf("round trip corrupted the row: %v", row)
	}
}
