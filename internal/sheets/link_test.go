package sheets

import (
	"errors"
	"testing"
)

const testID = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"

func TestSpreadsheetIDFromURL(t *testing.T) {
	urls := []string{
		"https://docs.google.com/spreadsheets/d/" + testID + "/edit#gid=0",
		"https://docs.google.com/spreadsheets/d/" + testID + "/edit?usp=sharing",
		"https://docs.google.com/spreadsheets/d/" + testID,
		"docs.google.com/spreadsheets/d/" + testID + "/edit",
	}
	for _, u := range urls {
		got, err := SpreadsheetID(u)
		if err != nil {
			t.Fatalf("SpreadsheetID(%q) err = %v", u, err)
		}
		if got != testID {
			t.Fatalf("SpreadsheetID(%q) = %q", u, got)
		}
	}
}

func TestSpreadsheetIDBare(t *testing.T) {
	got, err := SpreadsheetID(testID)
	if err != nil || got != testID {
		t.Fatalf("bare id: %q, %v", got, err)
	}
}

func TestSpreadsheetIDRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"not a link",
		"https://example.com/",
		"https://docs.google.com/spreadsheets/",
		"https://docs.google.com/spreadsheets/d/short/edit",
		"https://docs.google.com/document/x/" + testID,
	}
	for _, u := range bad {
		if _, err := SpreadsheetID(u); !errors.Is(err, ErrBadLink) {
			t.Fatalf("SpreadsheetID(%q) err = %v, want ErrBadLink", u, err)
		}
	}
}
