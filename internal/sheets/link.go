package sheets

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBadLink reports that no spreadsheet ID could be extracted.
var ErrBadLink = errors.New("sheets: not a spreadsheet link")

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

// SpreadsheetID extracts the spreadsheet ID from a full Google Sheets
// URL (the segment after /spreadsheets/d/). A bare ID is accepted as-is.
func SpreadsheetID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrBadLink
	}
	if !strings.Contains(raw, "/") {
		if idRe.MatchString(raw) {
			return raw, nil
		}
		return "", ErrBadLink
	}
	parts := strings.Split(raw, "/")
	for i, p := range parts {
		if p == "d" && i+1 < len(parts) {
			if id := strings.TrimSpace(parts[i+1]); idRe.MatchString(id) {
				return id, nil
			}
		}
	}
	return "", ErrBadLink
}
