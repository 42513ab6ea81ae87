package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crestline/arrears/recon"
)

// =============================================================================
// DATE NORMALIZATION - Heterogeneous source formats
// =============================================================================

// excelEpoch is the day-zero of spreadsheet serial dates. Serial 1 is
// 1899-12-31; the off-by-two quirk (Lotus leap-year bug) is baked into the
// epoch so plain day addition works.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order. Day-first layouts come first because the
// source statements use them; ISO is accepted for re-imported exports.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"2-1-2006",
	"2/1/2006",
}

// ParseDate normalizes one raw date cell. Accepted forms: day-first or ISO
// strings, and bare integers interpreted as spreadsheet serial dates.
func ParseDate(raw string) (recon.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return recon.Date{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return recon.FromTime(t), nil
		}
	}

	// Spreadsheet serial date (days since the Excel epoch).
	if serial, err := strconv.Atoi(s); err == nil && serial > 0 {
		return recon.FromTime(excelEpoch.AddDate(0, 0, serial)), nil
	}

	return recon.Date{}, fmt.Errorf("unrecognized date %q", s)
}
