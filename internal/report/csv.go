// Package report renders expense listings for export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"budgetbot/internal/core"
)

// Header is the first CSV row: every expense field except the store id.
var Header = []string{"uid", "username", "amount", "name", "category", "timestamp"}

// WriteCSV writes expenses as CSV with a header row. Amounts are written
// exactly as stored and timestamps are RFC 3339 in UTC.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write([]string{
			strconv.FormatInt(e.UserID, 10),
			e.Username,
			e.Amount.String(),
			e.Name,
			e.Category,
			e.Timestamp.UTC().Format(time.RFC3339),
		}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is the name of the export document for one user and month.
func FileName(userID int64, month core.Month) string {
	return fmt.Sprintf("expenses_%d_%s.csv", userID, month)
}
