package order

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{
	"time",
	"user_id",
	"username",
	"name",
	"phone",
	"address",
	"location",
	"items",
	"note",
	"total",
	"status",
}

// CSVAppender appends order rows to a CSV file, writing the header when
// the file does not exist yet.
type CSVAppender struct {
	mu   sync.Mutex
	path string
}

// NewCSVAppender constructs a CSVAppender writing to path.
func NewCSVAppender(path string) *CSVAppender {
	return &CSVAppender{path: path}
}

// Append writes rec as a CSV row, creating the file with a header row first.
func (a *CSVAppender) Append(rec Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, statErr := os.Stat(a.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open order log %q: %w", a.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if isNew {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write order log header: %w", err)
		}
	}

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	row := []string{
		ts.Format("2006-01-02T15:04:05"),
		strconv.FormatInt(rec.UserID, 10),
		rec.Username,
		rec.Name,
		rec.Phone,
		rec.Address,
		rec.Location,
		rec.Items,
		rec.Note,
		strconv.FormatInt(rec.Total, 10),
		rec.Status,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write order row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush order log: %w", err)
	}

	return nil
}
