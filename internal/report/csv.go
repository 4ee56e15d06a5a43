// Package report renders pipeline results: a CSV export of the
// application records, a console summary and four PNG charts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kbouqdir/jobtrack/internal/track"
)

var csvHeader = []string{"company", "role", "status", "received_at", "source_message_id"}

// CSVName returns the dated export filename for a run.
func CSVName(now time.Time) string {
	return "applications_" + now.Format("20060102") + ".csv"
}

// WriteCSV writes one row per record to path. Timestamps are RFC 3339
// so the export round-trips losslessly through ReadCSV.
func WriteCSV(records []track.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := writeCSV(records, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(records []track.Record, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Company,
			r.Role,
			string(r.Status),
			r.Received.Format(time.RFC3339),
			r.MessageID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an export written by WriteCSV back into records.
func ReadCSV(path string) ([]track.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func readCSV(r io.Reader) ([]track.Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}

	var records []track.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		received, err := time.Parse(time.RFC3339, row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad received_at: %w", line, err)
		}
		status := track.Status(row[2])
		if !status.Valid() {
			return nil, fmt.Errorf("line %d: unknown status %q", line, row[2])
		}

		records = append(records, track.Record{
			Company:   row[0],
			Role:      row[1],
			Status:    status,
			Received:  received,
			MessageID: row[4],
		})
	}
	return records, nil
}
