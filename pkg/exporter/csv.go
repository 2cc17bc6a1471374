// pkg/exporter/csv.go
package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
	"github.com/WillBetts22/MCM-Stage1/pkg/standardize"
)

// Output file names
const (
	AthletesOut      = "athletes_standardized.csv"
	HostsOut         = "hosts_standardized.csv"
	MedalsOut        = "medals_standardized.csv"
	ProgramsOut      = "programs_standardized.csv"
	ActiveOut        = "active_athletes.csv"
	StrengthOut      = "country_features.csv"
	TrendsOut        = "medal_trends.csv"
	SportStrengthOut = "sport_strength.csv"
)

// CSVWriter persists standardized tables as flat CSV files with a header
// row, one row per record
type CSVWriter struct {
	dir    string
	logger *zap.Logger
}

// NewCSVWriter creates a writer targeting the given output directory
func NewCSVWriter(dir string, logger *zap.Logger) (*CSVWriter, error) {
	if dir == "" {
		return nil, errors.New("output directory cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &CSVWriter{dir: dir, logger: logger}, nil
}

// WriteTable writes one table to the named file inside the output
// directory, creating the directory if needed
func (w *CSVWriter) WriteTable(t model.Table, filename string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return err
	}

	w.logger.Info("Saved table",
		zap.String("file", filename),
		zap.String("role", t.Role),
		zap.Int("rows", t.RowCount()))
	return nil
}

// WriteResult persists every artifact of a completed run: the four
// cleaned tables, the active subset, and the derived feature tables.
// Feature tables omitted for missing optional columns are skipped.
func (w *CSVWriter) WriteResult(res *standardize.Result) error {
	outputs := []struct {
		table    model.Table
		filename string
	}{
		{res.Cleaned.Athletes, AthletesOut},
		{res.Cleaned.Hosts, HostsOut},
		{res.Cleaned.Medals, MedalsOut},
		{res.Cleaned.Programs, ProgramsOut},
		{res.Active, ActiveOut},
		{res.Features.Strength, StrengthOut},
		{res.Features.Trends, TrendsOut},
		{res.Features.SportStrength, SportStrengthOut},
	}

	for _, out := range outputs {
		if len(out.table.Columns) == 0 {
			w.logger.Warn("Skipping omitted table", zap.String("file", out.filename))
			continue
		}
		if err := w.WriteTable(out.table, out.filename); err != nil {
			return fmt.Errorf("failed to save %s: %w", out.filename, err)
		}
	}

	return nil
}
