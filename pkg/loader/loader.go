// pkg/loader/loader.go
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// ErrUndecodable indicates that no attempted text encoding could decode
// an input file. The run must abort before the pipeline starts.
var ErrUndecodable = errors.New("no attempted encoding could decode file")

// Dataset file names as distributed
const (
	AthletesFile = "summerOly_athletes.csv"
	HostsFile    = "summerOly_hosts.csv"
	MedalsFile   = "summerOly_medal_counts.csv"
	ProgramsFile = "summerOly_programs.csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVLoader reads the raw tabular files into in-memory tables. File
// encoding is untrusted: each file is decoded by trying a fixed sequence
// of encodings, mirroring how the dataset is known to be distributed.
type CSVLoader struct {
	logger *zap.Logger
}

// NewCSVLoader creates a new CSVLoader instance
func NewCSVLoader(logger *zap.Logger) (*CSVLoader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &CSVLoader{logger: logger}, nil
}

// LoadDataset loads the four dataset files from the base directory
func (l *CSVLoader) LoadDataset(dir string) (model.Dataset, error) {
	l.logger.Info("Loading data files", zap.String("dataDir", dir))

	var ds model.Dataset
	files := map[string]struct {
		name string
		dest *model.Table
	}{
		model.RoleAthletes: {AthletesFile, &ds.Athletes},
		model.RoleHosts:    {HostsFile, &ds.Hosts},
		model.RoleMedals:   {MedalsFile, &ds.Medals},
		model.RolePrograms: {ProgramsFile, &ds.Programs},
	}

	for role, f := range files {
		table, err := l.LoadTable(filepath.Join(dir, f.name), role)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to load %s table: %w", role, err)
		}
		*f.dest = table

		l.logger.Info("Loaded table",
			zap.String("role", role),
			zap.Int("rows", table.RowCount()),
			zap.Int("columns", len(table.Columns)))
	}

	return ds, nil
}

// LoadTable reads a single CSV file into a table with the given role
func (l *CSVLoader) LoadTable(path, role string) (model.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read file: %w", err)
	}

	text, encodingName, err := decode(raw)
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %s", err, path)
	}

	l.logger.Debug("Decoded file",
		zap.String("path", path),
		zap.String("encoding", encodingName))

	reader := csv.NewReader(strings.NewReader(text))
	records, err := reader.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return model.Table{}, fmt.Errorf("file %s has no header row", path)
	}

	table := model.NewTable(role, records[0])
	table.Rows = records[1:]
	return table, nil
}

// decode attempts the encoding fallback sequence: utf-8, utf-8 with BOM,
// cp1252, latin1. The first encoding producing clean text wins.
func decode(raw []byte) (string, string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		stripped := raw[len(utf8BOM):]
		if utf8.Valid(stripped) {
			return string(stripped), "utf-8-sig", nil
		}
	} else if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		// Windows-1252 leaves a handful of bytes undefined; the decoder
		// substitutes U+FFFD for them, which means the encoding guess
		// was wrong
		if !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded), "cp1252", nil
		}
	}

	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(decoded), "latin1", nil
	}

	return "", "", ErrUndecodable
}
