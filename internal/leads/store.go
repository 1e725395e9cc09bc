package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// LoadCSV reads qualified leads from the pipeline's CSV output. A missing
// file is not an error: the pipeline simply has not produced results yet, so
// an empty collection is returned. Unknown columns are ignored and missing
// columns leave the corresponding fields empty.
func LoadCSV(path string) (*Projects, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Projects{}, nil
		}
		return nil, fmt.Errorf("open leads file: %w", err)
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) (*Projects, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Projects{}, nil
		}
		return nil, fmt.Errorf("read leads header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	projects := &Projects{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read leads row: %w", err)
		}

		record := make(map[string]string, len(header))
		for i, column := range header {
			if i >= len(row) {
				break
			}
			record[column] = strings.TrimSpace(row[i])
		}

		project := &Project{}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "csv",
			Result:  project,
		})
		if err != nil {
			return nil, fmt.Errorf("create leads decoder: %w", err)
		}
		if err := decoder.Decode(record); err != nil {
			return nil, fmt.Errorf("decode leads row: %w", err)
		}

		projects.Items = append(projects.Items, project)
	}

	return projects, nil
}

// Store holds the current lead set in memory and reloads it from the
// pipeline's CSV file on demand. Readers always get a snapshot, so an
// in-flight pipeline run never mutates data under an active request.
type Store struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	projects *Projects
}

func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:     path,
		logger:   logger,
		projects: &Projects{},
	}
}

// Reload re-reads the CSV file and swaps the in-memory set atomically.
func (s *Store) Reload() error {
	projects, err := LoadCSV(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()

	s.logger.Info("leads reloaded",
		zap.String("path", s.path),
		zap.Int("count", projects.Len()),
	)
	return nil
}

// Snapshot returns an independent collection sharing the underlying records.
// Records are read-only by contract, so sharing them is safe.
func (s *Store) Snapshot() *Projects {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*Project, len(s.projects.Items))
	copy(items, s.projects.Items)
	return &Projects{Items: items}
}
