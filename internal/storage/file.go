package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// FileStore keeps each run in its own directory under baseDir.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(run *Run) (string, error) {
	if err := check(run); err != nil {
		return "", err
	}
	stamp(run)

	runDir := filepath.Join(s.baseDir, run.Meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), run.Meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), run); err != nil {
		return "", err
	}
	return run.Meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeStates(path string, run *Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"time"}, run.Meta.StateNames...)
	for _, c := range run.Derived {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	tr := run.Trajectory
	row := make([]string, len(header))
	for i := range tr.States {
		row = row[:0]
		row = append(row, formatFloat(tr.Times[i]))
		for _, val := range tr.States[i] {
			row = append(row, formatFloat(val))
		}
		for _, c := range run.Derived {
			row = append(row, formatFloat(c.Values[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
func (s *FileStore) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.loadMetadata(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) loadMetadata(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &meta, nil
}

func (s *FileStore) Load(id string) (*Run, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	meta, err := s.loadMetadata(id)
	if err != nil {
		return nil, err
	}

	tr, derived, err := readStates(filepath.Join(s.baseDir, id, statesFile), len(meta.StateNames))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &Run{Meta: *meta, Trajectory: tr, Derived: derived}, nil
}

func readStates(path string, dim int) (*dynamo.Trajectory, []Column, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty states file: %w", dynamo.ErrNoTrajectory)
	}

	header := records[0]
	if len(header) < 1+dim {
		return nil, nil, fmt.Errorf("header has %d columns for %d states: %w", len(header), dim, dynamo.ErrDimensionMismatch)
	}

	rows := records[1:]
	tr := &dynamo.Trajectory{
		Times:  make([]float64, len(rows)),
		States: make([]dynamo.State, len(rows)),
	}
	derived := make([]Column, len(header)-1-dim)
	for j := range derived {
		derived[j] = Column{Name: header[1+dim+j], Values: make([]float64, len(rows))}
	}

	for i, record := range rows {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %q: %w", i+1, header[j], err)
			}
			vals[j] = v
		}
		tr.Times[i] = vals[0]
		tr.States[i] = dynamo.State(vals[1 : 1+dim : 1+dim])
		for j := range derived {
			derived[j].Values[i] = vals[1+dim+j]
		}
	}
	return tr, derived, nil
}
