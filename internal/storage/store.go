// Package storage archives finished runs as flat files: one directory per
// run holding metadata.json and snapshots.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/qsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Dt          float64   `json:"dt"`
	Ticks       int       `json:"ticks"`
	StoppedAt   int       `json:"stopped_at"`
	ResetCount  int       `json:"reset_count"`
	PResetCount int       `json:"p_reset_count"`
	TResetCount int       `json:"t_reset_count"`
}

// Series is the per-tick numeric record used by the plot commands.
type Series struct {
	Times  []float64
	P      []float64
	T      []float64
	Resets []float64
}

func (s *Store) Save(cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Ticks:       len(result.Snapshots),
		StoppedAt:   result.StoppedAt,
		ResetCount:  result.ResetCount,
		PResetCount: result.PResetCount,
		TResetCount: result.TResetCount,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "snapshots.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Snapshots) == 0 {
		return runID, nil
	}

	header := []string{"tick", "time", "p", "t", "stopped", "resets", "p_resets", "t_resets"}
	for _, cs := range result.Snapshots[0].Components {
		header = append(header, cs.Name)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, snap := range result.Snapshots {
		row := []string{
			strconv.Itoa(snap.Tick),
			strconv.FormatFloat(snap.Time, 'f', 6, 64),
			strconv.FormatFloat(snap.P, 'f', 6, 64),
			strconv.FormatFloat(snap.T, 'f', 6, 64),
			strconv.FormatBool(snap.Stopped),
			strconv.Itoa(snap.ResetCount),
			strconv.Itoa(snap.PResetCount),
			strconv.Itoa(snap.TResetCount),
		}
		for _, cs := range snap.Components {
			row = append(row, cs.State.String())
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 8 {
			continue
		}

		tm, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		p, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		tc, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			continue
		}
		resets, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			continue
		}

		series.Times = append(series.Times, tm)
		series.P = append(series.P, p)
		series.T = append(series.T, tc)
		series.Resets = append(series.Resets, resets)
	}

	return series, nil
}
