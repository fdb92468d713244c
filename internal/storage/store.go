package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/wave"
)

const (
	metadataFile = "metadata.json"
	heightsFile  = "heights.csv"
	probeFile    = "probe.csv"
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

// RunMetadata describes a recorded run. The recording is an output for
// inspection; it cannot be used to resume a surface.
type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Resolution int                `json:"resolution"`
	Width      float64            `json:"width"`
	OriginX    float64            `json:"origin_x"`
	Probe      float64            `json:"probe"`
	Params     wave.Params        `json:"params"`
	Steps      int                `json:"steps"`
	Impulses   int                `json:"impulses"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the recorded frames and probe series under a new run
// directory. ID and Timestamp are filled in and the ID is returned.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Impulses = result.Impulses
	meta.Metrics = result.Metrics

	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, heightsFile), func(f *os.File) error {
		return WriteFramesCSV(f, result.FrameTimes, result.Frames)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, probeFile), func(f *os.File) error {
		return WriteProbeCSV(f, result.Times, result.Probe, result.ProbeVelocity)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// List returns every readable run, newest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the recorded height frames and their times.
func (s *Store) LoadFrames(runID string) ([][]float64, []float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, heightsFile))
	if err != nil {
		return nil, nil, err
	}
	times, rows := splitColumns(records)
	return rows, times, nil
}

// LoadProbe reads the probe series: times, heights and velocities.
func (s *Store) LoadProbe(runID string) (times, heights, velocities []float64, err error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, probeFile))
	if err != nil {
		return nil, nil, nil, err
	}
	times, rows := splitColumns(records)
	heights = make([]float64, 0, len(rows))
	velocities = make([]float64, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		heights = append(heights, row[0])
		velocities = append(velocities, row[1])
	}
	return times, heights, velocities, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
