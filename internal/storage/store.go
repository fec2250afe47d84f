package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/hexbounce/internal/geom"
	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	// frameFixed is the number of columns before the per-body block.
	frameFixed = 4
	bodyCols   = 4
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Sides     int                `json:"sides"`
	HexRadius float64            `json:"hex_radius"`
	Requested int                `json:"requested"`
	Radii     []float64          `json:"radii"`
	ShakeAt   []float64          `json:"shake_at"`
	Steps     int                `json:"steps"`
	Shakes    int                `json:"shakes"`
	Contacts  int                `json:"contacts"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the sampled frames of result under a new run
// directory and returns its id. ID, Timestamp and the run counters in meta
// are filled in here.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID, runDir, err := s.newRunDir(name)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Shakes = result.Shakes
	meta.Contacts = result.Contacts
	meta.Metrics = result.Metrics
	if len(result.Frames) > 0 && meta.Radii == nil {
		for _, b := range result.Frames[0].Bodies {
			meta.Radii = append(meta.Radii, b.Radius)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(name string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			if err := os.MkdirAll(runDir, 0755); err != nil {
				return "", "", err
			}
			return runID, runDir, nil
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

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

// LoadFrames reads the recorded frames of a run. Body radii come from the
// run metadata when it is available.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
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

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	var radii []float64
	if meta, err := s.Load(runID); err == nil {
		radii = meta.Radii
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < frameFixed {
			continue
		}

		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		f := sim.Frame{
			Time:          vals[0],
			Offset:        geom.V(vals[1], vals[2]),
			KineticEnergy: vals[3],
		}
		n := (len(vals) - frameFixed) / bodyCols
		f.Bodies = make([]physics.Body, n)
		for i := 0; i < n; i++ {
			c := frameFixed + i*bodyCols
			f.Bodies[i].Pos = geom.V(vals[c], vals[c+1])
			f.Bodies[i].Vel = geom.V(vals[c+2], vals[c+3])
			if i < len(radii) {
				f.Bodies[i].Radius = radii[i]
			}
		}
		frames = append(frames, f)
	}

	return frames, nil
}
