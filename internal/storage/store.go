package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pworld/internal/scenario"
	"github.com/san-kum/pworld/internal/world"
)

var frameHeader = []string{
	"frame", "time", "contacts", "truncated", "max_penetration",
	"iterations", "swept", "effects", "lowest_y", "kinetic_energy", "particles",
}

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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Frames      int                `json:"frames"`
	MaxContacts int                `json:"max_contacts"`
	Iterations  int                `json:"iterations"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and frames.csv into a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, result *scenario.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	meta.Timestamp = now
	meta.Frames = len(result.Samples)
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteFrames writes one CSV row per sample.
func WriteFrames(f io.Writer, samples []scenario.Sample) error {
	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			ff(s.Time),
			strconv.Itoa(s.Stats.Contacts),
			strconv.FormatBool(s.Stats.Truncated),
			ff(s.Stats.MaxPenetration),
			strconv.Itoa(s.Stats.Iterations),
			strconv.Itoa(s.Stats.Swept),
			strconv.Itoa(s.Stats.Effects),
			ff(s.LowestY),
			ff(s.KineticEnergy),
			strconv.Itoa(s.Particles),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadFrames reads back the samples written by Save. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]scenario.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
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
		return []scenario.Sample{}, nil
	}

	samples := make([]scenario.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(frameHeader) {
			continue
		}
		s, err := parseFrame(rec)
		if err != nil {
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseFrame(rec []string) (scenario.Sample, error) {
	var (
		s    scenario.Sample
		st   world.FrameStats
		errs []error
	)
	atoi := func(v string) int {
		n, err := strconv.Atoi(v)
		errs = append(errs, err)
		return n
	}
	atof := func(v string) float64 {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, err)
		return f
	}

	s.Frame = atoi(rec[0])
	s.Time = atof(rec[1])
	st.Contacts = atoi(rec[2])
	truncated, err := strconv.ParseBool(rec[3])
	errs = append(errs, err)
	st.Truncated = truncated
	st.MaxPenetration = atof(rec[4])
	st.Iterations = atoi(rec[5])
	st.Swept = atoi(rec[6])
	st.Effects = atoi(rec[7])
	s.LowestY = atof(rec[8])
	s.KineticEnergy = atof(rec[9])
	s.Particles = atoi(rec[10])
	s.Stats = st

	for _, err := range errs {
		if err != nil {
			return s, err
		}
	}
	return s, nil
}
