package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pillacela/animaciones/internal/geom"
	"github.com/pillacela/animaciones/internal/sketch"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"

	// columns before the per-agent x,y pairs
	fixedColumns = 5
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
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Agents    int                `json:"agents"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	FPS       int                `json:"fps"`
	Frames    int                `json:"frames"`
	Track     string             `json:"track,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameRecord is the state of a simulation right after one frame.
type FrameRecord struct {
	Frame     int
	Bands     sketch.Bands
	MeanSpeed float64
	Positions []geom.Vec2
}

// Capture snapshots sim after a frame driven by bands.
func Capture(sim *sketch.Simulation, bands sketch.Bands) FrameRecord {
	agents := sim.Agents()
	rec := FrameRecord{
		Frame:     sim.FrameCount(),
		Bands:     bands,
		MeanSpeed: sim.MeanSpeed(),
		Positions: make([]geom.Vec2, len(agents)),
	}
	for i, a := range agents {
		rec.Positions[i] = a.Pos
	}
	return rec
}

// Save writes meta and frames under a new run directory and returns its id.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("sketch_%d", meta.Timestamp.UnixNano())
	}
	meta.Frames = len(frames)
	if meta.Metrics == nil {
		meta.Metrics = summarize(frames)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	w := csv.NewWriter(csvFile)

	header := []string{"frame", "low", "mid", "high", "mean_speed"}
	for i := 0; i < meta.Agents; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			formatFloat(f.Bands.Low),
			formatFloat(f.Bands.Mid),
			formatFloat(f.Bands.High),
			formatFloat(f.MeanSpeed),
		}
		for _, p := range f.Positions {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func summarize(frames []FrameRecord) map[string]float64 {
	m := map[string]float64{}
	if len(frames) == 0 {
		return m
	}
	var low, mid, high, speed float64
	for _, f := range frames {
		low += f.Bands.Low
		mid += f.Bands.Mid
		high += f.Bands.High
		speed += f.MeanSpeed
	}
	n := float64(len(frames))
	m["mean_low"] = low / n
	m["mean_mid"] = mid / n
	m["mean_high"] = high / n
	m["mean_speed"] = speed / n
	return m
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
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
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < fixedColumns {
			return nil, fmt.Errorf("%s line %d: expected at least %d columns, got %d", framesFile, i+2, fixedColumns, len(record))
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %d: %w", framesFile, i+2, j+1, err)
			}
			vals[j] = v
		}

		f := FrameRecord{
			Frame:     int(vals[0]),
			Bands:     sketch.Bands{Low: vals[1], Mid: vals[2], High: vals[3]},
			MeanSpeed: vals[4],
		}
		for j := fixedColumns; j+1 < len(vals); j += 2 {
			f.Positions = append(f.Positions, geom.V(vals[j], vals[j+1]))
		}
		frames = append(frames, f)
	}

	return frames, nil
}
