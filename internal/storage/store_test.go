package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pworld/internal/scenario"
	"github.com/san-kum/pworld/internal/world"
)

func testResult() *scenario.Result {
	return &scenario.Result{
		Name: "test",
		Dt:   0.01,
		Samples: []scenario.Sample{
			{Frame: 1, Time: 0.01, LowestY: 2, KineticEnergy: 1.5, Particles: 3},
			{
				Frame: 2, Time: 0.02, LowestY: -0.25, KineticEnergy: 1.25, Particles: 3,
				Stats: world.FrameStats{Contacts: 2, Truncated: true, MaxPenetration: 0.25, Iterations: 4, Swept: 1, Effects: 2},
			},
		},
		Metrics: map[string]float64{"contact_load": 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "test", Seed: 42, Dt: 0.01, MaxContacts: 8}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "test" || meta.Seed != 42 || meta.Frames != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["contact_load"] != 1 {
		t.Errorf("expected contact_load 1, got %f", meta.Metrics["contact_load"])
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1] != testResult().Samples[1] {
		t.Errorf("sample mismatch:\n got %+v\nwant %+v", samples[1], testResult().Samples[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(RunMetadata{Scenario: name}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scenario != "a" {
		t.Errorf("runs not in save order: %s first", runs[0].Scenario)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", runs, err)
	}
}

func TestLoadFrames_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runDir := filepath.Join(dir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "frame,time\n1,0.01\nx,0.02,0,false,0,0,0,0,0,0,0\n3,0.03,1,true,0.5,2,0,0,-0.5,1,1\n"
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := st.LoadFrames("bad")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Frame != 3 {
		t.Errorf("expected only frame 3, got %+v", samples)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	res := testResult()
	if err := ExportJSON(&buf, RunMetadata{ID: "run_1", Scenario: "test"}, res.Samples); err != nil {
		t.Fatal(err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Run.ID != "run_1" || len(out.Samples) != 2 {
		t.Errorf("unexpected export: %+v", out)
	}
}
