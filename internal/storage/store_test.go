package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/wave"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames:        [][]float64{{0, 0, 0}, {0, 0.5, 0}},
		FrameTimes:    []float64{0, 0.01},
		Probe:         []float64{0.1, 0.2},
		ProbeVelocity: []float64{0, 1.5},
		Times:         []float64{0, 0.01},
		Metrics:       map[string]float64{"energy": 1.5},
		StepsTaken:    1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{Preset: "calm", Seed: 42, Dt: 0.01, Duration: 0.01, Resolution: 3, Width: 2, Params: wave.DefaultParams()}
	runID, err := st.Save(meta, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "calm_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Steps != 1 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Params != wave.DefaultParams() {
		t.Errorf("params not preserved: %+v", loaded.Params)
	}
	if loaded.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", loaded.Metrics["energy"])
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 frames, got %d/%d", len(frames), len(times))
	}
	if frames[1][1] != 0.5 || times[1] != 0.01 {
		t.Errorf("unexpected frame data %v at %v", frames[1], times[1])
	}

	pt, ph, pv, err := st.LoadProbe(runID)
	if err != nil {
		t.Fatalf("load probe failed: %v", err)
	}
	if len(pt) != 2 || ph[1] != 0.2 || pv[1] != 1.5 {
		t.Errorf("unexpected probe %v %v %v", pt, ph, pv)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray directory without metadata is ignored
	if err := os.Mkdir(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids should be unique")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Preset: "storm"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, heightsFile, probeFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, _ := os.ReadFile(filepath.Join(tmpDir, runID, heightsFile))
	if !strings.HasPrefix(string(data), "time,h0,h1,h2\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "x"}, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Meta.ID != "x" || len(data.Frames) != 2 || len(data.ProbeVelocity) != 2 {
		t.Errorf("unexpected export %+v", data)
	}
}

func TestSave_RealRun(t *testing.T) {
	surf, _ := wave.NewSurface(16, 10, nil)
	surf.AddImpulse(5, 2, 2)
	res, err := sim.New(surf).Run(context.Background(), sim.Config{Dt: 0.05, Duration: 0.5, Probe: 5, RecordEvery: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Resolution: 16, Width: 10}, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != len(res.Frames) || len(frames[0]) != 16 {
		t.Errorf("expected %d frames of 16, got %d", len(res.Frames), len(frames))
	}
}
