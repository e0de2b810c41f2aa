package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"filter-portal/internal/engine"
	"filter-portal/internal/scene"
)

// FrameRecord is one frame in the output manifest.
type FrameRecord struct {
	Index          int      `json:"index"`
	Step           int      `json:"step"`
	Image          string   `json:"image"`
	Actions        []string `json:"actions,omitempty"`
	Skipped        string   `json:"skipped,omitempty"`
	Placed         bool     `json:"placed"`
	PlacementID    string   `json:"placement_id,omitempty"`
	Case           string   `json:"case,omitempty"`
	Phase          string   `json:"phase"`
	Visible        bool     `json:"visible"`
	FrameBigger    bool     `json:"frame_bigger_than_camera"`
	InFilteredSide bool     `json:"in_filtered_side"`
	DidEnterPortal bool     `json:"did_enter_portal"`
	CropShape      string   `json:"crop_shape,omitempty"`
	DeltaZ         float64  `json:"delta_z"`
	Filter         string   `json:"filter"`
}

func newRecord(fp scene.FramePlan, rep engine.Report, actions []string) FrameRecord {
	rec := FrameRecord{
		Index:          fp.Index,
		Step:           fp.Step,
		Actions:        actions,
		Placed:         rep.Placed,
		Phase:          rep.State.Phase().String(),
		Visible:        rep.Visible,
		FrameBigger:    rep.State.FrameBiggerThanCamera,
		InFilteredSide: rep.State.InFilteredSide,
		DidEnterPortal: rep.State.DidEnterPortal,
		DeltaZ:         rep.DeltaZ,
		Filter:         rep.Filter,
	}
	if rep.Placed {
		rec.PlacementID = rep.PlacementID.String()
	}
	if rep.Case != 0 {
		rec.Case = rep.Case.String()
	}
	if rep.Shape {
		rec.CropShape = rep.ShapeMode.String()
	}
	return rec
}

// Manifest describes one batch run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Scenes  []ManifestScene `json:"scenes"`
}

// ManifestScene is one scene's entry in the manifest.
type ManifestScene struct {
	Name    string        `json:"name"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Skipped int           `json:"skipped"`
	Frames  []FrameRecord `json:"frames"`
}

// NewManifest builds a manifest for results under a fresh run ID.
func NewManifest(results []Result) Manifest {
	m := Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Scenes:  make([]ManifestScene, len(results)),
	}
	for i, r := range results {
		m.Scenes[i] = ManifestScene{
			Name:    r.Scene,
			Success: r.Success,
			Error:   r.Error,
			Skipped: r.Skipped,
			Frames:  r.Frames,
		}
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
