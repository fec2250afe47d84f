package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/hexbounce/internal/sim"
)

// ExportData is the JSON form of a stored run.
type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Frames []FrameExport `json:"frames"`
}

type FrameExport struct {
	Time          float64      `json:"time"`
	Offset        [2]float64   `json:"offset"`
	KineticEnergy float64      `json:"kinetic_energy"`
	Bodies        []BodyExport `json:"bodies"`
}

type BodyExport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius,omitempty"`
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Meta:   meta,
		Frames: make([]FrameExport, len(frames)),
	}

	for i, f := range frames {
		fe := FrameExport{
			Time:          f.Time,
			Offset:        [2]float64(f.Offset),
			KineticEnergy: f.KineticEnergy,
			Bodies:        make([]BodyExport, len(f.Bodies)),
		}
		for j, b := range f.Bodies {
			fe.Bodies[j] = BodyExport{X: b.Pos[0], Y: b.Pos[1], VX: b.Vel[0], VY: b.Vel[1], Radius: b.Radius}
		}
		data.Frames[i] = fe
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteFramesCSV writes one row per frame: time, container offset, kinetic
// energy, then position and velocity of every body.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)

	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "offset_x", "offset_y", "kinetic_energy"}
	for i := range frames[0].Bodies {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 0, len(header))
		row = append(row, ff(f.Time), ff(f.Offset[0]), ff(f.Offset[1]), ff(f.KineticEnergy))
		for _, b := range f.Bodies {
			row = append(row, ff(b.Pos[0]), ff(b.Pos[1]), ff(b.Vel[0]), ff(b.Vel[1]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
