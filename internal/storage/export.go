package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/wavesim/internal/sim"
)

type ExportData struct {
	Meta          RunMetadata `json:"meta"`
	FrameTimes    []float64   `json:"frame_times"`
	Frames        [][]float64 `json:"frames"`
	Times         []float64   `json:"times"`
	Probe         []float64   `json:"probe"`
	ProbeVelocity []float64   `json:"probe_velocity"`
}

// ExportJSON writes the run and its recordings as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Meta:          meta,
		FrameTimes:    result.FrameTimes,
		Frames:        result.Frames,
		Times:         result.Times,
		Probe:         result.Probe,
		ProbeVelocity: result.ProbeVelocity,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteFramesCSV writes a time,h0..hN header and one row per frame.
func WriteFramesCSV(w io.Writer, times []float64, frames [][]float64) error {
	cw := csv.NewWriter(w)

	if len(frames) > 0 {
		header := []string{"time"}
		for i := range frames[0] {
			header = append(header, fmt.Sprintf("h%d", i))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for i, frame := range frames {
		row := make([]string, 0, len(frame)+1)
		row = append(row, formatFloat(at(times, i)))
		for _, v := range frame {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteProbeCSV writes time,height,velocity rows.
func WriteProbeCSV(w io.Writer, times, heights, velocities []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "height", "velocity"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{formatFloat(times[i]), formatFloat(at(heights, i)), formatFloat(at(velocities, i))}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// splitColumns drops the header and returns column 0 and the remaining
// columns of every parseable row.
func splitColumns(records [][]string) ([]float64, [][]float64) {
	if len(records) < 2 {
		return []float64{}, [][]float64{}
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		times = append(times, t)
		rows = append(rows, row)
	}
	return times, rows
}
