package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/sweep"
)

type ExportData struct {
	DesignID  string             `json:"design_id"`
	Topology  string             `json:"topology"`
	Variables map[string]float64 `json:"variables"`
	Frames    []sweep.Frame      `json:"frames"`
}

func exportData(m motor.Model, frames []sweep.Frame) ExportData {
	variables := make(map[string]float64)
	for _, v := range m.Variables() {
		variables[v.Name] = v.Value
	}
	return ExportData{
		DesignID:  m.ID(),
		Topology:  string(m.Topology()),
		Variables: variables,
		Frames:    frames,
	}
}

func ExportFramesJSON(path string, m motor.Model, frames []sweep.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeFramesJSON(file, m, frames)
}

func ExportFramesJSONStdout(m motor.Model, frames []sweep.Frame) error {
	return writeFramesJSON(os.Stdout, m, frames)
}

func writeFramesJSON(w io.Writer, m motor.Model, frames []sweep.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(m, frames))
}

// ExportFramesCSV writes one row per frame: position, phase currents and
// every scalar found across the frames, in name order. Frames whose run
// failed leave their scalar columns empty.
func ExportFramesCSV(path string, frames []sweep.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	names := scalarNames(frames)
	header := append([]string{"position", "ia", "ib", "ic"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Position, 'f', 6, 64),
			strconv.FormatFloat(f.Currents[0], 'f', 6, 64),
			strconv.FormatFloat(f.Currents[1], 'f', 6, 64),
			strconv.FormatFloat(f.Currents[2], 'f', 6, 64),
		}
		for _, name := range names {
			if s, ok := f.Result.Scalar(name); ok {
				row = append(row, strconv.FormatFloat(s.Value, 'f', 6, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func scalarNames(frames []sweep.Frame) []string {
	seen := make(map[string]bool)
	for _, f := range frames {
		for _, d := range f.Result.Domains {
			for name := range d.Scalars {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
