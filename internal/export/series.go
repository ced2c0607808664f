// Package export writes simulation output as text, CSV and SVG.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/dropsim/internal/sim"
)

// FormatNumber prints v with six significant digits and no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// SeriesWriter writes the two-column time/height series.
type SeriesWriter struct {
	w   *bufio.Writer
	err error
}

func NewSeriesWriter(w io.Writer) *SeriesWriter {
	return &SeriesWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header labelled with the restitution.
func (s *SeriesWriter) WriteHeader(restitution float64) error {
	return s.printf("Time \"Height (R=%s)\"\n", FormatNumber(restitution))
}

func (s *SeriesWriter) WriteRow(t, height float64) error {
	return s.printf("%s %s\n", FormatNumber(t), FormatNumber(height))
}

// Emit is a sim.Driver.Run callback. Write errors are kept until Flush.
func (s *SeriesWriter) Emit(sample sim.Sample) {
	_ = s.WriteRow(sample.Time, sample.Height())
}

func (s *SeriesWriter) Flush() error {
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

func (s *SeriesWriter) printf(format string, args ...any) error {
	if s.err != nil {
		return s.err
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
	return s.err
}

// WriteSeries writes a header and every recorded sample of r.
func WriteSeries(w io.Writer, restitution float64, r *sim.Result) error {
	sw := NewSeriesWriter(w)
	if err := sw.WriteHeader(restitution); err != nil {
		return err
	}
	for i, t := range r.Times {
		if err := sw.WriteRow(t, r.Positions[i].Y()); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// WriteCSV writes times, positions and velocities with a header row.
func WriteCSV(w io.Writer, times []float64, states [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StateColumns); err != nil {
		return err
	}
	for i, t := range times {
		row := []string{FormatNumber(t)}
		for _, v := range states[i] {
			row = append(row, FormatNumber(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// StateColumns names the CSV columns of a stored run.
var StateColumns = []string{"time", "x", "y", "z", "vx", "vy", "vz"}

// States flattens the positions and velocities of r into CSV rows.
func States(r *sim.Result) [][]float64 {
	states := make([][]float64, len(r.Times))
	for i := range r.Times {
		p, v := r.Positions[i], r.Velocities[i]
		states[i] = []float64{p[0], p[1], p[2], v[0], v[1], v[2]}
	}
	return states
}
