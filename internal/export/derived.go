package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/viz"
)

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Derived holds every observable of one solved model, aligned with T.
type Derived struct {
	Model  string             `json:"model"`
	Params map[string]float64 `json:"params"`
	T      []float64          `json:"t"`
	Series []Series           `json:"series"`
}

type accessor struct {
	name string
	fn   func() ([]float64, error)
}

func collect(model string, params map[string]float64, t func() ([]float64, error), accessors []accessor) (*Derived, error) {
	times, err := t()
	if err != nil {
		return nil, err
	}
	d := &Derived{Model: model, Params: params, T: times, Series: make([]Series, 0, len(accessors))}
	for _, a := range accessors {
		vals, err := a.fn()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.name, err)
		}
		d.Series = append(d.Series, Series{Name: a.name, Values: vals})
	}
	return d, nil
}

func FromPendulum(p *physics.Pendulum) (*Derived, error) {
	return collect("pendulum", p.GetParams(), p.T, []accessor{
		{"theta", p.Theta},
		{"omega", p.Omega},
		{"x", p.X},
		{"y", p.Y},
		{"vx", p.VX},
		{"vy", p.VY},
		{"potential", p.Potential},
		{"kinetic", p.Kinetic},
		{"total_energy", p.TotalEnergy},
	})
}

func FromDoublePendulum(d *physics.DoublePendulum) (*Derived, error) {
	return collect("double_pendulum", d.GetParams(), d.T, []accessor{
		{"theta1", d.Theta1},
		{"omega1", d.Omega1},
		{"theta2", d.Theta2},
		{"omega2", d.Omega2},
		{"x1", d.X1},
		{"y1", d.Y1},
		{"x2", d.X2},
		{"y2", d.Y2},
		{"vx1", d.VX1},
		{"vy1", d.VY1},
		{"vx2", d.VX2},
		{"vy2", d.VY2},
		{"potential", d.Potential},
		{"kinetic", d.Kinetic},
		{"total_energy", d.TotalEnergy},
	})
}

// Get returns the named series.
func (d *Derived) Get(name string) ([]float64, bool) {
	for _, s := range d.Series {
		if s.Name == name {
			return s.Values, true
		}
	}
	return nil, false
}

// Frames turns the bob positions into animation frames. Single pendulums
// carry x, y; double pendulums x1, y1, x2, y2.
func (d *Derived) Frames() ([]viz.Frame, error) {
	names := []string{"x1", "y1", "x2", "y2"}
	if _, ok := d.Get("x"); ok {
		names = []string{"x", "y"}
	}
	coords := make([][]float64, len(names))
	for i, n := range names {
		v, ok := d.Get(n)
		if !ok {
			return nil, fmt.Errorf("frames: %s model has no %q series: %w", d.Model, n, dynamo.ErrDimensionMismatch)
		}
		coords[i] = v
	}
	return viz.Frames(d.T, coords...)
}

func (d *Derived) Validate() error {
	for _, s := range d.Series {
		if len(s.Values) != len(d.T) {
			return fmt.Errorf("series %s has %d values for %d times: %w", s.Name, len(s.Values), len(d.T), dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}

func WriteJSON(w io.Writer, d *Derived) error {
	if err := d.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func ReadJSON(r io.Reader) (*Derived, error) {
	var d Derived
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteCSV writes one row per sample: t followed by every series.
func WriteCSV(w io.Writer, d *Derived) error {
	if err := d.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(d.Series)+1)
	header = append(header, "t")
	for _, s := range d.Series {
		header = append(header, s.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range d.T {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, s := range d.Series {
			row[j+1] = strconv.FormatFloat(s.Values[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
