// Package metrics implements sim.Metric for the sphere-drop scene.
package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/dropsim/internal/sim"
)

// Energy reports the mechanical energy of the sphere at the last observed step.
type Energy struct {
	name    string
	cfg     sim.Config
	current float64
	samples int
}

func NewEnergy(cfg sim.Config) *Energy {
	return &Energy{name: "energy", cfg: cfg}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	e.current = sim.Energy(e.cfg, s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return sim.Energy(e.cfg, sim.Sample{Position: startPosition(e.cfg)})
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyGain is the largest relative increase of mechanical energy over the
// starting energy. Contact steps are skipped because the penetration energy
// stored in the soft contact is not part of the sphere state.
type EnergyGain struct {
	name    string
	cfg     sim.Config
	initial float64
	maxGain float64
	seen    bool
}

func NewEnergyGain(cfg sim.Config) *EnergyGain {
	g := &EnergyGain{name: "energy_gain", cfg: cfg}
	g.Reset()
	return g
}

func (g *EnergyGain) Name() string { return g.name }

func (g *EnergyGain) Observe(s sim.Sample) {
	if s.Contacts > 0 || g.initial == 0 {
		return
	}
	gain := (sim.Energy(g.cfg, s) - g.initial) / math.Abs(g.initial)
	if !g.seen || gain > g.maxGain {
		g.maxGain = gain
	}
	g.seen = true
}

func (g *EnergyGain) Value() float64 { return g.maxGain }

func (g *EnergyGain) Reset() {
	g.initial = sim.Energy(g.cfg, sim.Sample{Position: startPosition(g.cfg)})
	g.maxGain = 0
	g.seen = false
}

func startPosition(cfg sim.Config) mgl64.Vec3 {
	return mgl64.Vec3{0, cfg.StartHeight, 0}
}

// Standard returns the metrics recorded for every stored run.
func Standard(cfg sim.Config) []sim.Metric {
	return []sim.Metric{
		NewEnergy(cfg),
		NewEnergyGain(cfg),
		NewBounces(),
		NewMaxPenetration(cfg.Radius),
	}
}
