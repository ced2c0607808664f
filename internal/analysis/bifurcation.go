package analysis

import "github.com/san-kum/dropsim/internal/sim"

// BifurcationPoint holds the apex heights reached for one parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// ApexDiagram collects the apex heights of every successful sweep run,
// skipping the release apex and keeping at most maxApexes per run.
func ApexDiagram(runs []sim.SweepRun, minRise float64, maxApexes int) []BifurcationPoint {
	out := make([]BifurcationPoint, 0, len(runs))
	for _, run := range runs {
		if run.Err != nil || run.Result == nil {
			continue
		}
		report := Analyze(run.Result.Times, run.Result.Heights(), run.Config.Radius, minRise)

		values := make([]float64, 0, len(report.Apexes))
		for i, a := range report.Apexes {
			if i == 0 {
				continue
			}
			if maxApexes > 0 && len(values) >= maxApexes {
				break
			}
			values = append(values, a.Value)
		}
		out = append(out, BifurcationPoint{Param: run.Value, Values: values})
	}
	return out
}

// BifurcationToASCII plots each parameter value as a column of apex heights.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	g := newGrid(width, height)
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			g[row][col] = '•'
		}
	}
	return g.String()
}
