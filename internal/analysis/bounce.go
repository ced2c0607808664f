package analysis

import "math"

// Extremum is a local extremum of a sampled series.
type Extremum struct {
	Index int
	Time  float64
	Value float64
}

// FindApexes returns the local maxima of values. A series that starts by
// falling has its first sample reported as an apex.
func FindApexes(times, values []float64) []Extremum {
	n := min(len(times), len(values))
	out := make([]Extremum, 0)
	for i := 0; i < n; i++ {
		if i > 0 && values[i] <= values[i-1] {
			continue
		}
		if i+1 < n && values[i] < values[i+1] {
			continue
		}
		if i+1 == n && i > 0 {
			continue
		}
		out = append(out, Extremum{Index: i, Time: times[i], Value: values[i]})
	}
	return out
}

// FindMinima returns the interior local minima of values.
func FindMinima(times, values []float64) []Extremum {
	n := min(len(times), len(values))
	out := make([]Extremum, 0)
	for i := 1; i+1 < n; i++ {
		if values[i] < values[i-1] && values[i] <= values[i+1] {
			out = append(out, Extremum{Index: i, Time: times[i], Value: values[i]})
		}
	}
	return out
}

// Restitution estimates the coefficient of restitution between two apex
// heights of a sphere of the given radius. It returns NaN when either apex
// does not clear the ground.
func Restitution(h1, h2, radius float64) float64 {
	a, b := h1-radius, h2-radius
	if a <= 0 || b < 0 {
		return math.NaN()
	}
	return math.Sqrt(b / a)
}

// Report summarises the bounces of one run.
type Report struct {
	Apexes   []Extremum
	Contacts []Extremum

	// Restitutions[i] is measured between Apexes[i] and Apexes[i+1].
	Restitutions    []float64
	MeanRestitution float64
	MaxPenetration  float64
}

// Analyze finds apexes and ground contacts in a height series. Minima above
// the contact height (radius plus tolerance) are ignored. Apexes lower than
// minRise above the radius end the analysis, since the sphere has settled.
func Analyze(times, heights []float64, radius, minRise float64) Report {
	r := Report{
		Apexes:       make([]Extremum, 0),
		Contacts:     make([]Extremum, 0),
		Restitutions: make([]float64, 0),
	}

	for _, a := range FindApexes(times, heights) {
		if a.Value-radius < minRise {
			break
		}
		r.Apexes = append(r.Apexes, a)
	}
	for _, m := range FindMinima(times, heights) {
		if m.Value <= radius+minRise {
			r.Contacts = append(r.Contacts, m)
		}
	}
	for _, h := range heights {
		r.MaxPenetration = math.Max(r.MaxPenetration, radius-h)
	}

	sum, count := 0.0, 0
	for i := 1; i < len(r.Apexes); i++ {
		e := Restitution(r.Apexes[i-1].Value, r.Apexes[i].Value, radius)
		r.Restitutions = append(r.Restitutions, e)
		if !math.IsNaN(e) {
			sum += e
			count++
		}
	}
	if count > 0 {
		r.MeanRestitution = sum / float64(count)
	}
	return r
}
