package workspace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SizeSummary describes stored content lengths in bytes. Media is measured
// as its data URI, which is what counts against persistence quotas.
type SizeSummary struct {
	Files  int     `json:"files"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// SizeStats summarizes file sizes across the workspace and per kind.
func (m *Manager) SizeStats() map[string]SizeSummary {
	m.mu.RLock()
	all := []float64{}
	byKind := make(map[string][]float64)
	for _, p := range m.tree.Projects {
		for _, f := range p.Files() {
			n := float64(len(f.Content))
			all = append(all, n)
			byKind[f.Kind.String()] = append(byKind[f.Kind.String()], n)
		}
	}
	m.mu.RUnlock()

	out := make(map[string]SizeSummary, len(byKind)+1)
	out["all"] = summarize(all)
	for kind, sizes := range byKind {
		out[kind] = summarize(sizes)
	}
	return out
}

func summarize(sizes []float64) SizeSummary {
	if len(sizes) == 0 {
		return SizeSummary{}
	}
	sort.Float64s(sizes)
	return SizeSummary{
		Files:  len(sizes),
		Total:  floats.Sum(sizes),
		Mean:   stat.Mean(sizes, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sizes, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sizes, nil),
		Max:    floats.Max(sizes),
	}
}
