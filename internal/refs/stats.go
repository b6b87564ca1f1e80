package refs

import (
	"math"

	"git.home.luguber.info/inful/docsite/internal/document"
)

// Stats summarizes reference resolution for a whole run.
type Stats struct {
	Total       int     `json:"total"`
	Valid       int     `json:"valid"`
	Broken      int     `json:"broken"`
	SuccessRate float64 `json:"success_rate"` // percent, rounded to 2 decimals
}

// ComputeStats aggregates the given cross references. An empty input yields a
// success rate of 100 by definition.
func ComputeStats(refs []document.CrossReference) Stats {
	s := Stats{Total: len(refs)}
	for _, cr := range refs {
		if cr.IsValid {
			s.Valid++
		}
	}
	s.Broken = s.Total - s.Valid

	if s.Total == 0 {
		s.SuccessRate = 100
		return s
	}
	s.SuccessRate = math.Round(float64(s.Valid)/float64(s.Total)*10000) / 100
	return s
}
