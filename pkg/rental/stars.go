package rental

import "math"

const StarSlots = 5

// Stars is how an average rating is drawn: Full + Half + Quarter + Empty
// always equals StarSlots.
type Stars struct {
	Full    int `json:"full"`
	Half    int `json:"half"`
	Quarter int `json:"quarter"`
	Empty   int `json:"empty"`
}

func StarBreakdown(r float64) Stars {
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	if r > MaxScore {
		r = MaxScore
	}

	s := Stars{Full: int(math.Floor(r))}
	frac := r - math.Floor(r)
	switch {
	case frac >= 0.5:
		s.Half = 1
	case frac >= 0.25:
		s.Quarter = 1
	}
	s.Empty = StarSlots - s.Full - s.Half - s.Quarter
	return s
}
