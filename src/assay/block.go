package assay

import "math"

// Block is a named group of replicate experiments averaged into one plotted
// line. After Average, Times/Values/Errors are index-correlated and contain
// only timestamps present in every member experiment.
type Block struct {
	Name        string
	Experiments []*Experiment

	Times  []int
	Values []float64
	Errors []float64
}

// Average aligns the members on shared integer timestamps and computes the
// per-timestamp mean and population standard deviation.
//
// The first member's time sequence drives the iteration: a timestamp absent
// from any other member is dropped entirely — no interpolation, no partial
// averaging. A single-member block gets zero errors everywhere.
func (b *Block) Average() {
	b.Times, b.Values, b.Errors = nil, nil, nil
	if len(b.Experiments) == 0 {
		return
	}

	members := make([]map[int]bool, len(b.Experiments))
	for i, e := range b.Experiments {
		set := make(map[int]bool, len(e.Times))
		for _, t := range e.Times {
			set[t] = true
		}
		members[i] = set
	}

	vals := make([]float64, len(b.Experiments))
	for _, ts := range b.Experiments[0].Times {
		shared := true
		for _, set := range members[1:] {
			if !set[ts] {
				shared = false
				break
			}
		}
		if !shared {
			continue
		}
		for i, e := range b.Experiments {
			vals[i] = e.Values[indexClosest(e.Times, ts)]
		}
		b.Times = append(b.Times, ts)
		b.Values = append(b.Values, mean(vals))
		b.Errors = append(b.Errors, popStdDev(vals))
	}
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// popStdDev is the population standard deviation (divisor N, not N-1).
func popStdDev(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := mean(vs)
	var ss float64
	for _, v := range vs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vs)))
}
