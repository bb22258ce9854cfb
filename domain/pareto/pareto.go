package pareto

import (
	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// Candidate is one evaluated strategy combination entering the optimizer
type Candidate struct {
	Strategy string                 `json:"strategy"`
	Params   map[string]interface{} `json:"params,omitempty"`
	Metrics  map[string]float64     `json:"metrics"`
}

// Point is a candidate with its extracted objective values and optimality flag
type Point struct {
	Strategy   string                 `json:"strategy"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Metrics    map[string]float64     `json:"metrics"`
	ObjectiveA float64                `json:"objective_a"`
	ObjectiveB float64                `json:"objective_b"`
	Optimal    bool                   `json:"is_pareto_optimal"`
}

// Result partitions a population into the non-dominated front and the
// dominated remainder. Immutable; recomputation produces a new Result.
type Result struct {
	ObjectiveA string  `json:"objective_a"`
	ObjectiveB string  `json:"objective_b"`
	MaximizeA  bool    `json:"maximize_a"`
	MaximizeB  bool    `json:"maximize_b"`
	Points     []Point `json:"points"`
	Front      []Point `json:"pareto_front"`
	Dominated  []Point `json:"dominated_points"`
	Evaluated  int     `json:"n_evaluated"`
}

// CandidatesFromRuns adapts run results into optimizer candidates. Strategy
// parameters are picked up from the "parameters" assumption when an engine
// recorded them there.
func CandidatesFromRuns(results []*contract.RunResult) []Candidate {
	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		var params map[string]interface{}
		if p, ok := r.Assumptions["parameters"].(map[string]interface{}); ok {
			params = p
		}
		candidates = append(candidates, Candidate{
			Strategy: r.Metadata.StrategyName,
			Params:   params,
			Metrics:  r.Metrics,
		})
	}
	return candidates
}

// ComputeFront classifies a candidate population by Pareto dominance over
// two named objectives. maximizeA/maximizeB flip the comparison direction
// per objective.
//
// The dominance check is a plain O(n^2) pairwise scan, fine for grid-search
// populations up to low tens of thousands; beyond that a sort-based sweep
// would be the upgrade path.
func ComputeFront(candidates []Candidate, objectiveA, objectiveB string, maximizeA, maximizeB bool) (*Result, error) {
	if len(candidates) == 0 {
		return nil, core.ErrEmptyPopulation
	}

	points := make([]Point, len(candidates))
	for i, c := range candidates {
		a, ok := c.Metrics[objectiveA]
		if !ok {
			return nil, core.NewMissingMetricError(objectiveA, c.Metrics)
		}
		b, ok := c.Metrics[objectiveB]
		if !ok {
			return nil, core.NewMissingMetricError(objectiveB, c.Metrics)
		}
		points[i] = Point{
			Strategy:   c.Strategy,
			Params:     c.Params,
			Metrics:    c.Metrics,
			ObjectiveA: a,
			ObjectiveB: b,
		}
	}

	front := []Point{}
	dominated := []Point{}
	for i := range points {
		isDominated := false
		for j := range points {
			if i == j {
				continue
			}
			if dominates(points[j], points[i], maximizeA, maximizeB) {
				isDominated = true
				break
			}
		}
		points[i].Optimal = !isDominated
		if isDominated {
			dominated = append(dominated, points[i])
		} else {
			front = append(front, points[i])
		}
	}

	return &Result{
		ObjectiveA: objectiveA,
		ObjectiveB: objectiveB,
		MaximizeA:  maximizeA,
		MaximizeB:  maximizeB,
		Points:     points,
		Front:      front,
		Dominated:  dominated,
		Evaluated:  len(points),
	}, nil
}

// dominates reports whether candidate c dominates point p: at least as good
// on both objectives and strictly better on at least one.
func dominates(c, p Point, maximizeA, maximizeB bool) bool {
	atLeastA := atLeastAsGood(c.ObjectiveA, p.ObjectiveA, maximizeA)
	atLeastB := atLeastAsGood(c.ObjectiveB, p.ObjectiveB, maximizeB)
	if !atLeastA || !atLeastB {
		return false
	}
	return c.ObjectiveA != p.ObjectiveA || c.ObjectiveB != p.ObjectiveB
}

func atLeastAsGood(candidate, reference float64, maximize bool) bool {
	if maximize {
		return candidate >= reference
	}
	return candidate <= reference
}
