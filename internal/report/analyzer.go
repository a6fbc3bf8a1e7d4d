package report

import (
	"context"
	"seomonitor-backend/internal/components/assert"
	"seomonitor-backend/internal/components/random"
	"seomonitor-backend/internal/model"
)

// Analyzer scores a website, implementations must keep within the bounds checked by
// model.Scores.Validate.
//
// note: fault injection point
type Analyzer interface {
	ScoreWebsite(ctx context.Context, url string) (model.Scores, error)
}

// Ranges SimulatedAnalyzer draws from, all inclusive.
const (
	SimulatedOverallMin   = 70
	SimulatedOverallMax   = 100
	SimulatedSpeedMin     = 70
	SimulatedSpeedMax     = 100
	SimulatedBacklinksMin = 50
	SimulatedBacklinksMax = 550
	SimulatedIssuesMin    = 0
	SimulatedIssuesMax    = 10
)

// SimulatedAnalyzer produces placeholder scores until a real analysis engine exists.
type SimulatedAnalyzer struct {
	rand random.API
}

func NewSimulatedAnalyzer(rand random.API) SimulatedAnalyzer {
	assert.NotNil(rand)
	return SimulatedAnalyzer{rand: rand}
}

func (a SimulatedAnalyzer) ScoreWebsite(ctx context.Context, _ string) (model.Scores, error) {
	if err := ctx.Err(); err != nil {
		return model.Scores{}, err
	}
	return model.Scores{
		Overall:         random.Between(a.rand, SimulatedOverallMin, SimulatedOverallMax),
		Speed:           random.Between(a.rand, SimulatedSpeedMin, SimulatedSpeedMax),
		Backlinks:       random.Between(a.rand, SimulatedBacklinksMin, SimulatedBacklinksMax),
		StructureIssues: random.Between(a.rand, SimulatedIssuesMin, SimulatedIssuesMax),
	}, nil
}
