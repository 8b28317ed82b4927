// Package reward turns a scan into tree metrics and an EcoCoin reward.
//
// Metrics come from an injected Source, so tests can supply fixed values.
// The scoring itself is a pure function of the metrics.
package reward

import (
	"math/rand/v2"
	"sync"

	"ecogrow/internal/domain"
)

const (
	BaseReward = 10

	GrowthMin    = 15
	GrowthSpan   = 25 // growth ∈ [15, 39]
	HumidityMin  = 40
	HumiditySpan = 40 // humidity ∈ [40, 79]
)

// Source yields integers in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the runtime's global generator.
func DefaultSource() Source { return globalSource{} }

// NewSeededSource returns a deterministic source. It is not safe for
// concurrent use on its own; Scorer serialises access.
func NewSeededSource(seed1, seed2 uint64) Source {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Metrics are the generated readings for one scan.
type Metrics struct {
	Growth   int
	Humidity int
	Soil     domain.SoilCondition
}

type Bonus struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type Analysis struct {
	GrowthQuality  string `json:"growthQuality"`
	HumidityStatus string `json:"humidityStatus"`
	SoilQuality    string `json:"soilQuality"`
}

type Result struct {
	Metrics  Metrics
	Reward   int64
	Bonuses  []Bonus
	Analysis Analysis
}

type Scorer struct {
	mu  sync.Mutex
	src Source
}

func NewScorer(src Source) *Scorer {
	if src == nil {
		src = DefaultSource()
	}
	return &Scorer{src: src}
}

// Draw generates growth, humidity and soil, in that order.
func (s *Scorer) Draw() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	growth := GrowthMin + s.src.IntN(GrowthSpan)
	humidity := HumidityMin + s.src.IntN(HumiditySpan)
	soil := domain.SoilConditions[s.src.IntN(len(domain.SoilConditions))]

	return Metrics{Growth: growth, Humidity: humidity, Soil: soil}
}

// Analyze draws metrics and scores them.
func (s *Scorer) Analyze() Result {
	return Score(s.Draw())
}

// Score computes the reward for m. Bonuses are listed in evaluation order:
// growth, humidity, soil.
func Score(m Metrics) Result {
	bonuses := []Bonus{}

	switch {
	case m.Growth > 30:
		bonuses = append(bonuses, Bonus{Label: "High Growth", Amount: 5})
	case m.Growth > 20:
		bonuses = append(bonuses, Bonus{Label: "Good Growth", Amount: 3})
	}

	switch {
	case m.Humidity > 65:
		bonuses = append(bonuses, Bonus{Label: "Optimal Humidity", Amount: 5})
	case m.Humidity > 50:
		bonuses = append(bonuses, Bonus{Label: "Good Humidity", Amount: 3})
	}

	switch m.Soil {
	case domain.SoilExcellent:
		bonuses = append(bonuses, Bonus{Label: "Excellent Soil", Amount: 7})
	case domain.SoilGood:
		bonuses = append(bonuses, Bonus{Label: "Good Soil", Amount: 4})
	}

	total := int64(BaseReward)
	for _, b := range bonuses {
		total += b.Amount
	}

	return Result{
		Metrics:  m,
		Reward:   total,
		Bonuses:  bonuses,
		Analysis: Analyze(m),
	}
}

// Analyze returns the qualitative labels shown next to the reward.
func Analyze(m Metrics) Analysis {
	a := Analysis{SoilQuality: string(m.Soil)}

	switch {
	case m.Growth > 30:
		a.GrowthQuality = "Excellent"
	case m.Growth > 20:
		a.GrowthQuality = "Good"
	default:
		a.GrowthQuality = "Fair"
	}

	switch {
	case m.Humidity > 65:
		a.HumidityStatus = "Optimal"
	case m.Humidity > 50:
		a.HumidityStatus = "Good"
	default:
		a.HumidityStatus = "Needs Attention"
	}

	return a
}
