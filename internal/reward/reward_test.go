package reward

import (
	"testing"

	"ecogrow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays values in order.
type fixedSource struct {
	values []int
	calls  []int
}

func (f *fixedSource) IntN(n int) int {
	f.calls = append(f.calls, n)
	v := f.values[0]
	f.values = f.values[1:]
	return v
}

func TestScoreExample(t *testing.T) {
	res := Score(Metrics{Growth: 35, Humidity: 70, Soil: domain.SoilExcellent})

	assert.Equal(t, int64(27), res.Reward)
	assert.Equal(t, []Bonus{
		{Label: "High Growth", Amount: 5},
		{Label: "Optimal Humidity", Amount: 5},
		{Label: "Excellent Soil", Amount: 7},
	}, res.Bonuses)
	assert.Equal(t, Analysis{GrowthQuality: "Excellent", HumidityStatus: "Optimal", SoilQuality: "excellent"}, res.Analysis)
}

func TestScoreGrowthBoundaries(t *testing.T) {
	cases := []struct {
		growth int
		bonus  int64
		label  string
		rating string
	}{
		{15, 0, "", "Fair"},
		{20, 0, "", "Fair"},
		{21, 3, "Good Growth", "Good"},
		{30, 3, "Good Growth", "Good"},
		{31, 5, "High Growth", "Excellent"},
		{39, 5, "High Growth", "Excellent"},
	}
	for _, tc := range cases {
		res := Score(Metrics{Growth: tc.growth, Humidity: 40, Soil: domain.SoilPoor})
		assert.Equal(t, BaseReward+tc.bonus, res.Reward, "growth=%d", tc.growth)
		assert.Equal(t, tc.rating, res.Analysis.GrowthQuality, "growth=%d", tc.growth)
		if tc.label == "" {
			assert.Empty(t, res.Bonuses, "growth=%d", tc.growth)
		} else {
			require.Len(t, res.Bonuses, 1)
			assert.Equal(t, tc.label, res.Bonuses[0].Label)
		}
	}
}

func TestScoreHumidityBoundaries(t *testing.T) {
	cases := []struct {
		humidity int
		bonus    int64
		status   string
	}{
		{40, 0, "Needs Attention"},
		{50, 0, "Needs Attention"},
		{51, 3, "Good"},
		{65, 3, "Good"},
		{66, 5, "Optimal"},
		{79, 5, "Optimal"},
	}
	for _, tc := range cases {
		res := Score(Metrics{Growth: 15, Humidity: tc.humidity, Soil: domain.SoilFair})
		assert.Equal(t, BaseReward+tc.bonus, res.Reward, "humidity=%d", tc.humidity)
		assert.Equal(t, tc.status, res.Analysis.HumidityStatus, "humidity=%d", tc.humidity)
	}
}

func TestScoreSoil(t *testing.T) {
	want := map[domain.SoilCondition]int64{
		domain.SoilExcellent: 7,
		domain.SoilGood:      4,
		domain.SoilFair:      0,
		domain.SoilPoor:      0,
	}
	for soil, bonus := range want {
		res := Score(Metrics{Growth: 15, Humidity: 40, Soil: soil})
		assert.Equal(t, BaseReward+bonus, res.Reward, "soil=%s", soil)
		assert.Equal(t, string(soil), res.Analysis.SoilQuality)
	}
}

func TestScoreRewardIsBasePlusBonuses(t *testing.T) {
	for g := GrowthMin; g < GrowthMin+GrowthSpan; g++ {
		for h := HumidityMin; h < HumidityMin+HumiditySpan; h++ {
			for _, soil := range domain.SoilConditions {
				res := Score(Metrics{Growth: g, Humidity: h, Soil: soil})
				sum := int64(BaseReward)
				for _, b := range res.Bonuses {
					sum += b.Amount
				}
				if res.Reward != sum {
					t.Fatalf("g=%d h=%d soil=%s: reward %d != %d", g, h, soil, res.Reward, sum)
				}
			}
		}
	}
}

func TestDrawOrderAndRanges(t *testing.T) {
	src := &fixedSource{values: []int{20, 30, 1}}
	m := NewScorer(src).Draw()

	assert.Equal(t, []int{25, 40, 4}, src.calls)
	assert.Equal(t, Metrics{Growth: 35, Humidity: 70, Soil: domain.SoilGood}, m)
}

func TestSeededSourceStaysInRange(t *testing.T) {
	s := NewScorer(NewSeededSource(1, 2))
	for i := 0; i < 1000; i++ {
		m := s.Draw()
		require.GreaterOrEqual(t, m.Growth, 15)
		require.LessOrEqual(t, m.Growth, 39)
		require.GreaterOrEqual(t, m.Humidity, 40)
		require.LessOrEqual(t, m.Humidity, 79)
		require.True(t, m.Soil.Valid())
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a := NewScorer(NewSeededSource(42, 7))
	b := NewScorer(NewSeededSource(42, 7))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Analyze(), b.Analyze())
	}
}
