package radar

import (
	"math"
	"testing"

	"mindcheck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func tenAxes(v float64) []Input {
	in := make([]Input, 10)
	for i := range in {
		in[i] = Input{Name: string(rune('A' + i)), Value: v}
	}
	return in
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := Build(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoAxes)
}

func TestDefaultGeometry(t *testing.T) {
	c, err := Build(tenAxes(5), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.Point{X: 200, Y: 200}, c.Center)
	assert.Equal(t, 150.0, c.Radius)
	assert.Equal(t, 4.0, c.PointRadius)
	assert.Equal(t, "#1976D2", c.StrokeColor)
}

func TestAxisAnglesForTenDimensions(t *testing.T) {
	c, err := Build(tenAxes(2), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, c.Axes, 10)

	assert.Equal(t, -90.0, c.Axes[0].AngleDeg)
	assert.Equal(t, 90.0, c.Axes[5].AngleDeg)
	for k, ax := range c.Axes {
		assert.InDelta(t, -90+float64(k)*36, ax.AngleDeg, eps)
	}

	// axis 0 points straight up, axis 5 straight down
	assert.InDelta(t, 200, c.Axes[0].SpokeEnd.X, eps)
	assert.InDelta(t, 50, c.Axes[0].SpokeEnd.Y, eps)
	assert.InDelta(t, 200, c.Axes[5].SpokeEnd.X, eps)
	assert.InDelta(t, 350, c.Axes[5].SpokeEnd.Y, eps)
}

func TestPointDistanceScalesWithValue(t *testing.T) {
	in := []Input{{"a", 5}, {"b", 2.5}, {"c", 0}, {"d", 1}}
	c, err := Build(in, DefaultOptions())
	require.NoError(t, err)

	for i, ax := range c.Axes {
		d := math.Hypot(ax.Point.X-c.Center.X, ax.Point.Y-c.Center.Y)
		assert.InDelta(t, in[i].Value/5*150, d, eps, ax.Name)
		assert.Equal(t, ax.Point, c.Polygon[i])
	}
	// axis a at full scale sits on the outer ring, straight up
	assert.InDelta(t, 50, c.Axes[0].Point.Y, eps)
}

func TestRings(t *testing.T) {
	c, err := Build(tenAxes(1), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, c.Rings, 5)
	for i, r := range c.Rings {
		assert.Equal(t, i+1, r.Level)
		assert.InDelta(t, 30*float64(i+1), r.Radius, eps)
	}
}

func TestLabelAlignment(t *testing.T) {
	c, err := Build([]Input{{"up", 1}, {"right", 1}, {"down", 1}, {"left", 1}}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.AlignCenter, c.Axes[0].Label.Align)
	assert.Equal(t, model.AlignStart, c.Axes[1].Label.Align)
	assert.Equal(t, model.AlignCenter, c.Axes[2].Label.Align)
	assert.Equal(t, model.AlignEnd, c.Axes[3].Label.Align)

	// labels sit 25 beyond the outer ring
	assert.InDelta(t, 200+175, c.Axes[1].Label.Position.X, eps)
}

func TestLegendUsesScoringBands(t *testing.T) {
	c, err := Build([]Input{{"a", 1.49}, {"b", 1.5}, {"c", 2.5}}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.BandNormal, c.Legend[0].Band)
	assert.Equal(t, "#48BB78", c.Legend[0].Color)
	assert.Equal(t, "正常", c.Legend[0].LevelText)
	assert.Equal(t, model.BandMild, c.Legend[1].Band)
	assert.Equal(t, "#F59E0B", c.Legend[1].Color)
	assert.Equal(t, "轻度", c.Legend[1].LevelText)
	assert.Equal(t, model.BandConcern, c.Legend[2].Band)
	assert.Equal(t, "#EF4444", c.Legend[2].Color)
	assert.Equal(t, "需关注", c.Legend[2].LevelText)
}

func TestFromScoresKeepsOrder(t *testing.T) {
	in := FromScores([]model.DimensionScore{{Name: "z", Average: 1}, {Name: "a", Average: 2}})
	assert.Equal(t, []Input{{"z", 1}, {"a", 2}}, in)
}

func TestEChartsOption(t *testing.T) {
	c, err := Build(tenAxes(3), DefaultOptions())
	require.NoError(t, err)

	option := EChartsOption(c, "SCL90")
	assert.NotEmpty(t, option)
}
