package radar

import (
	"errors"
	"math"

	"mindcheck/internal/model"
	"mindcheck/internal/scoring"
)

var ErrNoAxes = errors.New("radar chart needs at least one axis")

// alignSlack keeps near-vertical labels centered
const alignSlack = 0.1

// Input is one axis of the chart in display order
type Input struct {
	Name  string
	Value float64
}

// Options controls the chart geometry
type Options struct {
	Width       float64
	Height      float64
	Margin      float64 // radius = min(cx, cy) - Margin
	LabelOffset float64
	MaxValue    float64
	PointRadius float64
	Rings       int
	FillColor   string
	StrokeColor string
}

// DefaultOptions matches the 400x400 report canvas
func DefaultOptions() Options {
	return Options{
		Width:       400,
		Height:      400,
		Margin:      50,
		LabelOffset: 25,
		MaxValue:    5,
		PointRadius: 4,
		Rings:       5,
		FillColor:   "rgba(25, 118, 210, 0.1)",
		StrokeColor: "#1976D2",
	}
}

// FromScores turns dimension scores into chart inputs, keeping their order
func FromScores(dims []model.DimensionScore) []Input {
	in := make([]Input, len(dims))
	for i, d := range dims {
		in[i] = Input{Name: d.Name, Value: d.Average}
	}
	return in
}

// Build lays out the radar: axis k sits at -90° + k*360°/N, points at
// value/max of the radius, rings at equal fractions of the radius.
func Build(inputs []Input, o Options) (*model.RadarChart, error) {
	n := len(inputs)
	if n == 0 {
		return nil, ErrNoAxes
	}
	if o.MaxValue <= 0 {
		o.MaxValue = DefaultOptions().MaxValue
	}
	if o.Rings <= 0 {
		o.Rings = DefaultOptions().Rings
	}

	center := model.Point{X: o.Width / 2, Y: o.Height / 2}
	radius := math.Min(center.X, center.Y) - o.Margin
	step := 2 * math.Pi / float64(n)

	c := &model.RadarChart{
		Width:       o.Width,
		Height:      o.Height,
		Center:      center,
		Radius:      radius,
		MaxValue:    o.MaxValue,
		PointRadius: o.PointRadius,
		Axes:        make([]model.RadarAxis, n),
		Polygon:     make([]model.Point, n),
		Rings:       make([]model.RadarRing, o.Rings),
		Legend:      make([]model.RadarLegendItem, n),
		FillColor:   o.FillColor,
		StrokeColor: o.StrokeColor,
	}

	for i := 0; i < o.Rings; i++ {
		c.Rings[i] = model.RadarRing{Level: i + 1, Radius: radius / float64(o.Rings) * float64(i+1)}
	}

	for k, in := range inputs {
		angle := float64(k)*step - math.Pi/2
		cos, sin := math.Cos(angle), math.Sin(angle)
		dist := in.Value / o.MaxValue * radius
		labelDist := radius + o.LabelOffset

		pt := model.Point{X: center.X + cos*dist, Y: center.Y + sin*dist}
		c.Axes[k] = model.RadarAxis{
			Name:     in.Name,
			Value:    in.Value,
			AngleDeg: -90 + float64(k)*360/float64(n),
			SpokeEnd: model.Point{X: center.X + cos*radius, Y: center.Y + sin*radius},
			Point:    pt,
			Label: model.RadarLabel{
				Text:     in.Name,
				Position: model.Point{X: center.X + cos*labelDist, Y: center.Y + sin*labelDist},
				Align:    labelAlign(cos),
			},
		}
		c.Polygon[k] = pt

		band := scoring.Classify(in.Value)
		c.Legend[k] = model.RadarLegendItem{
			Name:      in.Name,
			Value:     in.Value,
			Band:      band,
			Color:     scoring.BandColor(band),
			LevelText: scoring.BandText(band),
		}
	}
	return c, nil
}

func labelAlign(cos float64) model.Align {
	switch {
	case cos > alignSlack:
		return model.AlignStart
	case cos < -alignSlack:
		return model.AlignEnd
	default:
		return model.AlignCenter
	}
}
