package radar

import (
	"mindcheck/internal/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsOption renders the chart as an ECharts radar option so browsers
// can draw it without recomputing the layout
func EChartsOption(c *model.RadarChart, title string) map[string]interface{} {
	radar := charts.NewRadar()

	indicators := make([]*opts.Indicator, 0, len(c.Axes))
	values := make([]float32, 0, len(c.Axes))
	for _, ax := range c.Axes {
		indicators = append(indicators, &opts.Indicator{Name: ax.Name, Max: float32(c.MaxValue)})
		values = append(values, float32(ax.Value))
	}

	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "circle",
			SplitNumber: len(c.Rings),
		}),
	)

	radar.AddSeries(title, []opts.RadarData{{Name: title, Value: values}}).
		SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{Color: c.StrokeColor, Width: 2}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: c.FillColor}),
		)

	return radar.JSON()
}
