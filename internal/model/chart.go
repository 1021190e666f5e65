package model

type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Align is the horizontal text anchor of an axis label
type Align string

const (
	AlignStart  Align = "start"
	AlignEnd    Align = "end"
	AlignCenter Align = "center"
)

type RadarLabel struct {
	Text     string `json:"text" bson:"text"`
	Position Point  `json:"position" bson:"position"`
	Align    Align  `json:"align" bson:"align"`
}

// RadarAxis is one dimension spoke with its plotted value
type RadarAxis struct {
	Name     string     `json:"name" bson:"name"`
	Value    float64    `json:"value" bson:"value"`
	AngleDeg float64    `json:"angleDeg" bson:"angleDeg"`
	SpokeEnd Point      `json:"spokeEnd" bson:"spokeEnd"`
	Point    Point      `json:"point" bson:"point"`
	Label    RadarLabel `json:"label" bson:"label"`
}

type RadarRing struct {
	Level  int     `json:"level" bson:"level"`
	Radius float64 `json:"radius" bson:"radius"`
}

type RadarLegendItem struct {
	Name      string  `json:"name" bson:"name"`
	Value     float64 `json:"value" bson:"value"`
	Band      Band    `json:"band" bson:"band"`
	Color     string  `json:"color" bson:"color"`
	LevelText string  `json:"levelText" bson:"levelText"`
}

// RadarChart holds everything needed to draw the dimension radar
type RadarChart struct {
	Width       float64           `json:"width" bson:"width"`
	Height      float64           `json:"height" bson:"height"`
	Center      Point             `json:"center" bson:"center"`
	Radius      float64           `json:"radius" bson:"radius"`
	MaxValue    float64           `json:"maxValue" bson:"maxValue"`
	PointRadius float64           `json:"pointRadius" bson:"pointRadius"`
	Axes        []RadarAxis       `json:"axes" bson:"axes"`
	Polygon     []Point           `json:"polygon" bson:"polygon"`
	Rings       []RadarRing       `json:"rings" bson:"rings"`
	Legend      []RadarLegendItem `json:"legend" bson:"legend"`
	FillColor   string            `json:"fillColor" bson:"fillColor"`
	StrokeColor string            `json:"strokeColor" bson:"strokeColor"`
}
