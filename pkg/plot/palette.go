package plot

import "github.com/wcharczuk/go-chart/v2/drawing"

var (
	Blue   = drawing.ColorFromHex("0099c8")
	Orange = drawing.ColorFromHex("D55E00")
	Green  = drawing.ColorFromHex("029E73")

	// axes, labels and titles
	NearlyBlack = drawing.ColorFromHex("161616")
)

const (
	fillAlpha = 128

	DefaultWidth  = 640
	DefaultHeight = 480
)

type Color = drawing.Color
