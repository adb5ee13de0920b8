// Package badge renders a monitor's name and state as a small PNG, suitable
// for embedding in READMEs and dashboards.
package badge

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/vigil-dev/vigil/internal/types"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	badgeHeight = 20
	nameWidth   = 100
	stateWidth  = 80
	maxNameLen  = 12
)

var (
	labelBackground = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
	textColor       = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	stateColors = map[types.MonitorState]color.RGBA{
		types.StateNormal:      {R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}, // green
		types.StateWarning:     {R: 0xFF, G: 0xC1, B: 0x07, A: 0xFF}, // yellow
		types.StateCritical:    {R: 0xF4, G: 0x43, B: 0x36, A: 0xFF}, // red
		types.StateMissingData: {R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}, // gray
	}
)

// Render draws a two-segment badge: the monitor name on a neutral background
// and the state on its state color.
func Render(name string, state types.MonitorState) ([]byte, error) {
	totalWidth := nameWidth + stateWidth

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, badgeHeight))

	draw.Draw(img, image.Rect(0, 0, nameWidth, badgeHeight), image.NewUniform(labelBackground), image.Point{}, draw.Src)

	stateColor, ok := stateColors[state]

	if !ok {
		stateColor = stateColors[types.StateMissingData]
	}

	draw.Draw(img, image.Rect(nameWidth, 0, totalWidth, badgeHeight), image.NewUniform(stateColor), image.Point{}, draw.Src)

	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	drawText(img, 5, name)
	drawText(img, nameWidth+5, state.String())

	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func drawText(img *image.RGBA, x int, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, 14),
	}

	drawer.DrawString(text)
}
