// Package render turns a snapshot sequence into an animated GIF. It is a
// pure consumer of sim.Snapshot: a failure here is reported to the caller
// and never touches simulation state.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/qsim/internal/circuit"
	"github.com/san-kum/qsim/internal/sim"
)

const (
	frameW = 900
	frameH = 400

	barWidth  = 60
	barHeight = 150
	barXStart = 30
	barYBase  = 250

	fieldCell   = 25
	fieldXStart = 600
	fieldYStart = 100
)

// rampLevels is the number of colormap entries for the probability field.
const rampLevels = 64

var (
	colWhite    = color.RGBA{255, 255, 255, 255}
	colBlack    = color.RGBA{0, 0, 0, 255}
	colGray     = color.RGBA{100, 100, 100, 255}
	colOutline  = color.RGBA{200, 200, 200, 255}
	colActive   = color.RGBA{0, 150, 0, 255}
	colInactive = color.RGBA{200, 0, 0, 255}
	colDarkGrn  = color.RGBA{0, 100, 0, 255}
	colCross    = color.RGBA{255, 0, 0, 255}
	colBound    = color.RGBA{0, 0, 255, 255}
)

// palette returns the fixed frame palette: UI colors followed by the
// viridis-like ramp.
func palette() color.Palette {
	p := color.Palette{
		colWhite, colBlack, colGray, colOutline,
		colActive, colInactive, colDarkGrn, colCross, colBound,
	}
	for i := 0; i < rampLevels; i++ {
		p = append(p, rampColor(float64(i)/float64(rampLevels-1)))
	}
	return p
}

// rampColor maps a normalized field value to the colormap used by the
// original visualization.
func rampColor(v float64) color.RGBA {
	return color.RGBA{
		R: uint8(255 * (0.4 + 0.6*v)),
		G: uint8(255 * (0.2 + 0.8*math.Sqrt(v))),
		B: uint8(255 * (0.5 + 0.5*v)),
		A: 255,
	}
}

// WriteGIF renders every snapshot to a frame and encodes the animation.
func WriteGIF(path string, snaps []sim.Snapshot, delayMS int) error {
	if len(snaps) == 0 {
		return fmt.Errorf("render: no snapshots to encode")
	}
	if delayMS <= 0 {
		delayMS = 150
	}

	pal := palette()
	anim := gif.GIF{LoopCount: 0}
	for i := range snaps {
		anim.Image = append(anim.Image, Frame(&snaps[i], pal))
		anim.Delay = append(anim.Delay, delayMS/10) // gif delays are 1/100s
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}

// Frame draws one snapshot: component bars on the left, the probability
// field with its p/t crosshair on the right.
func Frame(snap *sim.Snapshot, pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, frameW, frameH), pal)
	fillRect(img, 0, 0, frameW, frameH, colWhite)

	drawTextCentered(img, frameW/2, 25, "Quantum Circuit Simulation with Reset Until p=1 AND t=1", colBlack)

	drawComponentPanel(img, snap)
	drawFieldPanel(img, snap)

	if snap.Stopped {
		fillRect(img, 500, 150, 200, 50, colActive)
		strokeRect(img, 500, 150, 200, 50, colBlack)
		drawTextCentered(img, 600, 170, "FINAL STATE REACHED!", colWhite)
		drawTextCentered(img, 600, 188, "p=1 AND t=1", colWhite)
	}

	drawText(img, 20, 385, fmt.Sprintf("Frame: %d", snap.Tick), colGray)
	return img
}

func drawComponentPanel(img *image.Paletted, snap *sim.Snapshot) {
	drawTextCentered(img, 150, 55, "Circuit Components", colBlack)
	if snap.Stopped {
		drawTextCentered(img, 150, 75, "FINAL STATE", colDarkGrn)
	} else {
		drawTextCentered(img, 150, 75, fmt.Sprintf("Resets: %d", snap.ResetCount), colBlack)
	}

	for i, cs := range snap.Components {
		live := cs.State.Live()
		col := colInactive
		h := barHeight / 3
		if live {
			col = colActive
			h = barHeight
		}

		x := barXStart + i*(barWidth+10)
		fillRect(img, x, barYBase-h, barWidth, h, col)
		strokeRect(img, x, barYBase-h, barWidth, h, colBlack)

		// Component names stack one word per line under the bar.
		y := barYBase + 18
		for _, word := range strings.Fields(cs.Name) {
			drawTextCentered(img, x+barWidth/2, y, word, colBlack)
			y += 14
		}
	}
}

func drawFieldPanel(img *image.Paletted, snap *sim.Snapshot) {
	drawTextCentered(img, 725, 55, "Quantum Probability Field", colBlack)
	if snap.Stopped {
		drawTextCentered(img, 725, 75, "FINAL STATE REACHED", colDarkGrn)
	} else {
		drawTextCentered(img, 725, 75, fmt.Sprintf("p=%.2f, t=%.2f", snap.P, snap.T), colBlack)
	}

	size := circuit.FieldSize
	// Row 0 of the field is y=-1; flip vertically so the bottom-left cell
	// is (-1,-1) on screen.
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			v := snap.Field[size-1-i][j]
			x := fieldXStart + j*fieldCell
			y := fieldYStart + i*fieldCell
			fillRect(img, x, y, fieldCell, fieldCell, rampColor(v))
			strokeRect(img, x, y, fieldCell, fieldCell, colOutline)
		}
	}

	extent := size * fieldCell
	drawText(img, fieldXStart-15, fieldYStart+extent+18, "(-1, -1)", colBlack)
	drawText(img, fieldXStart+extent+5, fieldYStart-5, "(1, 1)", colBlack)

	// p is the vertical crosshair, t the horizontal (flipped axis).
	pPixel := fieldXStart + int((snap.P+1)/2*float64(extent))
	tPixel := fieldYStart + int((1-(snap.T+1)/2)*float64(extent))
	vLine(img, pPixel, fieldYStart, fieldYStart+extent, colCross)
	hLine(img, fieldXStart, fieldXStart+extent, tPixel, colCross)

	vLine(img, fieldXStart+extent, fieldYStart, fieldYStart+extent, colBound)
	hLine(img, fieldXStart, fieldXStart+extent, fieldYStart, colBound)

	drawText(img, 770, 330, fmt.Sprintf("Resets: %d", snap.ResetCount), colBlack)
	drawText(img, 770, 344, fmt.Sprintf("p-resets: %d", snap.PResetCount), colBlack)
	drawText(img, 770, 358, fmt.Sprintf("t-resets: %d", snap.TResetCount), colBlack)
}

func fillRect(img *image.Paletted, x, y, w, h int, c color.Color) {
	idx := uint8(img.Palette.Index(c))
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if image.Pt(x+dx, y+dy).In(img.Rect) {
				img.SetColorIndex(x+dx, y+dy, idx)
			}
		}
	}
}

func strokeRect(img *image.Paletted, x, y, w, h int, c color.Color) {
	hLine(img, x, x+w, y, c)
	hLine(img, x, x+w, y+h-1, c)
	vLine(img, x, y, y+h, c)
	vLine(img, x+w-1, y, y+h, c)
}

func hLine(img *image.Paletted, x0, x1, y int, c color.Color) {
	idx := uint8(img.Palette.Index(c))
	for x := x0; x < x1; x++ {
		if image.Pt(x, y).In(img.Rect) {
			img.SetColorIndex(x, y, idx)
		}
	}
}

func vLine(img *image.Paletted, x, y0, y1 int, c color.Color) {
	idx := uint8(img.Palette.Index(c))
	for y := y0; y < y1; y++ {
		if image.Pt(x, y).In(img.Rect) {
			img.SetColorIndex(x, y, idx)
		}
	}
}

func drawText(img *image.Paletted, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawTextCentered(img *image.Paletted, cx, y int, s string, c color.Color) {
	w := font.MeasureString(basicfont.Face7x13, s).Ceil()
	drawText(img, cx-w/2, y, s, c)
}
