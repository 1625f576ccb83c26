package leaffall

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay displays FPS, TPS and leaf state counts in the corner of the
// screen. The text is redrawn every ~0.5 seconds.
type statsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	text       string
}

// 180x64 fits five short lines of debug text.
const (
	overlayWidth  = 180
	overlayHeight = 64
)

func overlayText(season Season, timeScale float64, airborne, settling, sleeping int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nseason: %s  x%.2f\nair %d  settle %d  sleep %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), season, timeScale, airborne, settling, sleeping)
}

// update refreshes the cached text at most twice per second.
func (o *statsOverlay) update(dt float64, text func() string) {
	o.lastUpdate += dt
	if o.text != "" && o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0
	o.text = text()
	if o.img == nil {
		o.img = ebiten.NewImage(overlayWidth, overlayHeight)
	}
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *statsOverlay) draw(target *ebiten.Image) {
	if o.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	target.DrawImage(o.img, &op)
}
