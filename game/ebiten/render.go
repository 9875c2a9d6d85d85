package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gridsnake/game"
)

// Draw clears the screen and blits every planned sprite from the sheet
func Draw(screen *ebiten.Image, sheet *ebiten.Image, calls []game.DrawCall) {
	screen.Fill(color.Black)

	for _, call := range calls {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(call.Scale, call.Scale)
		op.GeoM.Translate(call.X, call.Y)
		screen.DrawImage(sheet.SubImage(call.Clip).(*ebiten.Image), op)
	}
}
