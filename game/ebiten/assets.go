package ebiten

import (
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rotisserie/eris"
)

// LoadSpriteSheet decodes the sprite sheet image at path
func LoadSpriteSheet(path string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load sprite sheet %s", path)
	}
	return img, nil
}
