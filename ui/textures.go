package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gabor/kernel"
	"github.com/pthm-cable/gabor/palette"
)

type textureKey struct {
	patch   *kernel.Patch
	palette string
}

// PatchTextures uploads each colorized patch once. Both cells of a pair
// share a Patch, so a round needs at most one texture per pair.
type PatchTextures struct {
	textures map[textureKey]rl.Texture2D
}

// NewPatchTextures creates an empty cache.
func NewPatchTextures() *PatchTextures {
	return &PatchTextures{textures: make(map[textureKey]rl.Texture2D)}
}

// Get returns the texture of patch colored with the named palette,
// uploading it on first use.
func (pt *PatchTextures) Get(patch *kernel.Patch, paletteName string) (rl.Texture2D, error) {
	key := textureKey{patch: patch, palette: paletteName}
	if tex, ok := pt.textures[key]; ok {
		return tex, nil
	}

	pal, ok := palette.Lookup(paletteName)
	if !ok {
		return rl.Texture2D{}, fmt.Errorf("unknown palette %q", paletteName)
	}

	// Rows run down the screen, so the texture is cols wide.
	rows, cols := patch.Dims()
	img := rl.GenImageColor(cols, rows, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	rl.UpdateTexture(tex, pal.Pixels(patch))

	pt.textures[key] = tex
	return tex, nil
}

// Len returns the number of cached textures.
func (pt *PatchTextures) Len() int {
	return len(pt.textures)
}

// Unload frees every cached texture.
func (pt *PatchTextures) Unload() {
	for key, tex := range pt.textures {
		rl.UnloadTexture(tex)
		delete(pt.textures, key)
	}
}
