// Patch preview tool - interactive Gabor patch tuning with sliders.
//
// Usage: go run ./cmd/patchpreview [-config path] [-output-dir dir]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/kernel"
	"github.com/pthm-cable/gabor/palette"
	"github.com/pthm-cable/gabor/telemetry"
)

const (
	windowWidth  = 1040
	windowHeight = 760
	previewSize  = 560
	panelWidth   = windowWidth - previewSize - 40
)

// previewParams is what the sliders edit. Angles are in degrees.
type previewParams struct {
	Sigma       float32
	AspectRatio float32
	Resolution  float32
	Orientation float32
	Wavelength  float32
	Phase       float32
	Contrast    float32
}

func defaults(cfg *config.Config) previewParams {
	return previewParams{
		Sigma:       float32(cfg.Kernel.Sigma),
		AspectRatio: float32(cfg.Kernel.AspectRatio),
		Resolution:  float32(cfg.Kernel.Resolution),
		Orientation: 45,
		Wavelength:  12,
		Phase:       0,
		Contrast:    3,
	}
}

func (p previewParams) toKernel(size int) kernel.Params {
	return kernel.Params{
		Size:        size,
		Sigma:       float64(p.Sigma),
		Orientation: float64(p.Orientation) * math.Pi / 180,
		Wavelength:  float64(p.Wavelength),
		AspectRatio: float64(p.AspectRatio),
		Phase:       float64(p.Phase) * math.Pi / 180,
		Resolution:  math.Round(float64(p.Resolution)),
		Contrast:    float64(p.Contrast),
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", ".", "Directory for exported patch CSVs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Gabor Patch Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaults(cfg)
	paletteIdx := int32(0)
	status := ""

	var patch *kernel.Patch
	var texture rl.Texture2D
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			p, err := kernel.Generate(params.toKernel(cfg.Kernel.Size))
			if err != nil {
				status = err.Error()
			} else {
				patch = p
				texture = upload(texture, patch, cfg.Palettes[paletteIdx])
				status = ""
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if patch != nil {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: float32(texture.Width), Height: float32(texture.Height)},
				rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
			lo, hi := patch.Range()
			rows, cols := patch.Dims()
			statsY := int32(previewSize + 25)
			rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Samples: %dx%d", lo, hi, rows, cols), 15, statsY, 16, rl.DarkGray)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		if status != "" {
			rl.DrawText(status, 15, previewSize+50, 16, rl.Maroon)
		}

		panelX := float32(previewSize + 30)
		panelY := float32(10)
		rl.DrawText("Gabor Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		sliders := []struct {
			label    string
			format   string
			value    *float32
			min, max float32
		}{
			{"Orientation (deg)", "%.0f", &params.Orientation, -180, 180},
			{"Wavelength", "%.1f", &params.Wavelength, 2, 40},
			{"Phase (deg)", "%.0f", &params.Phase, -180, 180},
			{"Contrast", "%.2f", &params.Contrast, 0.5, 5},
			{"Sigma", "%.1f", &params.Sigma, 1, 20},
			{"Aspect ratio", "%.2f", &params.AspectRatio, 0.1, 2},
			{"Resolution", "%.0f", &params.Resolution, 1, 12},
		}
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf(s.format, s.min), fmt.Sprintf(s.format, s.max),
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != *s.value {
				*s.value = next
				needsRegen = true
			}
			panelY += 35
		}

		rl.DrawText("Palette", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		nextPalette := gui.ToggleGroup(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth-20)/3 - 4, Height: 24},
			toggleText(cfg.Palettes, 3),
			paletteIdx,
		)
		if nextPalette != paletteIdx && int(nextPalette) < len(cfg.Palettes) {
			paletteIdx = nextPalette
			needsRegen = true
		}
		panelY += 70

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Export CSV") && patch != nil {
			status = exportPatch(*outputDir, patch)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults(cfg)
			needsRegen = true
		}
		panelY += 50

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := kernelYAML(cfg, params)
		for _, line := range strings.Split(strings.TrimRight(snippet, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}

	if patch != nil {
		rl.UnloadTexture(texture)
	}
}

// upload replaces tex with a texture of patch in the named palette.
func upload(tex rl.Texture2D, patch *kernel.Patch, paletteName string) rl.Texture2D {
	if tex.ID != 0 {
		rl.UnloadTexture(tex)
	}
	rows, cols := patch.Dims()
	img := rl.GenImageColor(cols, rows, rl.Black)
	tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	pal, _ := palette.Lookup(paletteName)
	rl.UpdateTexture(tex, pal.Pixels(patch))
	return tex
}

// kernelYAML renders the shared kernel section for the current sliders.
func kernelYAML(cfg *config.Config, p previewParams) string {
	section := map[string]config.KernelConfig{
		"kernel": {
			Size:        cfg.Kernel.Size,
			Sigma:       float64(p.Sigma),
			AspectRatio: float64(p.AspectRatio),
			Resolution:  math.Round(float64(p.Resolution)),
		},
	}
	data, err := yaml.Marshal(section)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// toggleText lays out names for a raygui toggle group, perRow to a line.
func toggleText(names []string, perRow int) string {
	var rows []string
	for len(names) > perRow {
		rows = append(rows, strings.Join(names[:perRow], ";"))
		names = names[perRow:]
	}
	rows = append(rows, strings.Join(names, ";"))
	return strings.Join(rows, "\n")
}

// exportPatch writes the patch samples to a timestamped CSV in dir.
func exportPatch(dir string, patch *kernel.Patch) string {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err.Error()
	}
	path := filepath.Join(dir, "patch_"+time.Now().Format("20060102_150405")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return err.Error()
	}
	defer f.Close()

	if err := telemetry.WritePatchCSV(f, patch); err != nil {
		return err.Error()
	}
	return "Saved " + path
}
