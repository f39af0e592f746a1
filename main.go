package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/game"
	"github.com/pthm-cable/gabor/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Play rounds with the auto player, no window")
	logStats := flag.Bool("log-stats", false, "Output round and frame stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	rounds := flag.Int("rounds", 1, "Rounds to play in headless mode")
	recall := flag.Float64("recall", 1, "Auto player memory, 0..1 (headless)")
	think := flag.Duration("think", 700*time.Millisecond, "Auto player time per selection (headless)")
	tier := flag.String("tier", "", "Initial difficulty tier (empty = config default)")
	grid := flag.String("grid", "", "Initial grid, e.g. 5x6 (empty = config default)")
	paletteName := flag.String("palette", "", "Initial palette (empty = config default)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats || *headless,
		Headless:  *headless,
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if err := applyChoices(g, *paletteName, *tier, *grid); err != nil {
		slog.Error("invalid round settings", "error", err)
		os.Exit(1)
	}

	if *headless {
		bot := game.NewAutoPlayer(rand.New(rand.NewSource(rngSeed)), *recall, g.Settings().Tolerance)

		slog.Info("starting headless run",
			"seed", rngSeed,
			"rounds", *rounds,
			"tier", g.Choice().Tier,
			"grid", g.GridLabel(),
			"recall", *recall,
		)

		for i := 0; i < *rounds; i++ {
			if _, err := g.PlayRound(bot, *think); err != nil {
				slog.Error("round failed", "round", i+1, "error", err)
				os.Exit(1)
			}
			g.PlayAgain()
		}
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Gabor Match")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	app := ui.NewApp(g)
	defer app.Unload()

	for !rl.WindowShouldClose() {
		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		app.Frame(dt)
	}
}

// applyChoices overrides the start screen defaults from the command line.
// The tier goes first so a locked grid wins over -grid.
func applyChoices(g *game.Game, paletteName, tier, grid string) error {
	if paletteName != "" {
		if err := g.SetPalette(paletteName); err != nil {
			return err
		}
	}
	if tier != "" {
		if err := g.SetTier(tier); err != nil {
			return err
		}
	}
	if grid != "" {
		if err := g.SetGrid(grid); err != nil {
			return err
		}
	}
	return nil
}
