package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/fakedata"
	"github.com/san-kum/partisim/internal/gui"
	"github.com/san-kum/partisim/internal/logging"
	"github.com/san-kum/partisim/internal/middleware"
	"github.com/san-kum/partisim/internal/storage"
	"github.com/san-kum/partisim/internal/window"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	dataDir    string
	seed       int64
	verbose    bool
	logFile    string

	preset    string
	loadID    string
	steps     int
	count     int
	csvOut    bool
	svgOut    string
	braille   bool
	imgWidth  int
	imgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "partisim",
		Short:        "particle simulation viewer",
		SilenceUsage: true,
		RunE:         runTerminal,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "log file (default <data>/partisim.log for windows)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "start from a settings preset")
	rootCmd.Flags().StringVar(&loadID, "load", "", "start from saved settings (id or \"latest\")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the graphical window",
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&preset, "preset", "", "start from a settings preset")
	guiCmd.Flags().StringVar(&loadID, "load", "", "start from saved settings (id or \"latest\")")

	genCmd := &cobra.Command{
		Use:   "gen [n]",
		Short: "print generated particles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  generate,
	}
	genCmd.Flags().BoolVar(&csvOut, "csv", false, "write csv instead of a table")

	checkCmd := &cobra.Command{
		Use:   "check [n]",
		Short: "check generated data through the middleware",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkData,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [preset]",
		Short: "run a preset headless and plot its mean speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&steps, "steps", 300, "simulation steps")
	statsCmd.Flags().StringVar(&svgOut, "svg", "", "also write the series as svg")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "write an svg (or .csv) of generated particles or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVar(&preset, "preset", "", "snapshot a running preset instead of generated data")
	snapshotCmd.Flags().IntVar(&steps, "steps", 100, "steps to run a preset before the snapshot")
	snapshotCmd.Flags().IntVar(&count, "n", config.DefaultPreview, "generated particles")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "export the terminal rendering")
	snapshotCmd.Flags().IntVar(&imgWidth, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&imgHeight, "height", 500, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list settings presets",
		RunE:  listPresets,
	}

	savesCmd := &cobra.Command{
		Use:   "saves",
		Short: "list saved settings",
		RunE:  listSaves,
	}

	rootCmd.AddCommand(guiCmd, genCmd, checkCmd, statsCmd, snapshotCmd, presetsCmd, savesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

// newLogger logs to a file for the windows, which own the terminal, and to
// stderr otherwise.
func newLogger(cfg *config.Config, toFile bool) (*zap.Logger, error) {
	path := logFile
	if path == "" && toFile {
		path = filepath.Join(cfg.DataDir, "partisim.log")
	}
	return logging.New(logging.Options{Verbose: verbose, Path: path})
}

func newGenerator(cfg *config.Config, seed int64) (*fakedata.Generator, error) {
	opts := []fakedata.Option{
		fakedata.WithMaxCoord(cfg.Generator.MaxCoord),
		fakedata.WithSizeRange(cfg.Generator.MinSize, cfg.Generator.MaxSize),
	}
	if seed != 0 {
		opts = append(opts, fakedata.WithSeed(seed))
	}
	return fakedata.New(opts...)
}

func newWindow(cmd *cobra.Command, surface canvas.Surface) (*window.Window, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		return nil, nil, err
	}

	gen, err := newGenerator(cfg, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	store := storage.New(cfg.DataDir)
	if err := store.Init(); err != nil {
		return nil, nil, err
	}

	w, err := window.New(window.Options{
		Config: cfg,
		Data:   middleware.New(gen, logger),
		Canvas: canvas.New(surface, cfg.Window.Scaling),
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := initialSettings(w, store); err != nil {
		return nil, nil, err
	}
	if err := w.SetPreviewCount(cfg.Generator.Preview); err != nil {
		return nil, nil, err
	}
	logger.Info("window ready", zap.String("data", cfg.DataDir), zap.Int64("seed", cfg.Seed))
	return w, logger, nil
}

func initialSettings(w *window.Window, store *storage.Store) error {
	switch {
	case preset != "":
		s, ok := config.GetPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", preset)
		}
		return w.ApplySettings(s)
	case loadID != "":
		id := loadID
		if id == "latest" {
			latest, err := store.Latest()
			if err != nil {
				return err
			}
			if latest == "" {
				return fmt.Errorf("no saved settings in data directory")
			}
			id = latest
		}
		s, err := store.Load(id)
		if err != nil {
			return err
		}
		return w.ApplySettings(s)
	}
	return nil
}

func runTerminal(cmd *cobra.Command, args []string) error {
	surface := canvas.NewBrailleSurface(60, 24)
	w, logger, err := newWindow(cmd, surface)
	if err != nil {
		return err
	}
	defer logger.Sync()

	start := time.Now()
	err = window.Run(w, surface)
	logger.Info("window closed", zap.Duration("uptime", time.Since(start)), zap.Error(err))
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	surface := gui.NewRaylibSurface()
	w, logger, err := newWindow(cmd, surface)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gui.Run(w, surface)
	return nil
}
