package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partisim/internal/canvas"
	"github.com/san-kum/partisim/internal/checker"
	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/export"
	"github.com/san-kum/partisim/internal/life"
	"github.com/san-kum/partisim/internal/metrics"
	"github.com/san-kum/partisim/internal/middleware"
	"github.com/san-kum/partisim/internal/particle"
	"github.com/san-kum/partisim/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func countArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: count %q", particle.ErrInvalidArgument, args[0])
	}
	return n, particle.CheckCount(n)
}

// headless builds the config, a stderr logger and a middleware over a generator.
func headless(cmd *cobra.Command) (*config.Config, *zap.Logger, *middleware.Middleware, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		return nil, nil, nil, err
	}
	gen, err := newGenerator(cfg, cfg.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, middleware.New(gen, logger), nil
}

func generate(cmd *cobra.Command, args []string) error {
	n, err := countArg(args, 10)
	if err != nil {
		return err
	}
	_, logger, mw, err := headless(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	set, err := mw.ParticleSet(n)
	if err != nil {
		return err
	}
	if csvOut {
		return export.WriteCSV(os.Stdout, set)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tX\tY\tZ\tCOLOR\tALPHA\tSIZE")
	for i, p := range set.Positions {
		c := set.Colors[i]
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%s\t%.2f\t%.2f\n", i, p.X, p.Y, p.Z, c.Hex(), c.A, set.Sizes[i])
	}
	return w.Flush()
}

func checkData(cmd *cobra.Command, args []string) error {
	n, err := countArg(args, 100)
	if err != nil {
		return err
	}
	cfg, logger, mw, err := headless(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pos, err := mw.Positions(n)
	if err != nil {
		return err
	}
	cols, err := mw.Colors(n)
	if err != nil {
		return err
	}
	sizes, err := mw.ParticleSizes(n)
	if err != nil {
		return err
	}

	results := []checker.Result{
		checker.Check(len(pos), n, "positions length"),
		checker.New(n, "colors length").Check(len(cols)),
		checker.New(n, "sizes length").Check(len(sizes)),
		checker.Check(positionsInRange(pos, cfg.Generator.MaxCoord), true, "positions in [0, max_coord)"),
		checker.Check(colorsValid(cols), true, "color channels in [0, 1]"),
		checker.Check(sizesInRange(sizes, cfg.Generator.MinSize, cfg.Generator.MaxSize), true, "sizes in (min_size, max_size]"),
	}

	reproSeed := cfg.Seed
	if reproSeed == 0 {
		reproSeed = 1
	}
	a, errA := newGenerator(cfg, reproSeed)
	b, errB := newGenerator(cfg, reproSeed)
	if errA != nil || errB != nil {
		return fmt.Errorf("seeded generators: %v %v", errA, errB)
	}
	setA, err := middleware.New(a, logger).ParticleSet(n)
	if err != nil {
		return err
	}
	setB, err := middleware.New(b, logger).ParticleSet(n)
	if err != nil {
		return err
	}
	results = append(results, checker.Check(setB, setA, "seed reproducibility"))

	if failed := checker.Report(os.Stdout, results...); failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

func positionsInRange(pos []particle.Vec3, maxCoord float64) bool {
	for _, p := range pos {
		for _, v := range [3]float64{p.X, p.Y, p.Z} {
			if v < 0 || v >= maxCoord {
				return false
			}
		}
	}
	return true
}

func colorsValid(cols []particle.RGBA) bool {
	for _, c := range cols {
		if !c.Valid() {
			return false
		}
	}
	return true
}

func sizesInRange(sizes []float64, lo, hi float64) bool {
	for _, s := range sizes {
		if s <= lo || s > hi {
			return false
		}
	}
	return true
}

func presetSystem(cfg *config.Config, name string) (*life.System, error) {
	s, ok := config.GetPreset(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(config.ListPresets(), ", "))
	}
	sim := cfg.Simulation
	return life.New(sim.Width, sim.Height, s.Classes, s.RelationshipMap(), life.Options{
		Radius:      sim.Radius,
		Dt:          1 / float64(cfg.Window.TickRate),
		BrownianStd: sim.BrownianStd,
		MinVel:      sim.MinVel,
		MaxVel:      sim.MaxVel,
		Seed:        cfg.Seed,
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	name := "duo"
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := presetSystem(cfg, name)
	if err != nil {
		return err
	}
	if steps < 2 {
		return fmt.Errorf("%w: need at least 2 steps", particle.ErrInvalidArgument)
	}

	ms := metrics.Default(cfg.Simulation.MaxVel)
	speeds := make([]float64, steps)
	for i := range speeds {
		sys.Step()
		speeds[i] = sys.MeanSpeed()
		for _, m := range ms {
			m.Observe(sys)
		}
	}
	px, py := sys.Momentum()

	fmt.Printf("preset: %s\n", name)
	fmt.Printf("area: %gx%g\n", sys.Width(), sys.Height())
	fmt.Printf("particles: %d\n", sys.Len())
	fmt.Printf("steps: %d\n", sys.Steps())
	fmt.Printf("momentum: (%.3f, %.3f)\n", px, py)
	for _, m := range ms {
		fmt.Printf("%s: %.4f\n", m.Name(), m.Value())
	}
	fmt.Println()

	graph := asciigraph.Plot(speeds,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("mean speed vs step"),
	)
	fmt.Println(graph)

	if svgOut != "" {
		svg := export.SeriesToSVG(speeds, 800, 300, "#00ccff")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, logger, mw, err := headless(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var set particle.ParticleSet
	if preset != "" {
		sys, err := presetSystem(cfg, preset)
		if err != nil {
			return err
		}
		for i := 0; i < steps; i++ {
			sys.Step()
		}
		set = sys.ParticleSet()
	} else if set, err = mw.ParticleSet(count); err != nil {
		return err
	}

	var out []byte
	switch {
	case strings.EqualFold(filepath.Ext(path), ".csv"):
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, set); err != nil {
			return err
		}
		fmt.Printf("wrote %d particles to %s\n", set.Len(), path)
		return nil
	case braille:
		surface := canvas.NewBrailleSurface(imgWidth/8, imgHeight/16)
		cv := canvas.New(surface, cfg.Window.Scaling)
		if err := cv.InsertSet(set); err != nil {
			return err
		}
		out = []byte(export.SurfaceToSVG(surface, 4))
	default:
		scaled := set.Clone()
		for i := range scaled.Sizes {
			scaled.Sizes[i] *= cfg.Window.Scaling
		}
		svg, err := export.ParticlesToSVG(scaled, imgWidth, imgHeight, cfg.Window.Background)
		if err != nil {
			return err
		}
		out = []byte(svg)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return err
	}
	logger.Debug("snapshot written", zap.String("path", path), zap.Int("particles", set.Len()))
	fmt.Printf("wrote %d particles to %s\n", set.Len(), path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCLASSES\tPARTICLES\tCOLORS")
	for _, name := range config.ListPresets() {
		s, _ := config.GetPreset(name)
		colors := make([]string, len(s.Classes))
		for i, c := range s.Classes {
			colors[i] = c.Color.Hex()
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(s.Classes), s.TotalParticles(), strings.Join(colors, " "))
	}
	return w.Flush()
}

func listSaves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	saves, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("no saved settings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCLASSES\tPARTICLES\tNOTE")
	for _, s := range saves {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Classes,
			s.Particles,
			s.Note,
		)
	}
	return w.Flush()
}
