package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/qsim/internal/config"
	"github.com/san-kum/qsim/internal/render"
	"github.com/san-kum/qsim/internal/sim"
	"github.com/san-kum/qsim/internal/storage"
	"github.com/san-kum/qsim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	maxTicks   int
	graceTicks int
	seed       int64
	pressProb  float64
	tunnelProb float64
	configFile string
	preset     string
	frameRate  int
	gifOutput  string
	frameDelay int
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qsim",
		Short: "quantum circuit toy simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".qsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every tick")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and archive the result",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	gifCmd := &cobra.Command{
		Use:   "gif",
		Short: "run a simulation and render it to an animated GIF",
		RunE:  runGIF,
	}
	addSimFlags(gifCmd)
	gifCmd.Flags().StringVarP(&gifOutput, "output", "o", "", "output path (default from config)")
	gifCmd.Flags().IntVar(&frameDelay, "delay", config.DefaultFrameDelay, "frame delay in ms")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot p/t history of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, gifCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&maxTicks, "ticks", config.DefaultMaxTicks, "tick cap")
	cmd.Flags().IntVar(&graceTicks, "grace", config.DefaultGraceTicks, "ticks to keep running after the final state")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().Float64Var(&pressProb, "press-prob", config.DefaultPressProb, "per-tick button press probability")
	cmd.Flags().Float64Var(&tunnelProb, "tunnel-prob", config.DefaultTunnelProb, "tunnel diode activation probability")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// resolveConfig layers preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("ticks") {
		cfg.MaxTicks = maxTicks
	}
	if cmd.Flags().Changed("grace") {
		cfg.GraceTicks = graceTicks
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("press-prob") {
		cfg.PressProb = pressProb
	}
	if cmd.Flags().Changed("tunnel-prob") {
		cfg.TunnelProb = tunnelProb
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	log := newLogger()
	s, err := sim.New(cfg.ToSimConfig())
	if err != nil {
		return err
	}
	s.AddObserver(sim.NewEventLogger(log))

	start := time.Now()
	result, err := s.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.ToSimConfig(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", len(result.Snapshots))
	if result.StoppedAt >= 0 {
		fmt.Printf("final state at tick %d\n", result.StoppedAt)
	} else {
		fmt.Println("final state not reached (tick cap)")
	}
	fmt.Printf("resets: %d (p:%d t:%d)\n", result.ResetCount, result.PResetCount, result.TResetCount)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fps := frameRate
	if cmd.Flags().Changed("fps") {
		fps = frameRate
	} else if cfg.Output.FPS > 0 {
		fps = cfg.Output.FPS
	}
	return viz.Run(cfg.ToSimConfig(), fps)
}

func runGIF(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	out := cfg.Output.GIFPath
	if gifOutput != "" {
		out = gifOutput
	}
	delay := cfg.Output.FrameDelay
	if cmd.Flags().Changed("delay") {
		delay = frameDelay
	}

	log := newLogger()
	s, err := sim.New(cfg.ToSimConfig())
	if err != nil {
		return err
	}
	s.AddObserver(sim.NewEventLogger(log))

	result, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	// The run is complete at this point; a render failure is a render
	// failure, not a simulation one.
	if err := render.WriteGIF(out, result.Snapshots, delay); err != nil {
		log.Error().Err(err).Msg("rendering failed")
		return err
	}

	fmt.Printf("wrote %s (%d frames)\n", out, len(result.Snapshots))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTICKS\tSTOPPED_AT\tRESETS\tSEED")

	for _, run := range runs {
		stoppedAt := "-"
		if run.StoppedAt >= 0 {
			stoppedAt = fmt.Sprintf("%d", run.StoppedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			stoppedAt,
			run.ResetCount,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.P) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series.P))

	for _, plot := range []struct {
		caption string
		data    []float64
	}{
		{"p (position coordinate)", series.P},
		{"t (time coordinate)", series.T},
		{"cumulative resets", series.Resets},
	} {
		graph := asciigraph.Plot(plot.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(plot.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
