package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"fluidlab/internal/config"
	"fluidlab/internal/fluid"
	"fluidlab/internal/metrics"
	"fluidlab/internal/storage"
	"fluidlab/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	workers    int
	particles  int
	configFile string
	// Live view pacing
	stepsPerFrame int
	// Seed resume
	resumeSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluidlab",
		Short: "smoothed-particle hydrodynamics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep in seconds")
	runCmd.Flags().Float64Var(&duration, "time", 2.0, "simulated duration in seconds")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	runCmd.Flags().IntVar(&particles, "particles", 0, "override particle count")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep in seconds")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	liveCmd.Flags().IntVar(&particles, "particles", 0, "override particle count")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 4, "simulation steps per rendered frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the final particle distribution of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "inspect and resume simulation seeds",
	}

	seedDumpCmd := &cobra.Command{
		Use:   "dump [run_id]",
		Short: "print the seed string of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpSeed,
	}

	seedResumeCmd := &cobra.Command{
		Use:   "resume [run_id]",
		Short: "continue a stored run from its seed",
		Args:  cobra.ExactArgs(1),
		RunE:  resumeSeed,
	}
	seedResumeCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep in seconds")
	seedResumeCmd.Flags().IntVar(&resumeSteps, "steps", 1000, "steps to advance")
	seedResumeCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")

	seedCmd.AddCommand(seedDumpCmd, seedResumeCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-12s %d particles, h=%.2f\n", name, cfg.ParticleCount, cfg.SmoothingRadius)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput across particle counts",
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, seedCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildSim resolves the scene config from preset name, config file, and
// flag overrides, in that order, and constructs the simulator.
func buildSim(args []string) (*fluid.Simulator, string, error) {
	scene := "dam-break"
	if len(args) > 0 {
		scene = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		scene = strings.TrimSuffix(configFile, ".yaml")
	} else {
		cfg = config.GetPreset(scene)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown scene: %s (available: %v)", scene, config.ListPresets())
		}
	}

	if particles > 0 {
		cfg.ParticleCount = particles
	}

	sim, err := fluid.New(cfg)
	if err != nil {
		return nil, "", err
	}
	if workers > 0 {
		sim.SetWorkers(workers)
	}
	return sim, scene, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	sim, scene, err := buildSim(args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	momentum := metrics.NewMomentum()
	energy := metrics.NewKineticEnergy()
	density := metrics.NewDensityRange()
	sim.AddObserver(momentum)
	sim.AddObserver(energy)
	sim.AddObserver(density)

	steps := int(duration / dt)
	fmt.Printf("running %s: %d particles, %d steps at dt=%g\n",
		scene, sim.Particles().Count, steps, dt)

	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := sim.Step(dt); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	metricVals := map[string]float64{
		momentum.Name():  momentum.Value(),
		"momentum_drift": momentum.MaxDrift(),
		energy.Name():    energy.Value(),
		density.Name():   density.Value(),
		"density_min":    density.Min(),
	}

	runID, err := st.Save(scene, dt, sim, metricVals)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(steps)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	for name, val := range metricVals {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sim, scene, err := buildSim(args)
	if err != nil {
		return err
	}

	model := viz.NewModel(sim, scene, dt, stepsPerFrame)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSTEPS\tDT\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.ParticleCount,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Metadata(args[0])
	if err != nil {
		return err
	}
	positions, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return fmt.Errorf("no positions to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("particles: %d\n\n", len(positions))

	for axis, caption := range []string{"x distribution", "y distribution (height)", "z distribution"} {
		data := make([]float64, len(positions))
		for i, p := range positions {
			data[i] = p[axis]
		}
		sort.Float64s(data)
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(72),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Metadata(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func dumpSeed(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	seed, err := st.LoadSeed(args[0])
	if err != nil {
		return err
	}
	fmt.Println(seed)
	return nil
}

func resumeSeed(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	seed, err := st.LoadSeed(args[0])
	if err != nil {
		return err
	}

	sim, err := fluid.FromSeed(seed)
	if err != nil {
		return err
	}
	if workers > 0 {
		sim.SetWorkers(workers)
	}

	meta, err := st.Metadata(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("resuming %s at step %d, t=%.3fs\n", meta.Scene, sim.Steps(), sim.Time())
	start := time.Now()
	for i := 0; i < resumeSteps; i++ {
		if err := sim.Step(dt); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	runID, err := st.Save(meta.Scene, dt, sim, nil)
	if err != nil {
		return err
	}
	fmt.Printf("advanced %d steps in %v\n", resumeSteps, elapsed)
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	counts := []int{512, 1728, 4096}
	dts := []float64{0.001, 0.002}
	const steps = 100

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, d := range dts {
			cfg := config.Default()
			cfg.ParticleCount = n
			sim, err := fluid.New(cfg)
			if err != nil {
				return err
			}
			if workers > 0 {
				sim.SetWorkers(workers)
			}

			start := time.Now()
			for i := 0; i < steps; i++ {
				if err := sim.Step(d); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%d\t%.4f\t%d\t%v\t%.0f\n",
				n, d, steps, elapsed.Round(time.Millisecond), float64(steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
