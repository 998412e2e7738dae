package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/linmotor/internal/analysis"
	"github.com/san-kum/linmotor/internal/config"
	"github.com/san-kum/linmotor/internal/femm"
	"github.com/san-kum/linmotor/internal/material"
	"github.com/san-kum/linmotor/internal/motor"
	"github.com/san-kum/linmotor/internal/optim"
	"github.com/san-kum/linmotor/internal/orch"
	"github.com/san-kum/linmotor/internal/physics"
	"github.com/san-kum/linmotor/internal/solver"
	"github.com/san-kum/linmotor/internal/store"
	"github.com/san-kum/linmotor/internal/sweep"
)

var (
	dataDir    string
	configFile string
	preset     string
	topology   string
	setVars    []string
	// Material assignments
	poleMat   string
	poleGrade string
	slotMat   string
	coreMat   string
	// Solver settings
	binary  string
	timeout time.Duration
	retries int
	workers int
	keep    bool
	// Operating point
	position float64
	ambient  float64
	thermal  bool
	loss     float64
	// Sweep settings
	travel  float64
	samples int
	csvOut  string
	jsonOut string
	// Optimization
	axes      []string
	objective string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "linmotor",
		Short: "linear motor design exploration with finite-element solves",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".linmotor", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve the configured design at one operating point",
		RunE:  runPoint,
	}
	addDesignFlags(runCmd)
	addSolverFlags(runCmd)
	runCmd.Flags().Float64Var(&position, "position", 0, "armature displacement (mm)")
	runCmd.Flags().Float64Var(&ambient, "ambient", config.DefaultAmbient, "ambient temperature (C)")
	runCmd.Flags().BoolVar(&thermal, "thermal", false, "also solve the thermal domain")
	runCmd.Flags().Float64Var(&loss, "loss", 0, "explicit heat source in watts (thermal only)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a commutated displacement sweep",
		RunE:  runSweep,
	}
	addDesignFlags(sweepCmd)
	addSolverFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&travel, "travel", 0, "displacement range in mm (0 = one cycle)")
	sweepCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "displacement steps")
	sweepCmd.Flags().Float64Var(&ambient, "ambient", config.DefaultAmbient, "ambient temperature (C)")
	sweepCmd.Flags().BoolVar(&thermal, "thermal", false, "also solve the thermal domain")
	sweepCmd.Flags().StringVar(&csvOut, "csv", "", "write frames to a CSV file")
	sweepCmd.Flags().StringVar(&jsonOut, "json", "", "write frames to a JSON file")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search over design variables",
		RunE:  runOptimize,
	}
	addDesignFlags(optimizeCmd)
	addSolverFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&axes, "axis", nil, "grid axis, e.g. air_gap=0.5,1,2 (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "objective", "force_stress_tensor", "scalar to maximize")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check the configured design against its variable ranges",
		RunE:  validateDesign,
	}
	addDesignFlags(validateCmd)

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list the material library",
		RunE:  listMaterials,
	}

	topologiesCmd := &cobra.Command{
		Use:   "topologies",
		Short: "list motor topologies and their design variables",
		RunE:  listTopologies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [topology]",
		Short: "list available presets for a topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for topology: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, optimizeCmd, validateCmd, materialsCmd, topologiesCmd, presetsCmd, listCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDesignFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&topology, "topology", "", "motor topology")
	cmd.Flags().StringArrayVar(&setVars, "set", nil, "design variable, e.g. air_gap=1.5 (repeatable)")
	cmd.Flags().StringVar(&poleMat, "pole", "", "pole material")
	cmd.Flags().StringVar(&poleGrade, "grade", "", "magnet grade")
	cmd.Flags().StringVar(&slotMat, "slot", "", "slot material")
	cmd.Flags().StringVar(&coreMat, "core", "", "core material")
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&binary, "binary", "", "solver executable")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "solve wall-clock budget")
	cmd.Flags().IntVar(&retries, "retries", -1, "retry budget for transient failures")
	cmd.Flags().IntVar(&workers, "workers", 0, "max concurrent solves")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep solver working directories")
}

// loadConfig resolves the effective configuration: defaults, then preset,
// then config file, then command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		top := topology
		if top == "" {
			top = cfg.Motor.Topology
		}
		p := config.GetPreset(top, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(top))
		}
		cfg.Motor = p.Motor
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("topology") {
		cfg.Motor.Topology = topology
	}
	if cmd.Flags().Changed("pole") {
		cfg.Motor.Materials.Pole = poleMat
	}
	if cmd.Flags().Changed("grade") {
		cfg.Motor.Materials.PoleGrade = poleGrade
	}
	if cmd.Flags().Changed("slot") {
		cfg.Motor.Materials.Slot = slotMat
	}
	if cmd.Flags().Changed("core") {
		cfg.Motor.Materials.Core = coreMat
	}
	if cmd.Flags().Changed("binary") {
		cfg.Solver.Binary = binary
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Solver.Timeout = config.Duration(timeout)
	}
	if cmd.Flags().Changed("retries") {
		cfg.Solver.Retries = retries
	}
	if cmd.Flags().Changed("workers") {
		cfg.Solver.Workers = workers
	}
	if cmd.Flags().Changed("keep") {
		cfg.Solver.KeepFiles = keep
	}

	for _, kv := range setVars {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		if cfg.Motor.Variables == nil {
			cfg.Motor.Variables = make(map[string]float64)
		}
		cfg.Motor.Variables[name] = val
	}

	return cfg, nil
}

func buildOrchestrator(cfg *config.Config) (*orch.Orchestrator, *material.Library, error) {
	lib, err := cfg.Library()
	if err != nil {
		return nil, nil, err
	}
	engine := femm.New(femm.Config{
		Binary:    cfg.Solver.Binary,
		TempRoot:  cfg.Solver.TempDir,
		Timeout:   time.Duration(cfg.Solver.Timeout),
		KeepFiles: cfg.Solver.KeepFiles,
	}, lib)
	o := orch.New(engine, lib, orch.Config{
		Retries: cfg.Solver.Retries,
		Workers: cfg.Solver.Workers,
	})
	return o, lib, nil
}

func caseDomains() []solver.Domain {
	domains := []solver.Domain{solver.Magnetic}
	if thermal {
		domains = append(domains, solver.Thermal)
	}
	return domains
}

func runPoint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	o, _, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	c := solver.Case{
		Label:   "static",
		Domains: caseDomains(),
		Points: []solver.OperatingPoint{
			{Currents: commutateAt(m, position), Position: position, Ambient: ambient},
		},
	}
	if cmd.Flags().Changed("loss") {
		c.LossOverride = &loss
	}

	fmt.Printf("solving %s design %s...\n", m.Topology(), m.ID())
	start := time.Now()
	results := o.Execute(context.Background(), m, c)
	fmt.Printf("completed in %v\n", time.Since(start))

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveRun(m, c.Label, results)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	return printResult(results[0])
}

func printResult(res *solver.Result) error {
	if res.Failure != nil {
		return fmt.Errorf("run failed (%s): %s", res.Failure.Class, res.Failure.Message)
	}
	fmt.Printf("attempts: %d\n\noutputs:\n", res.Attempts)
	for domain, dr := range res.Domains {
		if dr.Failure != nil {
			fmt.Printf("  [%s] failed (%s): %s\n", domain, dr.Failure.Class, dr.Failure.Message)
			continue
		}
		for _, s := range dr.Scalars {
			fmt.Printf("  [%s] %s: %.6f %s\n", domain, s.Name, s.Value, s.Unit)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}
	o, _, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s design %s over %d steps...\n", m.Topology(), m.ID(), samples)
	start := time.Now()
	frames, err := sweep.Displacement(context.Background(), o, m, sweep.Config{
		Travel:  travel,
		Samples: samples,
		Ambient: ambient,
		Domains: caseDomains(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	completed := 0
	for _, f := range frames {
		if f.Result.Completed() {
			completed++
		}
	}
	fmt.Printf("frames: %d (%d completed)\n", len(frames), completed)

	for _, name := range femm.DefaultOutputs(caseDomains()) {
		if summary, err := analysis.Summarize(frames, name); err == nil {
			fmt.Println(summary)
		}
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	results := make([]*solver.Result, len(frames))
	for i, f := range frames {
		results[i] = f.Result
	}
	runID, err := st.SaveRun(m, "displacement", results)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	if csvOut != "" {
		if err := store.ExportFramesCSV(csvOut, frames); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	if jsonOut != "" {
		if err := store.ExportFramesJSON(jsonOut, m, frames); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("no --axis given")
	}

	parsed := make([]optim.Axis, 0, len(axes))
	for _, spec := range axes {
		name, raw, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --axis %q, want name=v1,v2,...", spec)
		}
		var values []float64
		for _, field := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("invalid --axis %q: %w", spec, err)
			}
			values = append(values, v)
		}
		parsed = append(parsed, optim.Axis{Name: name, Values: values})
	}

	o, _, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	build := func(vars map[string]float64) (motor.Model, error) {
		merged := make(map[string]float64, len(cfg.Motor.Variables)+len(vars))
		for k, v := range cfg.Motor.Variables {
			merged[k] = v
		}
		for k, v := range vars {
			merged[k] = v
		}
		tmp := *cfg
		tmp.Motor.Variables = merged
		return tmp.BuildModel()
	}

	base, err := build(nil)
	if err != nil {
		return err
	}
	c := solver.Case{
		Label:   "optimize",
		Domains: []solver.Domain{solver.Magnetic},
		Points: []solver.OperatingPoint{
			{Currents: commutateAt(base, 0), Ambient: ambient},
		},
	}

	fmt.Printf("searching %d axes...\n", len(parsed))
	start := time.Now()
	best, all, err := optim.NewGridSearch(parsed).Search(context.Background(), o, build, c, optim.MeanScalar(objective))
	if err != nil {
		return err
	}
	fmt.Printf("evaluated %d candidates in %v\n\n", len(all), time.Since(start))

	fmt.Printf("best %s: %.6f\n", objective, best.Score)
	for name, val := range best.Variables {
		fmt.Printf("  %s = %g\n", name, val)
	}
	return nil
}

// commutateAt computes the instantaneous phase currents that drive the
// design at a displacement.
func commutateAt(m motor.Model, position float64) [3]float64 {
	traits := m.Traits()
	mech := physics.MechanicalAngle(traits.Circumference, position)
	elec := physics.ElectricalAngle(traits.PolePairs, mech)
	alpha, beta := physics.InversePark(traits.PeakCurrents[0], traits.PeakCurrents[1], elec)
	ia, ib, ic := physics.InverseClarke(alpha, beta)
	return [3]float64{ia, ib, ic}
}

func validateDesign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIABLE\tVALUE\tUNIT\tRANGE")
	for _, v := range m.Variables() {
		fmt.Fprintf(w, "%s\t%g\t%s\t[%g, %g]\n", v.Name, v.Value, v.Unit, v.Min, v.Max)
	}
	w.Flush()

	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid design: %w", err)
	}
	traits := m.Traits()
	fmt.Printf("\ndesign %s is valid\n", m.ID())
	fmt.Printf("poles: %d  slots: %d  turns per slot: %d  cycle: %.2f mm\n",
		traits.Poles, traits.Slots, traits.Turns, traits.Circumference)
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := cfg.Library()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTAG\tMAGNETIC\tTHERMAL")
	for _, name := range lib.Names() {
		mat, err := lib.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%v\n", mat.Name, mat.Tag, mat.HasMagnetic(), mat.HasThermal())
	}
	return w.Flush()
}

func listTopologies(cmd *cobra.Command, args []string) error {
	for _, top := range motor.Topologies() {
		specs, err := motor.Specs(top)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", top)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, spec := range specs {
			fmt.Fprintf(w, "  %s\t%s\t[%g, %g]\tdefault %g\n", spec.Name, spec.Unit, spec.Min, spec.Max, spec.Default)
		}
		w.Flush()
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOPOLOGY\tCASE\tTIME\tCOMPLETED\tFAILED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Topology,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Completed,
			run.Failed,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading run %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
