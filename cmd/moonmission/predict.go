package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/engine"
	"github.com/opd-ai/go-moonmission/pkg/entity"
)

var (
	flagSteps    string
	flagPlanFile string
	flagDT       float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast a plan without a live session",
	Long: `Runs the trajectory predictor once from the configured initial state and
prints a summary of the predicted flight.

A plan file lists rocket commands in YAML:

  dt: 1
  commands:
    - kind: accelerate
      duration: 300
    - kind: nothing
      duration: 2000

Examples:
  moonmission predict --steps accelerate:300,nothing:2000
  moonmission predict --plan transfer.yaml --dt 0.5`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&flagSteps, "steps", "", "Comma separated commands, e.g. accelerate:30,steer-up:10")
	predictCmd.Flags().StringVar(&flagPlanFile, "plan", "", "YAML plan file")
	predictCmd.Flags().Float64Var(&flagDT, "dt", 0, "Time step (0 = plan file or config value)")
}

// planFile is the on-disk plan format
type planFile struct {
	DT       float64           `yaml:"dt"`
	Commands []command.Command `yaml:"commands"`
}

func loadPlanFile(path string) (planFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return planFile{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return planFile{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	for i, cmd := range pf.Commands {
		if err := cmd.Validate(); err != nil {
			return planFile{}, fmt.Errorf("plan entry %d: %w", i, err)
		}
	}
	return pf, nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var pf planFile
	switch {
	case flagPlanFile != "" && flagSteps != "":
		return errors.New("use either --plan or --steps, not both")
	case flagPlanFile != "":
		if pf, err = loadPlanFile(flagPlanFile); err != nil {
			return err
		}
	default:
		if pf.Commands, err = command.ParseList(flagSteps); err != nil {
			return err
		}
	}

	dt := firstPositive(flagDT, pf.DT, cfg.Simulation.TimeStep)

	control := engine.NewGameControlFromConfig(cfg, engine.WithLogger(logger))
	defer control.Close()
	for _, c := range pf.Commands {
		if err := control.Plan(c); err != nil {
			return err
		}
	}

	traj, err := control.UpdateAnalysis(cmd.Context(), dt)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), control.State(), control.PlannedCommands(), traj)
	return nil
}

func printSummary(w io.Writer, initial engine.PhysicsState, plan []command.Command, traj engine.Trajectory) {
	fmt.Fprintln(w, planLine("plan", plan))
	if traj.Empty() {
		fmt.Fprintln(w, dimStyle.Render("nothing to predict"))
		return
	}

	rocket, _ := traj.Last(entity.RocketID)
	moon, _ := traj.Last(entity.MoonID)
	fuel, _ := traj.FinalFuel()
	closest, step := traj.ClosestApproach(entity.RocketID, entity.MoonID)
	lo, hi := traj.DistanceRange(entity.RocketID, entity.EarthID)

	fmt.Fprintln(w, field("steps", "%d", traj.Len()))
	fmt.Fprintln(w, field("rocket", "(%.1f, %.1f)", rocket.X, rocket.Y))
	fmt.Fprintln(w, field("moon", "(%.1f, %.1f)", moon.X, moon.Y))
	fmt.Fprintln(w, field("closest lunar approach", "%.1f at step %d", closest, step))
	fmt.Fprintln(w, field("earth distance", "%.1f .. %.1f (surface at %.1f)", lo, hi, initial.Earth.Radius))
	fuelText := field("fuel", "%.3f of %.3f", fuel, initial.Rocket.FuelMass)
	if fuel <= 0 {
		fuelText += "  " + warnStyle.Render("tank empty")
	}
	fmt.Fprintln(w, fuelText)
	if lo < initial.Earth.Radius {
		fmt.Fprintln(w, warnStyle.Render("warning: trajectory enters the earth"))
	}
	if moonRadius := initial.Moon.Radius; closest < moonRadius {
		fmt.Fprintln(w, warnStyle.Render("warning: trajectory enters the moon"))
	}
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
