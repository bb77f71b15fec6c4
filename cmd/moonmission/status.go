package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/engine"
	"github.com/opd-ai/go-moonmission/pkg/entity"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func field(label string, format string, args ...any) string {
	return labelStyle.Render(label) + " " + valueStyle.Render(fmt.Sprintf(format, args...))
}

// statusLine summarizes the live state in one line
func statusLine(s engine.PhysicsState) string {
	r := s.Rocket
	parts := []string{
		field("pos", "(%.1f, %.1f)", r.GetPosition().X, r.GetPosition().Y),
		field("speed", "%.4f", r.Body.Speed()),
		field("alt", "%.1f", r.GetPosition().Distance(s.Earth.GetPosition())-s.Earth.Radius),
		field("moon", "%.1f", r.GetPosition().Distance(s.Moon.GetPosition())),
	}
	if r.Empty() {
		parts = append(parts, warnStyle.Render("fuel empty"))
	} else {
		parts = append(parts, field("fuel", "%.3f", r.FuelMass))
	}
	return strings.Join(parts, "  ")
}

// trajectoryLine summarizes a prediction
func trajectoryLine(traj engine.Trajectory) string {
	if traj.Empty() {
		return dimStyle.Render("prediction: empty plan")
	}
	d, step := traj.ClosestApproach(entity.RocketID, entity.MoonID)
	lo, hi := traj.DistanceRange(entity.RocketID, entity.EarthID)
	return strings.Join([]string{
		labelStyle.Render("prediction"),
		field("steps", "%d", traj.Len()),
		field("closest moon", "%.1f @%d", d, step),
		field("earth range", "%.1f..%.1f", lo, hi),
	}, "  ")
}

// planLine lists commands as kind:steps
func planLine(label string, cmds []command.Command) string {
	if len(cmds) == 0 {
		return labelStyle.Render(label) + " " + dimStyle.Render("(empty)")
	}
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.String()
	}
	return labelStyle.Render(label) + " " + valueStyle.Render(strings.Join(names, " "))
}

// statusPrinter is the session presenter for a terminal. It throttles
// state lines to one per interval and prints a prediction only when its
// length changes.
type statusPrinter struct {
	w        io.Writer
	interval time.Duration
	now      func() time.Time

	lastState time.Time
	lastSteps int
}

func newStatusPrinter(w io.Writer, interval time.Duration) *statusPrinter {
	return &statusPrinter{w: w, interval: interval, now: time.Now, lastSteps: -1}
}

func (p *statusPrinter) PresentState(s engine.PhysicsState) {
	now := p.now()
	if now.Sub(p.lastState) < p.interval {
		return
	}
	p.lastState = now
	fmt.Fprintln(p.w, statusLine(s))
}

func (p *statusPrinter) PresentTrajectory(traj engine.Trajectory) {
	if traj.Len() == p.lastSteps {
		return
	}
	p.lastSteps = traj.Len()
	fmt.Fprintln(p.w, trajectoryLine(traj))
}
