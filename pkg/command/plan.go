package command

import (
	"errors"
	"sync"
)

// ErrEmptyPlan is returned when removing from a plan that holds nothing
var ErrEmptyPlan = errors.New("plan is empty")

// Plan is the operator's buffer of commands waiting to be predicted or
// committed. Every method holds the same mutex, so Drain and Append never
// interleave.
type Plan struct {
	mu    sync.Mutex
	items []Command
}

// NewPlan creates an empty plan
func NewPlan() *Plan {
	return &Plan{items: make([]Command, 0)}
}

// Append validates and adds commands to the end of the plan
func (p *Plan) Append(cmds ...Command) error {
	for _, c := range cmds {
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.Kind.IsActuation() {
			return ErrNotActuation
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, cmds...)
	return nil
}

// RemoveLast drops and returns the most recently appended command
func (p *Plan) RemoveLast() (Command, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return Command{}, ErrEmptyPlan
	}
	last := p.items[len(p.items)-1]
	p.items = p.items[:len(p.items)-1]
	return last, nil
}

// Clear removes every command
func (p *Plan) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = p.items[:0]
}

// Snapshot returns a copy of the plan
func (p *Plan) Snapshot() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Command, len(p.items))
	copy(out, p.items)
	return out
}

// Drain returns every command and leaves the plan empty
func (p *Plan) Drain() []Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := p.items
	p.items = make([]Command, 0, cap(p.items))
	return result
}

// Len returns the number of planned commands
func (p *Plan) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// TotalSteps returns the number of engine steps the plan occupies
func (p *Plan) TotalSteps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return TotalSteps(p.items)
}

// TotalSteps returns the number of engine steps cmds occupy when queued
func TotalSteps(cmds []Command) int {
	total := 0
	for _, c := range cmds {
		total += c.Steps()
	}
	return total
}
