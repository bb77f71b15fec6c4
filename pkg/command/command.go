// Package command defines the time-scoped rocket commands, the live FIFO
// queue that applies them one step at a time, and the plan buffer an
// operator edits before committing.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownKind is returned when a command name cannot be parsed
	ErrUnknownKind = errors.New("unknown command kind")
	// ErrInvalidDuration is returned for negative or unparsable durations
	ErrInvalidDuration = errors.New("invalid command duration")
	// ErrNotActuation is returned when a meta command is used where a rocket
	// actuation is required
	ErrNotActuation = errors.New("not an actuation command")
)

// Kind tags what a command does
type Kind int

const (
	Nothing Kind = iota
	Accelerate
	Decelerate
	SteerUp
	SteerDown
	SteerLeft
	SteerRight

	// meta commands, consumed by the orchestrator
	Execute
	Clear
	RemoveLast
	Sync
)

var kindNames = map[Kind]string{
	Nothing:    "nothing",
	Accelerate: "accelerate",
	Decelerate: "decelerate",
	SteerUp:    "steer-up",
	SteerDown:  "steer-down",
	SteerLeft:  "steer-left",
	SteerRight: "steer-right",
	Execute:    "execute",
	Clear:      "clear",
	RemoveLast: "remove-last",
	Sync:       "sync",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsActuation reports whether the kind drives the rocket (Nothing included)
func (k Kind) IsActuation() bool {
	return k >= Nothing && k <= SteerRight
}

// IsMeta reports whether the kind is a plan/predictor control command
func (k Kind) IsMeta() bool {
	return k >= Execute && k <= Sync
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts "steer-up", "steer_up", "STEER_UP" and similar spellings
func ParseKind(s string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for kind, name := range kindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return Nothing, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Command is a tagged rocket action that stays active for Duration
// simulation steps. A duration of zero still runs for one step.
type Command struct {
	Kind     Kind `json:"kind" yaml:"kind"`
	Duration int  `json:"duration" yaml:"duration"`
}

// New creates a command
func New(kind Kind, duration int) Command {
	return Command{Kind: kind, Duration: duration}
}

// Steps returns how many engine steps the command occupies
func (c Command) Steps() int {
	if c.Duration < 1 {
		return 1
	}
	return c.Duration
}

// Validate checks the kind is known and the duration is not negative
func (c Command) Validate() error {
	if _, ok := kindNames[c.Kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(c.Kind))
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, c.Duration)
	}
	return nil
}

func (c Command) String() string {
	return c.Kind.String() + ":" + strconv.Itoa(c.Duration)
}

// Parse reads "kind" or "kind:duration"
func Parse(s string) (Command, error) {
	name, durationText, hasDuration := strings.Cut(strings.TrimSpace(s), ":")
	kind, err := ParseKind(name)
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Kind: kind}
	if hasDuration {
		d, err := strconv.Atoi(strings.TrimSpace(durationText))
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q", ErrInvalidDuration, durationText)
		}
		cmd.Duration = d
	}
	return cmd, cmd.Validate()
}

// ParseList reads a comma separated list such as "accelerate:30,steer-up:10"
func ParseList(s string) ([]Command, error) {
	var cmds []Command
	for _, field := range strings.Split(s, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		cmd, err := Parse(field)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
