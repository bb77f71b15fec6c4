package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/go-moonmission/pkg/command"
	"github.com/opd-ai/go-moonmission/pkg/engine"
)

// action is what one line of operator input asks for
type action int

const (
	actionNone action = iota
	actionInput
	actionPause
	actionResume
	actionStatus
	actionHelp
	actionQuit
)

var errUsage = errors.New("usage: plan <command> [steps] | now <command> [steps] | execute | sync | clear | undo | pause | resume | status | quit")

const helpText = `commands:
  plan <command> [steps]   add a rocket command to the plan (also: <command>[:steps])
  now <command> [steps]    queue a rocket command on the live rocket
  execute                  commit the plan to the live rocket
  sync                     restart predictions from the live state
  clear                    empty the plan
  undo                     drop the last planned command
  pause | resume           freeze or restore simulated time
  status                   print the plan and the live queue
  quit                     end the session
rocket commands: accelerate decelerate steer-up steer-down steer-left steer-right nothing`

type request struct {
	action action
	input  engine.Input
}

var lineActions = map[string]action{
	"pause":  actionPause,
	"resume": actionResume,
	"status": actionStatus,
	"help":   actionHelp,
	"?":      actionHelp,
	"quit":   actionQuit,
	"exit":   actionQuit,
}

var metaAliases = map[string]command.Kind{
	"execute": command.Execute,
	"exec":    command.Execute,
	"commit":  command.Execute,
	"sync":    command.Sync,
	"clear":   command.Clear,
	"undo":    command.RemoveLast,
}

// parseLine turns one line of operator input into a request
func parseLine(line string) (request, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return request{action: actionNone}, nil
	}

	head := fields[0]
	if a, ok := lineActions[head]; ok && len(fields) == 1 {
		return request{action: a}, nil
	}
	if kind, ok := metaAliases[head]; ok && len(fields) == 1 {
		return request{action: actionInput, input: engine.Input{Command: command.New(kind, 0)}}, nil
	}

	immediate := false
	switch head {
	case "plan":
		fields = fields[1:]
	case "now":
		immediate = true
		fields = fields[1:]
	}

	cmd, err := parseCommand(fields)
	if err != nil {
		return request{}, err
	}
	if immediate && !cmd.Kind.IsActuation() {
		return request{}, fmt.Errorf("%w: %s", command.ErrNotActuation, cmd.Kind)
	}
	return request{action: actionInput, input: engine.Input{Command: cmd, Immediate: immediate}}, nil
}

// parseCommand reads "kind", "kind:steps" or "kind steps"
func parseCommand(fields []string) (command.Command, error) {
	switch len(fields) {
	case 1:
		return command.Parse(fields[0])
	case 2:
		return command.Parse(fields[0] + ":" + fields[1])
	default:
		return command.Command{}, errUsage
	}
}
