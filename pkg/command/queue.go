package command

// Queue is the live FIFO of pending commands. Only the front command is
// active; each Tick consumes one step of it. Queue is not safe for
// concurrent use; the engine guards it with its own lock.
type Queue struct {
	items []Command
}

// Push appends commands to the back of the queue
func (q *Queue) Push(cmds ...Command) {
	q.items = append(q.items, cmds...)
}

// Front returns the active command without consuming it
func (q *Queue) Front() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	return q.items[0], true
}

// Tick decrements the remaining duration of the front command by one step,
// popping it once the remaining duration reaches zero or below, and returns
// the command to apply for this step. ok is false when the queue is idle.
func (q *Queue) Tick() (cmd Command, ok bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	q.items[0].Duration--
	cmd = q.items[0]
	if cmd.Duration <= 0 {
		q.items[0] = Command{}
		q.items = q.items[1:]
	}
	return cmd, true
}

// Len returns the number of queued commands
func (q *Queue) Len() int {
	return len(q.items)
}

// Idle reports whether no command is pending
func (q *Queue) Idle() bool {
	return len(q.items) == 0
}

// Pending returns a copy of the queued commands with their remaining
// durations
func (q *Queue) Pending() []Command {
	out := make([]Command, len(q.items))
	copy(out, q.items)
	return out
}

// Clone returns an independent copy of the queue
func (q *Queue) Clone() Queue {
	return Queue{items: q.Pending()}
}

// Reset drops every pending command
func (q *Queue) Reset() {
	q.items = nil
}
