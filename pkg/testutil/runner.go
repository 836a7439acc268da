package testutil

import (
	"context"
	"strings"

	"github.com/infraguys/genesis-templates/pkg/exec"
)

// StubCall is one recorded command.
type StubCall struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string
}

// Command returns the arguments joined by spaces.
func (c StubCall) Command() string {
	return strings.Join(c.Args, " ")
}

// StubRunner implements exec.CommandRunner from canned responses keyed by
// the space-joined argument list. Unknown commands exit 127.
type StubRunner struct {
	responses map[string]exec.CmdResult
	Calls     []StubCall
}

// NewStubRunner creates an empty StubRunner.
func NewStubRunner() *StubRunner {
	return &StubRunner{responses: make(map[string]exec.CmdResult)}
}

// On sets the response for args, replacing any earlier one.
func (s *StubRunner) On(args string, result exec.CmdResult) {
	s.responses[args] = result
}

// Run records the call and returns the canned response.
func (s *StubRunner) Run(ctx context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	call := StubCall{Name: name, Args: args, Dir: opts.Dir, Env: opts.Env}
	s.Calls = append(s.Calls, call)
	if result, ok := s.responses[call.Command()]; ok {
		return result, nil
	}
	return exec.CmdResult{ExitCode: 127, Stderr: "command not found"}, nil
}

// Commands returns the recorded commands in call order.
func (s *StubRunner) Commands() []string {
	out := make([]string, 0, len(s.Calls))
	for _, c := range s.Calls {
		out = append(out, c.Command())
	}
	return out
}
