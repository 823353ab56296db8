package helpers

import (
	"context"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc        func(name string) bool
	RequireCommandFunc       func(name string) error
	RunCommandWithOutputFunc func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	StartCommandFunc         func(name string, args ...string) (Process, error)
	GetExitCodeFunc          func(err error) int
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RequireCommand implements CommandRunner.RequireCommand
func (m *MockCommandRunner) RequireCommand(name string) error {
	if m.RequireCommandFunc != nil {
		return m.RequireCommandFunc(name)
	}
	return nil
}

// RunCommandWithOutput implements CommandRunner.RunCommandWithOutput
func (m *MockCommandRunner) RunCommandWithOutput(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	if m.RunCommandWithOutputFunc != nil {
		return m.RunCommandWithOutputFunc(ctx, name, args...)
	}
	return "", "", nil
}

// StartCommand implements CommandRunner.StartCommand
func (m *MockCommandRunner) StartCommand(name string, args ...string) (Process, error) {
	if m.StartCommandFunc != nil {
		return m.StartCommandFunc(name, args...)
	}
	return &MockProcess{}, nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	return 0
}

// MockProcess is a Process whose exit is controlled by the test.
// Wait blocks until Exit is called when Done is non-nil.
type MockProcess struct {
	PID      int
	ExitCode int
	WaitErr  error
	Done     chan struct{}
}

// NewMockProcess returns a process that stays running until Exit is called
func NewMockProcess(pid int) *MockProcess {
	return &MockProcess{PID: pid, Done: make(chan struct{})}
}

// Exit releases Wait with the given code
func (p *MockProcess) Exit(code int) {
	p.ExitCode = code
	close(p.Done)
}

// Pid implements Process.Pid
func (p *MockProcess) Pid() int {
	return p.PID
}

// Wait implements Process.Wait
func (p *MockProcess) Wait() (int, error) {
	if p.Done != nil {
		<-p.Done
	}
	return p.ExitCode, p.WaitErr
}
