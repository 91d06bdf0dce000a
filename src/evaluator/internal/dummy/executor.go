package dummy

import (
	"sync"

	"github.com/mixcheck/stembench/src/evaluator/internal/executor"
)

var _ executor.Executor = &Executor{}

// Executor fakes the engine binaries. OnRun decides the command's combined
// output and error, and can create the files the real binary would leave
// behind.
type Executor struct {
	OnRun func(name string, args []string) ([]byte, error)

	Commands [][]string

	mutex sync.Mutex
}

func NewExecutor(onRun func(name string, args []string) ([]byte, error)) *Executor {
	return &Executor{
		OnRun: onRun,
	}
}

func (e *Executor) Command(name string, arg ...string) executor.Command {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	invocation := append([]string{name}, arg...)
	e.Commands = append(e.Commands, invocation)

	return &command{
		executor: e,
		name:     name,
		args:     arg,
	}
}

type command struct {
	executor *Executor
	name     string
	args     []string
	dir      string
}

func (c *command) SetDir(dir string) {
	c.dir = dir
}

func (c *command) CombinedOutput() ([]byte, error) {
	if c.executor.OnRun == nil {
		return []byte{}, nil
	}

	return c.executor.OnRun(c.name, c.args)
}
