package thread

import (
	"errors"
	"io"
	"log"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// ExitCodeNotStarted is the return code of a plugin that could not be
// started.
const ExitCodeNotStarted = 127

// An ExecThread runs a plugin as a real child process. Run does not return
// until the child exits, so the simulator never observes it blocked.
type ExecThread struct {
	id     int
	sys    SysCallHandler
	output OutputConfig

	started    bool
	running    bool
	returnCode int
	cmd        *exec.Cmd
}

// NewExecThread creates a thread that runs an executable.
func NewExecThread(id int, sys SysCallHandler, output OutputConfig) *ExecThread {
	return &ExecThread{
		id:     id,
		sys:    sys,
		output: output,
	}
}

// ID returns the thread id.
func (t *ExecThread) ID() int {
	return t.id
}

// Run executes argv[0] with the rest of argv as arguments and envv as the
// complete environment.
func (t *ExecThread) Run(ctx Context, argv, envv []string) {
	if t.started {
		log.Panicf("thread %d already started", t.id)
	}

	t.started = true

	if len(argv) == 0 {
		logrus.Warnf("no executable for process '%s'", ctx.ProcessName())
		t.returnCode = ExitCodeNotStarted
		return
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = envv
	configureSysProcAttr(cmd)

	stdout, stderr := t.output.Writers(ctx.ProcessName())
	defer closeAll(stdout, stderr)

	cmd.Stdout = orDiscard(stdout)
	cmd.Stderr = orDiscard(stderr)

	if t.sys != nil {
		t.sys.Syscall(ctx, "execve")
	}

	t.cmd = cmd
	t.running = true
	t.returnCode = t.wait(ctx, cmd)
	t.running = false
}

func (t *ExecThread) wait(ctx Context, cmd *exec.Cmd) int {
	if err := cmd.Start(); err != nil {
		logrus.Warnf("unable to start '%s' for process '%s': %v",
			cmd.Path, ctx.ProcessName(), err)
		return ExitCodeNotStarted
	}

	err := cmd.Wait()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	logrus.Warnf("waiting for process '%s' failed: %v", ctx.ProcessName(), err)

	return 1
}

// Resume does nothing. An executable never blocks on simulated events.
func (t *ExecThread) Resume(ctx Context) {}

// Terminate does nothing once Run has returned.
func (t *ExecThread) Terminate(ctx Context) {}

// IsRunning tells if the child process is running.
func (t *ExecThread) IsRunning() bool {
	return t.running
}

// ReturnCode returns the exit code of the child process.
func (t *ExecThread) ReturnCode() int {
	return t.returnCode
}

// Release drops the reference to the finished command.
func (t *ExecThread) Release() {
	t.cmd = nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
