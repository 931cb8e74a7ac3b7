// Package plugins provides plugins compiled into the simulator.
//
// Each plugin is registered under a path beginning with "builtin/". Hosts
// run them on a thread.GoThread instead of starting a real program.
package plugins

import (
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/vproc/sim"
	"github.com/sarchlab/vproc/thread"
)

// Paths of the built-in plugins.
const (
	EchoPath  = "builtin/echo"
	SleepPath = "builtin/sleep"
	FailPath  = "builtin/fail"
)

// Register adds the built-in plugins to the registry.
func Register(r *thread.Registry) {
	r.Register(EchoPath, Echo)
	r.Register(SleepPath, Sleep)
	r.Register(FailPath, Fail)
}

// Echo prints its arguments, separated by spaces, followed by a newline.
func Echo(env *thread.Env) int {
	env.Printf("%s\n", strings.Join(env.Args()[1:], " "))
	return 0
}

// Sleep sleeps for each of its arguments in turn. An argument is a Go
// duration such as "1s" or "250ms". Terminating a sleeping plugin makes it
// exit with code 143.
func Sleep(env *thread.Env) int {
	for _, arg := range env.Args()[1:] {
		d, err := time.ParseDuration(arg)
		if err != nil || d < 0 {
			env.Errorf("sleep: invalid duration %q\n", arg)
			return 2
		}

		start := env.Now()
		if err := env.Sleep(sim.VTime(d)); err != nil {
			return 143
		}

		env.Printf("slept %s\n", time.Duration(env.Now().Since(start)))
	}

	return 0
}

// Fail exits with the code given as its first argument, or 1.
func Fail(env *thread.Env) int {
	args := env.Args()
	if len(args) < 2 {
		return 1
	}

	code, err := strconv.Atoi(args[1])
	if err != nil {
		env.Errorf("fail: invalid code %q\n", args[1])
		return 1
	}

	return code
}
