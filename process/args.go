package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// Environment variables set on every process.
const (
	SpawnedEnvKey = "VPROC_SPAWNED"
	PreloadEnvKey = "LD_PRELOAD"
)

// buildArgv prefixes the plugin path to the lexed argument string.
func buildArgv(path, arguments string, naive bool) ([]string, error) {
	if naive {
		return strings.Split(path+" "+arguments, " "), nil
	}

	args, err := shlex.Split(arguments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	return append([]string{path}, args...), nil
}

// buildEnvv builds the environment of a process. The spawn marker comes
// first, then the preload chain, then the user variables sorted by key.
func buildEnvv(shim, preloadPath string, env map[string]string) []string {
	envv := []string{SpawnedEnvKey + "=TRUE"}

	if preload := preloadChain(shim, preloadPath); preload != "" {
		envv = append(envv, PreloadEnvKey+"="+preload)
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		if k == SpawnedEnvKey || k == PreloadEnvKey {
			logrus.Warnf("ignoring user setting of reserved variable %s", k)
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		envv = append(envv, k+"="+env[k])
	}

	return envv
}

func preloadChain(paths ...string) string {
	nonEmpty := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, ":")
}
