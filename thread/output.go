package thread

import (
	"fmt"
	"io"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings of plugin output files.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// OutputConfig tells where plugin stdout and stderr go. With an empty Dir the
// output is discarded. Otherwise it is written to Dir/<process>.stdout.log and
// Dir/<process>.stderr.log, rotated with lumberjack semantics.
type OutputConfig struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Writers returns the stdout and stderr writers for the named process. Both
// are nil when output is discarded.
func (c OutputConfig) Writers(name string) (io.WriteCloser, io.WriteCloser) {
	if c.Dir == "" {
		return nil, nil
	}

	outW := c.logger(filepath.Join(c.Dir, fmt.Sprintf("%s.stdout.log", name)))
	errW := c.logger(filepath.Join(c.Dir, fmt.Sprintf("%s.stderr.log", name)))

	return outW, errW
}

func (c OutputConfig) logger(path string) *lj.Logger {
	return &lj.Logger{
		Filename:   path,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}

	return v
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		if c != nil {
			_ = c.Close()
		}
	}
}
