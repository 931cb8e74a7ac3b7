package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfoTable is the table that describes the run that produced a
// recording.
const ExecInfoTable = "exec_info"

// ExecInfo is one property of the run.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the simulator was run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates an ExecRecorder that writes into the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecInfoTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start records the command line, working directory and start time.
func (e *ExecRecorder) Start() {
	e.add("Start Time", now())
	e.add("Command", strings.Join(os.Args, " "))

	if cwd, err := os.Getwd(); err == nil {
		e.add("Working Directory", cwd)
	}
}

// Set records an arbitrary property.
func (e *ExecRecorder) Set(property, value string) {
	e.add(property, value)
}

// End records the end time and writes all properties.
func (e *ExecRecorder) End() {
	e.add("End Time", now())

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecInfoTable, entry)
	}

	e.entries = nil
	e.recorder.Flush()
}

func (e *ExecRecorder) add(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
