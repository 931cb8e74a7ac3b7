package sim

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that logs every event the engine handles or drops.
type EventLogger struct {
	logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which will write into the logger.
// A nil logger means the standard logrus logger.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &EventLogger{logger: logger}
}

type named interface {
	Name() string
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent && ctx.Pos != HookPosEventDropped {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	name := reflect.TypeOf(evt).String()
	if n, ok := evt.(named); ok {
		name = n.Name()
	}

	entry := h.logger.WithFields(logrus.Fields{
		"time":  evt.Time().Seconds(),
		"event": name,
	})

	if ctx.Pos == HookPosEventDropped {
		entry.Debug("event dropped")
		return
	}

	entry.Debug("event")
}
