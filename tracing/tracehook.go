package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/vproc/process"
	"github.com/sarchlab/vproc/sim"
)

// NamedHookable is a hookable domain with a name.
type NamedHookable interface {
	sim.Hookable
	Name() string
	Hooks() []sim.Hook
}

// CollectTrace lets the tracer collect events from a process.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(NewHook(tracer))
}

// NewHook creates a hook that turns process lifecycle hooks into events for
// the tracer.
func NewHook(tracer Tracer) sim.Hook {
	return &traceHook{t: tracer}
}

type traceHook struct {
	t Tracer
}

// Func calls the tracer when a process changes state.
func (h *traceHook) Func(ctx sim.HookCtx) {
	var kind Kind

	switch ctx.Pos {
	case process.HookPosStart:
		kind = KindStart
	case process.HookPosContinue:
		kind = KindContinue
	case process.HookPosStop:
		kind = KindStop
	case process.HookPosComplete:
		kind = KindComplete
	default:
		return
	}

	p := ctx.Item.(*process.Process)
	detail := ctx.Detail.(process.LifecycleDetail)

	h.t.Trace(Event{
		Time:       detail.Now,
		Host:       p.HostName(),
		Process:    p.Name(),
		Plugin:     p.PluginName(),
		Kind:       kind,
		Elapsed:    detail.Elapsed,
		State:      detail.State.String(),
		ReturnCode: detail.ReturnCode,
	})
}
