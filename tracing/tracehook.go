package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/wavesim/sim"
)

// CollectTrace lets the writer receive every sample recorded by a domain.
func CollectTrace(domain sim.Hookable, writer TraceWriter) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.w == writer {
			panic(fmt.Sprintf(
				"domain already writes trace into %s",
				reflect.TypeOf(writer)))
		}
	}

	h := traceHook{w: writer}
	domain.AcceptHook(&h)
}

// A traceHook is a hook that forwards samples to a TraceWriter.
type traceHook struct {
	w TraceWriter
}

// Func writes the sample when the hook is triggered at a sample position.
func (h *traceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosSample {
		return
	}

	entry, ok := ctx.Item.(sim.TraceEntry)
	if !ok {
		return
	}

	h.w.Write(entry)
}
