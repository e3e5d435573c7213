package safecontext

// MemoDecision is the outcome of one memoized render.
type MemoDecision uint8

const (
	MemoMiss           MemoDecision = iota // no snapshot yet
	MemoHit                                // nothing changed, cached node returned
	MemoPropsChanged                       // cached projection reused, target re-rendered
	MemoContextSkipped                     // context changed but projected props did not
	MemoContextChanged                     // projection recomputed, target re-rendered
	MemoBothChanged                        // props and context changed
)

// String returns the label used in logs and metrics.
func (d MemoDecision) String() string {
	switch d {
	case MemoMiss:
		return "miss"
	case MemoHit:
		return "hit"
	case MemoPropsChanged:
		return "props"
	case MemoContextSkipped:
		return "skip"
	case MemoContextChanged:
		return "context"
	case MemoBothChanged:
		return "both"
	default:
		return "unknown"
	}
}

// Observer receives render-time events from safe contexts and decorators.
// Implementations must be cheap; they run inside every render.
type Observer interface {
	// RenderStarted is called when a wrapped component starts rendering.
	// The returned function is called when it finishes.
	RenderStarted(component string) (done func())

	// ContextsResolved is called after every key of a context map resolved.
	ContextsResolved(component string, keys []string)

	// ContextMissing is called when a consumer finds no supplied value.
	ContextMissing(context string)

	// MemoEvaluated is called once per memoized render.
	MemoEvaluated(component string, decision MemoDecision)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) RenderStarted(string) func()        { return func() {} }
func (NopObserver) ContextsResolved(string, []string)  {}
func (NopObserver) ContextMissing(string)              {}
func (NopObserver) MemoEvaluated(string, MemoDecision) {}

// Observers fans events out to every non-nil observer, in order.
func Observers(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return NopObserver{}
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) RenderStarted(component string) func() {
	dones := make([]func(), len(m))
	for i, o := range m {
		dones[i] = o.RenderStarted(component)
	}
	return func() {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i]()
		}
	}
}

func (m multiObserver) ContextsResolved(component string, keys []string) {
	for _, o := range m {
		o.ContextsResolved(component, keys)
	}
}

func (m multiObserver) ContextMissing(context string) {
	for _, o := range m {
		o.ContextMissing(context)
	}
}

func (m multiObserver) MemoEvaluated(component string, decision MemoDecision) {
	for _, o := range m {
		o.MemoEvaluated(component, decision)
	}
}
