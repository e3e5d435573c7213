package ctxtest

import (
	"sync"

	"github.com/vango-dev/safecontext/pkg/safecontext"
)

// Recorder is a safecontext.Observer that records every event.
type Recorder struct {
	mu       sync.Mutex
	started  []string
	finished []string
	resolved [][]string
	missing  []string
	memo     []safecontext.MemoDecision
}

var _ safecontext.Observer = (*Recorder)(nil)

func (r *Recorder) RenderStarted(component string) func() {
	r.mu.Lock()
	r.started = append(r.started, component)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.finished = append(r.finished, component)
		r.mu.Unlock()
	}
}

func (r *Recorder) ContextsResolved(component string, keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, append([]string(nil), keys...))
}

func (r *Recorder) ContextMissing(context string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing = append(r.missing, context)
}

func (r *Recorder) MemoEvaluated(component string, decision safecontext.MemoDecision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo = append(r.memo, decision)
}

// Renders returns the components whose render started, in order.
func (r *Recorder) Renders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.started...)
}

// Finished returns the components whose render finished, in order.
func (r *Recorder) Finished() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.finished...)
}

// Resolved returns the key lists of every completed resolution.
func (r *Recorder) Resolved() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.resolved...)
}

// Missing returns the names of contexts found missing.
func (r *Recorder) Missing() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.missing...)
}

// Memo returns the memo decisions, in order.
func (r *Recorder) Memo() []safecontext.MemoDecision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]safecontext.MemoDecision(nil), r.memo...)
}
