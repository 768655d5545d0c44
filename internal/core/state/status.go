package state

import "sync"

// RequestStatus is the request-lifecycle bookkeeping every slice carries.
// At most one of Error/Message is set at a time; both are cleared when a new
// request begins and on an explicit Reset.
type RequestStatus struct {
	Pending bool
	Error   string
	Message string
}

// lifecycle is the shared pending→succeeded|failed machinery. Each slice
// embeds one; its mutex also guards the slice's collections, which are only
// touched inside apply/view closures.
//
// Every request is stamped with a per-slice generation number. A completion
// whose generation is no longer the newest issued one is discarded, so a
// slow response can never overwrite state produced by a later request.
type lifecycle struct {
	mu     sync.Mutex
	seq    uint64
	status RequestStatus
}

// begin starts a new request: pending set, prior error/message cleared.
// The returned generation must be handed back to succeed or fail.
func (l *lifecycle) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.status = RequestStatus{Pending: true}
	return l.seq
}

// succeed finishes the request and runs apply under the lock. It reports
// false, applying nothing, when a newer request has superseded gen.
func (l *lifecycle) succeed(gen uint64, message string, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.seq {
		return false
	}
	l.status = RequestStatus{Message: message}
	if apply != nil {
		apply()
	}
	return true
}

// fail finishes the request with a user-facing error string, subject to the
// same supersession rule as succeed.
func (l *lifecycle) fail(gen uint64, errMsg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.seq {
		return false
	}
	l.status = RequestStatus{Error: errMsg}
	return true
}

// reject records a locally-detected failure (validation) without ever
// starting a request.
func (l *lifecycle) reject(errMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = RequestStatus{Error: errMsg}
}

// reset clears error and message. Callers owe a reset after consuming
// either, otherwise the stale text resurfaces on the next render.
func (l *lifecycle) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = RequestStatus{}
}

// view runs fn under the lock for consistent snapshots.
func (l *lifecycle) view(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
