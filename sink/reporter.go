package sink

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/philipp01105/logsink/core"
)

// Reporter is the engine's self-error channel. Sink failures are
// funneled through it to a low-risk target (normally the terminal
// sink) at most once per rolling window, so a failing sink can never
// amplify into a failure storm of its own. Suppressed reports are
// counted and surfaced with the next one that passes.
type Reporter struct {
	target     Sink
	limiter    *rate.Limiter
	suppressed atomic.Uint64
}

// NewReporter creates a reporter that emits at most one warning per
// window through target. A zero window defaults to 10 seconds.
func NewReporter(target Sink, window time.Duration) *Reporter {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Reporter{
		target:  target,
		limiter: rate.NewLimiter(rate.Every(window), 1),
	}
}

// Report surfaces one internal failure, subject to rate limiting.
// It never fails; if the target itself cannot be written, the report
// is counted as suppressed.
func (r *Reporter) Report(err error) {
	if r == nil || r.target == nil || err == nil {
		return
	}

	if !r.limiter.Allow() {
		r.suppressed.Add(1)
		return
	}

	suppressed := r.suppressed.Swap(0)
	var line string
	if suppressed > 0 {
		line = fmt.Sprintf("%s [WARN ] logsink: sink error (and %d suppressed): %v\n",
			time.Now().Format(time.RFC3339), suppressed, err)
	} else {
		line = fmt.Sprintf("%s [WARN ] logsink: sink error: %v\n",
			time.Now().Format(time.RFC3339), err)
	}

	if werr := r.target.Write(core.WarnLevel, []byte(line)); werr != nil {
		r.suppressed.Add(1)
	}
}

// Suppressed returns the number of reports swallowed since the last
// emitted warning.
func (r *Reporter) Suppressed() uint64 {
	return r.suppressed.Load()
}
