// Package notify sends fire-and-forget HTTP notifications when the strobe
// stops. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// Notifier posts plain-text HTTP notifications for selected strobe events.
type Notifier struct {
	url    string
	title  string
	runID  string
	onStop bool
	client *http.Client

	wg sync.WaitGroup
}

// New creates a Notifier. runID is sent as the X-Run-ID header when set.
func New(notifURL, runID string, onStop bool) *Notifier {
	return &Notifier{
		url:    notifURL,
		title:  "strobe",
		runID:  runID,
		onStop: onStop,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook is a strobe.Controller.Hook-compatible function. It fires an
// asynchronous POST when the strobe stops.
func (n *Notifier) Hook(ev strobe.Event) {
	if ev.Kind != strobe.EventStopped || !n.onStop {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.post(ev.Message)
	}()
}

// Wait blocks until in-flight posts finish or timeout elapses. It reports
// whether everything finished.
func (n *Notifier) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt shutdown.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	if n.runID != "" {
		req.Header.Set("X-Run-ID", n.runID)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
