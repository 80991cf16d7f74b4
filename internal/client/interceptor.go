package client

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/supplydesk/desk/pkg/middleware"
)

// ConnectionStatus is the last known reachability of the API server.
type ConnectionStatus struct {
	Connected   bool
	LastContact time.Time // zero means no call has been answered yet
	LastError   error
}

// Interceptor observes every round trip and keeps the connection status.
type Interceptor struct {
	status ConnectionStatus
	now    func() time.Time
	l      sync.Mutex
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		status: ConnectionStatus{Connected: false},
		now:    time.Now,
	}
}

func (i *Interceptor) GetStatus() ConnectionStatus {
	i.l.Lock()
	defer i.l.Unlock()
	return i.status
}

// Wrap returns a round tripper recording the outcome of each call made through next.
func (i *Interceptor) Wrap(next http.RoundTripper) http.RoundTripper {
	return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		i.record(resp, err)
		return resp, err
	})
}

func (i *Interceptor) record(resp *http.Response, err error) {
	i.l.Lock()
	defer i.l.Unlock()

	if err != nil {
		var netOpErr *net.OpError
		if errors.As(err, &netOpErr) {
			i.status.Connected = false
		}
		i.status.LastError = err
		return
	}

	i.status.Connected = true
	i.status.LastContact = i.now()
	if resp.StatusCode >= http.StatusInternalServerError {
		i.status.LastError = errors.New(resp.Status)
		return
	}
	i.status.LastError = nil
}
