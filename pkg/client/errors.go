package client

import "fmt"

// TransportError reports a connection-level failure that survived the
// channel's single reconnect-and-retry.
type TransportError struct {
	Host string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure talking to %s: %v", e.Host, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a non-2xx response from the appliance. It is never
// retried: the request reached the appliance and was answered.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("appliance returned %d: %s", e.Status, e.Body)
}

// AuthFailure reports whether the error is an authentication rejection.
// Callers short-circuit the remaining work for the appliance on these, since
// every further request would fail the same way.
func (e *APIError) AuthFailure() bool {
	return e.Status == 401 || e.Status == 403
}
