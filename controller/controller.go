// Package controller implements the per-call state a caller passes into
// CallMethod: a failure flag, the failure text, and the receive timeout.
//
// Grounded on _examples/original_source/src/controller.cc (Pcontroller),
// translated field for field.
package controller

const defaultTimeoutMs = 5000

// Controller is owned by exactly one caller for exactly one outstanding
// call, so unlike the registry client or the channel's connection pool it
// needs no lock: nothing else touches it concurrently.
type Controller struct {
	failed    bool
	errorText string
	timeoutMs int
}

// New returns a Controller with the framework's default 5-second timeout.
func New() *Controller {
	return &Controller{timeoutMs: defaultTimeoutMs}
}

// Reset clears the failure state so the same Controller can be reused for
// another call. The timeout is left untouched.
func (c *Controller) Reset() {
	c.failed = false
	c.errorText = ""
}

// Failed reports whether the channel marked this call as failed.
func (c *Controller) Failed() bool { return c.failed }

// ErrorText returns the reason SetFailed was called with, or "" if the call
// has not failed.
func (c *Controller) ErrorText() string { return c.errorText }

// SetFailed is called by the channel at most once per call, before control
// returns to the caller.
func (c *Controller) SetFailed(reason string) {
	c.failed = true
	c.errorText = reason
}

// SetTimeout sets the receive timeout in milliseconds. The channel reads
// this before recv.
func (c *Controller) SetTimeout(timeoutMs int) { c.timeoutMs = timeoutMs }

// TimeoutMs returns the configured receive timeout in milliseconds.
func (c *Controller) TimeoutMs() int { return c.timeoutMs }

// StartCancel, IsCanceled and NotifyOnCancel exist for interface parity with
// a hypothetical cancelable controller. The protocol does not support
// cancellation, so these are permanently no-ops.
func (c *Controller) StartCancel()             {}
func (c *Controller) IsCanceled() bool         { return false }
func (c *Controller) NotifyOnCancel(func())    {}
