package infra

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// PrintSubmitter submits a pre-rendered label document to a print queue.
// Services depend on this interface so tests can swap in a fake printer.
type PrintSubmitter interface {
	Submit(ctx context.Context, documentPath string) error
	CommandString(documentPath string) string
}

// LPRClient drives the physical label printer through the CUPS `lpr`
// spooler, exactly as the shop's thermal printer is installed (raw queue,
// ZPL passed through untouched). The printer is an external collaborator:
// submissions get a fixed timeout and go through a circuit breaker so a
// stalled queue cannot hold request goroutines for minutes.
type LPRClient struct {
	queue   string
	timeout time.Duration
	cb      *CircuitBreaker
}

func NewLPRClient(queue string, timeout time.Duration, cb *CircuitBreaker) *LPRClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LPRClient{queue: queue, timeout: timeout, cb: cb}
}

// CommandString returns the command line that Submit would run, for the
// diagnostic fields of the printer-test response.
func (c *LPRClient) CommandString(documentPath string) string {
	return strings.Join([]string{"lpr", "-P", c.queue, "-o", "raw", documentPath}, " ")
}

// Submit sends one document to the queue. A non-zero exit reports the
// spooler's stderr; the caller decides how to surface it.
func (c *LPRClient) Submit(ctx context.Context, documentPath string) error {
	return c.cb.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "lpr", "-P", c.queue, "-o", "raw", documentPath)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return fmt.Errorf("lpr: %s", msg)
		}
		return nil
	})
}
