package utils

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string   { return "i/o timeout" }
func (fakeTimeoutErr) Timeout() bool   { return true }
func (fakeTimeoutErr) Temporary() bool { return true }

func TestProbeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"context deadline", context.DeadlineExceeded, "Timeout"},
		{
			"wrapped deadline",
			&url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded},
			"Timeout",
		},
		{"net timeout", fakeTimeoutErr{}, "Timeout"},
		{
			"url error",
			&url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")},
			`ClientError: Get "http://x": connection refused`,
		},
		{"generic", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProbeErrorMessage(tt.err))
		})
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "None"},
		{"404", fmt.Errorf("%w: status 404 404 Not Found", ErrClientHTTPError), "HTTP_404"},
		{"403", fmt.Errorf("%w: status 403 403 Forbidden", ErrClientHTTPError), "HTTP_403"},
		{"generic 4xx", fmt.Errorf("%w: status 410 410 Gone", ErrClientHTTPError), "HTTP_4xx"},
		{"5xx", fmt.Errorf("%w: status 503 503 Service Unavailable", ErrServerHTTPError), "HTTP_5xx"},
		{"other status", fmt.Errorf("%w: status 304 304 Not Modified", ErrOtherHTTPError), "HTTP_OtherStatus"},
		{"request creation", fmt.Errorf("%w: bad url", ErrRequestCreation), "Internal_RequestCreation"},
		{"body read", fmt.Errorf("%w: unexpected EOF", ErrResponseBodyRead), "Network_BodyRead"},
		{"canceled", context.Canceled, "System_ContextCanceled"},
		{"deadline", context.DeadlineExceeded, "System_ContextDeadlineExceeded"},
		{"refused", errors.New("dial tcp: connection refused"), "Network_ConnectionRefused"},
		{"dns", errors.New("lookup example.invalid: no such host"), "Network_DNSLookup"},
		{"tls", errors.New("x509: certificate signed by unknown authority"), "Network_TLS"},
		{"unknown", errors.New("mystery"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeError(tt.err))
		})
	}
}
