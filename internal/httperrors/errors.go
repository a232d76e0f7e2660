// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains failed requests to the booking service in terms a
// user can act on.
package httperrors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"examdesk/cli/internal/backend"
	"examdesk/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Failure is the reason an exchange with the service did not complete.
type Failure int

const (
	FailureUnknown Failure = iota
	FailureTimeout
	FailureDNS
	FailureRefused
	FailureTLS
	FailureServer
)

// Classify inspects the typed errors in err's chain. Message text is never
// consulted.
func Classify(err error) Failure {
	var (
		status   *backend.StatusError
		dnsErr   *net.DNSError
		netErr   net.Error
		verify   *tls.CertificateVerificationError
		unknown  x509.UnknownAuthorityError
		hostname x509.HostnameError
		invalid  x509.CertificateInvalidError
		record   tls.RecordHeaderError
	)
	switch {
	case err == nil:
		return FailureUnknown
	case errors.As(err, &status):
		if status.Code >= 500 {
			return FailureServer
		}
		return FailureUnknown
	// DNSError is also a net.Error, so it goes before the timeout check.
	case errors.As(err, &dnsErr):
		return FailureDNS
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return FailureTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return FailureRefused
	case errors.As(err, &verify), errors.As(err, &unknown), errors.As(err, &hostname),
		errors.As(err, &invalid), errors.As(err, &record):
		return FailureTLS
	}
	return FailureUnknown
}

type advice struct {
	headline string
	lines    []string
	details  bool
}

// Headlines and lines may use {op} for what was being done and {host} for the
// service address.
var adviceFor = map[Failure]advice{
	FailureTimeout: {
		headline: "⏱️  Connection timeout while {op}",
		lines: []string{
			"The server took too long to respond. Check your connection,",
			"or raise EXAMDESK_TIMEOUT if the service is slow.",
		},
	},
	FailureDNS: {
		headline: "🌐 Cannot resolve {host} while {op}",
		lines: []string{
			"Check that EXAMDESK_API_URL names the right host and that DNS works.",
		},
	},
	FailureRefused: {
		headline: "🚫 Connection refused by {host} while {op}",
		lines: []string{
			"Nothing is listening there. The service may be down, or",
			"EXAMDESK_API_URL points at the wrong port.",
		},
	},
	FailureTLS: {
		headline: "🔒 Secure connection to {host} failed while {op}",
		lines: []string{
			"The server certificate was not accepted. Check the system clock",
			"and any proxy that intercepts HTTPS.",
		},
	},
	FailureServer: {
		headline: "⚠️  Server error while {op}",
		lines: []string{
			"The booking service failed to handle the request. This is not a",
			"problem with your setup; try again in a few minutes.",
		},
		details: true,
	},
	FailureUnknown: {
		headline: "❌ Cannot reach the booking service while {op}",
		lines: []string{
			"Check your connection and whether {host} is reachable from your network.",
		},
		details: true,
	},
}

// Describe returns the advice shown for err. host is the service address as
// returned by ExtractHostFromURL.
func Describe(err error, op, host string) string {
	a := adviceFor[Classify(err)]
	r := strings.NewReplacer("{op}", op, "{host}", host)

	var b strings.Builder
	b.WriteString(r.Replace(a.headline))
	b.WriteString("\n\n")
	for _, l := range a.lines {
		b.WriteString(r.Replace(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatNetworkError prints advice for err and returns it wrapped. op
// describes what was being done ("signing in"); apiURL is the service
// address.
func FormatNetworkError(err error, op, apiURL string) error {
	if err == nil {
		return nil
	}

	pterm.Println(Describe(err, op, ExtractHostFromURL(apiURL)))
	if adviceFor[Classify(err)].details {
		pterm.Debug.Printf("Technical details: %s\n", truncate(logging.Mask(err.Error()), 100))
	}
	return fmt.Errorf("network error: %w", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
