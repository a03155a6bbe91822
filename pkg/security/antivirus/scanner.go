// Package antivirus scans uploaded resumes before they are accepted.
package antivirus

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no scanner can be reached. Callers fail
// closed and reject the upload.
var ErrUnavailable = errors.New("antivirus: scanner unavailable")

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string // Name of scanner that produced this result
}

// Scanner is the interface for pluggable antivirus implementations
type Scanner interface {
	// Scan checks file content for malware. A non-nil error means the file
	// could not be scanned and must be treated as unsafe.
	Scan(ctx context.Context, filename string, data []byte) (ScanResult, error)

	// Name returns the scanner implementation name (for logging)
	Name() string

	// Ping checks if the scanner is operational
	Ping(ctx context.Context) error
}

// NoOpScanner always reports clean files. Use for development only.
type NoOpScanner struct{}

var _ Scanner = NoOpScanner{}

func (NoOpScanner) Scan(ctx context.Context, filename string, data []byte) (ScanResult, error) {
	return ScanResult{ScannerName: "noop"}, nil
}

func (NoOpScanner) Name() string { return "noop" }

func (NoOpScanner) Ping(ctx context.Context) error { return nil }
