package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"
)

// chunkSize stays well below clamd's StreamMaxLength
const chunkSize = 64 << 10

// ClamAVScanner connects to clamd daemon for malware scanning
type ClamAVScanner struct {
	address string        // TCP address (host:port) or Unix socket path
	timeout time.Duration // Connection and scan timeout
	dialer  net.Dialer
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner.
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, err := c.dialer.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// reply reads one null-terminated clamd response
func reply(conn net.Conn) (string, error) {
	line, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(strings.TrimRight(line, "\x00")), nil
}

// Ping checks if ClamAV daemon is reachable
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := reply(conn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp != "PONG" {
		return fmt.Errorf("%w: unexpected reply %q", ErrUnavailable, resp)
	}
	return nil
}

// Scan streams data with the INSTREAM command: big-endian uint32 length
// prefixed chunks terminated by a zero-length chunk.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) (ScanResult, error) {
	result := ScanResult{ScannerName: c.Name()}

	conn, err := c.dial(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return result, fmt.Errorf("antivirus: send command: %w", err)
	}

	var size [4]byte
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		binary.BigEndian.PutUint32(size[:], uint32(end-start))
		if _, err := w.Write(size[:]); err != nil {
			return result, fmt.Errorf("antivirus: send chunk: %w", err)
		}
		if _, err := w.Write(data[start:end]); err != nil {
			return result, fmt.Errorf("antivirus: send chunk: %w", err)
		}
	}
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return result, fmt.Errorf("antivirus: send end marker: %w", err)
	}
	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("antivirus: flush: %w", err)
	}

	resp, err := reply(conn)
	if err != nil {
		return result, fmt.Errorf("antivirus: read response: %w", err)
	}
	return parseResponse(resp, result)
}

// parseResponse interprets "stream: OK", "stream: <threat> FOUND" and
// "<message> ERROR"
func parseResponse(resp string, result ScanResult) (ScanResult, error) {
	switch {
	case strings.HasSuffix(resp, "FOUND"):
		result.Infected = true
		threat := resp
		if i := strings.Index(threat, ":"); i >= 0 {
			threat = threat[i+1:]
		}
		result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
		return result, nil
	case strings.HasSuffix(resp, "OK"):
		return result, nil
	default:
		return result, fmt.Errorf("antivirus: scan error: %s", resp)
	}
}
