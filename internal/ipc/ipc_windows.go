//go:build windows

package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

func socketPath() string {
	return filepath.Join(os.TempDir(), socketName)
}

// listenIPC binds a loopback port and records its address in path.
func listenIPC(path string) (net.Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(ln.Addr().String()), 0o600); err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("write address file: %w", err)
	}
	return ln, nil
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	addr, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", strings.TrimSpace(string(addr)))
}
