// Package ipc is the local control channel between a running
// "nowplaying watch" daemon and the other CLI sub-commands.
//
// The daemon listens on a Unix socket (a loopback TCP port on Windows) and
// answers one request per connection using the wire framing. A lock file
// next to the socket keeps a second daemon from stealing it.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

const socketName = "nowplaying.sock"

// ErrAlreadyRunning means another daemon holds the socket lock.
var ErrAlreadyRunning = errors.New("another nowplaying daemon is already running")

// SocketPath returns the platform-appropriate IPC address file.
//
//   - $NOWPLAYING_SOCKET when set
//   - Linux: $XDG_RUNTIME_DIR/nowplaying.sock
//   - otherwise $TMPDIR/nowplaying.sock
//
// On Windows the file holds the loopback address of the daemon.
func SocketPath() string {
	if s := os.Getenv("NOWPLAYING_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// Listener is the daemon side of the IPC channel. Close releases the
// socket and the lock.
type Listener struct {
	net.Listener
	path string
	lock *flock.Flock
	once sync.Once
}

// Listen takes the single-instance lock and listens on SocketPath. A stale
// socket left by a crashed daemon is removed while holding the lock.
func Listen() (*Listener, error) {
	path := SocketPath()
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}

	_ = os.Remove(path)
	ln, err := listenIPC(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return &Listener{Listener: ln, path: path, lock: lock}, nil
}

// Path returns the socket path the listener is bound to.
func (l *Listener) Path() string { return l.path }

// Close stops listening, removes the socket file and releases the lock.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		err = l.Listener.Close()
		_ = os.Remove(l.path)
		_ = l.lock.Unlock()
	})
	return err
}

// Dial connects to the running daemon.
func Dial(ctx context.Context) (net.Conn, error) {
	return dialIPC(ctx, SocketPath())
}

// IsRunning reports whether a daemon appears to be listening. It does a
// cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial(context.Background())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
