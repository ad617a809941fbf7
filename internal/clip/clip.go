// Package clip is the read-only clipboard snapshot source. Build constraints
// select the backend:
//
//	clip_system.go: macOS, Windows and Linux via golang.design/x/clipboard
//	clip_other.go:  everything else, always headless
//
// The source is sampled, never subscribed to; change detection lives in the
// watch package.
package clip

// Source returns clipboard text snapshots.
type Source interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. It reports false when the
	// clipboard is empty, unavailable or holds non-text content.
	ReadText() (string, bool)

	// Close releases any resources held by the backend.
	Close()
}

// Func adapts a plain function to a Source.
type Func func() (string, bool)

func (f Func) Name() string             { return "func" }
func (f Func) ReadText() (string, bool) { return f() }
func (f Func) Close()                   {}
