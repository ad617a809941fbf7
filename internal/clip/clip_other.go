//go:build !darwin && !windows && !linux

package clip

// New returns a headless source; no clipboard backend exists for this
// platform.
func New() Source {
	return headlessBackend{}
}
