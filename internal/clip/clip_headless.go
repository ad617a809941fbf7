package clip

// headlessBackend is a no-op source for environments without a display
// server (headless Linux servers, containers, etc.). It never has text.
type headlessBackend struct{}

func (headlessBackend) Name() string             { return "headless (no-op)" }
func (headlessBackend) ReadText() (string, bool) { return "", false }
func (headlessBackend) Close()                   {}
