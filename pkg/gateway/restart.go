package gateway

import (
	"os"
	"os/exec"
	"sync"
)

// Restarter performs a full device restart. The call does not return;
// there is no graceful shutdown, mirroring a hardware reset.
type Restarter interface {
	Restart()
}

// ExecRestarter restarts by replacing the process with a fresh copy of
// itself. State is lost exactly as on a hardware reset.
type ExecRestarter struct{}

// Restart re-executes the current binary with the original arguments.
// When the exec fails the process exits instead; a half-restarted
// gateway must not keep running.
func (ExecRestarter) Restart() {
	self, err := os.Executable()
	if err != nil {
		os.Exit(1)
	}

	cmd := exec.Command(self, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

// RecordingRestarter counts restart requests instead of performing them.
type RecordingRestarter struct {
	mu    sync.Mutex
	count int
}

// Restart records the request.
func (r *RecordingRestarter) Restart() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

// Count returns the number of recorded restarts.
func (r *RecordingRestarter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

var (
	_ Restarter = ExecRestarter{}
	_ Restarter = (*RecordingRestarter)(nil)
)
