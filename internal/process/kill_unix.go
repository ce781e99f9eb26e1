//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate puts the command in its own process group so that the engine and
// every helper it spawns (LaTeX, rsvg-convert...) can be killed together.
// Must be called before cmd.Start.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; exec.Cmd.Wait reaps the leader either way
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
