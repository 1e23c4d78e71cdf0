package gpg

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/keystage/keystage/internal/run"
)

// agentSocket is the control socket gpg-agent creates inside its homedir.
const agentSocket = "S.gpg-agent"

// StopAgent terminates the gpg-agent bound to the workspace, if one is
// running. Best effort: cleanup proceeds whether or not an agent was found.
func StopAgent(r run.Runner, workspaceDir string) {
	if workspaceDir == "" {
		return
	}
	if _, err := os.Stat(filepath.Join(workspaceDir, agentSocket)); err == nil {
		err := r.Run("gpgconf", "--homedir", workspaceDir, "--kill", "gpg-agent")
		if err == nil {
			return
		}
		log.Debugf("gpgconf --kill: %v", err)
	}
	sweepAgents(workspaceDir)
}

// sweepAgents scans the process table for agents whose command line
// references the workspace and terminates them.
func sweepAgents(workspaceDir string) {
	procs, err := process.Processes()
	if err != nil {
		log.Warnf("listing processes: %v", err)
		return
	}
	for _, proc := range procs {
		name, _ := proc.Name()
		if name != "gpg-agent" {
			continue
		}
		cmdline, _ := proc.Cmdline()
		if !strings.Contains(cmdline, workspaceDir) {
			continue
		}
		if err := proc.Terminate(); err != nil {
			proc.Kill()
			continue
		}
		time.Sleep(100 * time.Millisecond)
		if running, _ := proc.IsRunning(); running {
			proc.Kill()
		}
	}
}
