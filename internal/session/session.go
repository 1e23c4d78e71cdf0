package session

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/charmbracelet/log"

	"github.com/keystage/keystage/internal/gpg"
	"github.com/keystage/keystage/internal/mount"
	"github.com/keystage/keystage/internal/run"
	"github.com/keystage/keystage/internal/workspace"
)

// Context carries the mutable state of one staging session. It is populated
// incrementally as each step succeeds and consumed destructively by the
// cleanup coordinator, so a second cleanup finds nothing left to do.
type Context struct {
	DevicePath  string
	KeyFilePath string
	Mount       *mount.Manager
	Workspace   *workspace.Workspace
}

// Coordinator tears the session down exactly once. Every exit path — normal
// return, fatal error, or an interruption signal — funnels through Cleanup.
type Coordinator struct {
	once   sync.Once
	ctx    *Context
	runner run.Runner
}

func NewCoordinator(ctx *Context, r run.Runner) *Coordinator {
	return &Coordinator{ctx: ctx, runner: r}
}

// Cleanup runs the teardown steps on first invocation and is a no-op after
// that. Each step is best-effort and independent of the others.
func (c *Coordinator) Cleanup() {
	c.once.Do(c.teardown)
}

func (c *Coordinator) teardown() {
	if c.ctx.Mount != nil {
		c.ctx.Mount.Unmount()
		c.ctx.Mount = nil
	}
	if c.ctx.Workspace != nil {
		gpg.StopAgent(c.runner, c.ctx.Workspace.Path())
		if err := c.ctx.Workspace.Destroy(); err != nil {
			log.Warnf("%v", err)
		}
		c.ctx.Workspace = nil
	}
	c.ctx.DevicePath = ""
	c.ctx.KeyFilePath = ""
}

// HandleSignals makes Cleanup reachable from external interruption. The
// sequential flow is halted by the signal, so running teardown from this
// goroutine races with nothing.
func (c *Coordinator) HandleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-ch
		log.Warnf("received %s, cleaning up", sig)
		c.Cleanup()
		os.Exit(1)
	}()
}
