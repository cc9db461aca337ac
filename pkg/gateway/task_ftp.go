package gateway

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/ftp"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// FTPTask runs the remote configuration server and the restart guard:
// when the last remote session closes, the gateway restarts so that a
// possibly rewritten configuration file takes effect.
//
// The guard is edge-triggered on the open-session count crossing from
// nonzero to zero between two consecutive ticks. It does not check
// whether the configuration actually changed; closing a session is taken
// as intent to apply.
type FTPTask struct {
	server    ftp.Server
	configFS  fs.FS
	restarter Restarter
	logger    log.Logger

	// wasOpen latches once a tick observes at least one open session
	// and clears when the restart edge fires.
	wasOpen bool
}

// NewFTPTask creates the remote-access task. configFS is the filesystem
// exposed to remote sessions, typically the configuration directory.
func NewFTPTask(server ftp.Server, configFS fs.FS, restarter Restarter, logger log.Logger) *FTPTask {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &FTPTask{
		server:    server,
		configFS:  configFS,
		restarter: restarter,
		logger:    logger,
	}
}

// Name implements task.Task.
func (t *FTPTask) Name() string { return "ftp" }

// Setup registers the accounts and the configuration share, then starts
// the server. With ftp.active false the task stays dormant.
func (t *FTPTask) Setup(ctx context.Context, cfg *config.Config) error {
	if !cfg.FTP.Active {
		return nil
	}

	for _, user := range cfg.FTP.Users {
		if err := t.server.AddUser(user.Name, user.Password); err != nil {
			return fmt.Errorf("ftp user %s: %w", user.Name, err)
		}
	}
	if t.configFS != nil {
		t.server.RegisterFilesystem("config", t.configFS)
	}
	if err := t.server.Begin(); err != nil {
		return fmt.Errorf("ftp server: %w", err)
	}
	return nil
}

// Loop services the server, then applies the restart edge rule.
func (t *FTPTask) Loop(ctx context.Context, cfg *config.Config) error {
	if !cfg.FTP.Active {
		return nil
	}

	t.server.Handle()

	open := t.server.CountOpenSessions()
	if open == 0 {
		if t.wasOpen {
			t.wasOpen = false
			t.logger.Log(log.NewStateChangeEvent(log.ComponentFTP, "open", "closed", "restarting to apply configuration"))
			t.restarter.Restart()
		}
	} else {
		t.wasOpen = true
	}
	return nil
}

var _ task.Task = (*FTPTask)(nil)
