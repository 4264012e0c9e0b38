package config

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/emberhearth/hearth/internal/models"
)

// ErrOwned is returned by ClaimDaemon while another live hearthd process
// owns the servers.
var ErrOwned = errors.New("servers are owned by another hearthd process")

// ReadDaemonInfo returns the contents of daemon.yaml, or nil when no
// process has claimed the servers.
func ReadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}

	var info models.DaemonInfo
	if err := LoadYAML(path, &info); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// RunningDaemon returns the live owner of the servers, or nil. A
// daemon.yaml left behind by a dead process is removed.
func RunningDaemon() (*models.DaemonInfo, error) {
	info, err := ReadDaemonInfo()
	if err != nil || info == nil {
		return nil, err
	}
	if !processAlive(info.PID) {
		if err := removeDaemonFile(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return info, nil
}

// ClaimDaemon records info as the owner of the servers. It fails with
// ErrOwned when a different live process holds the claim.
func ClaimDaemon(info *models.DaemonInfo) error {
	current, err := RunningDaemon()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if current != nil && current.PID != info.PID {
		return fmt.Errorf("%w: %s already running (PID %d)", ErrOwned, current.Describe(), current.PID)
	}

	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// ReleaseDaemon drops the claim held by pid. A claim held by any other
// process is left alone.
func ReleaseDaemon(pid int) error {
	info, err := ReadDaemonInfo()
	if err != nil || info == nil || info.PID != pid {
		return err
	}
	return removeDaemonFile()
}

func removeDaemonFile() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// processAlive probes pid with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
