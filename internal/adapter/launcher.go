package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens linked voice files in an external audio player
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path string   // Command path: "mpv", "vlc", or "open-a:AppName"
	args []string // Player flags placed before the file
}

// players registry, per platform, in the order to try them
var players = map[string][]launchPath{
	"darwin": {
		{path: "open-a:IINA"},
		{path: "vlc"},
		{path: "mpv", args: []string{"--force-window=yes"}},
	},
	"linux": {
		{path: "mpv", args: []string{"--force-window=yes"}},
		{path: "celluloid"},
		{path: "vlc"},
	},
	"windows": {
		{path: "vlc"},
		{path: "mpv", args: []string{"--force-window=yes"}},
	},
}

// NewLauncher creates a Launcher. An empty command auto-detects a player.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// Launch opens a local file in the configured player, a detected player or
// the system default handler, in that order
func (l *Launcher) Launch(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("linked file is not accessible: %w", err)
	}

	// Tier 1: User configured a specific player
	if l.command != "" {
		l.logger.Info("launching player", "command", l.command, "args", l.args, "path", path)
		cmd := exec.Command(l.command, append(append([]string{}, l.args...), path)...)
		return cmd.Start()
	}

	// Tier 2: Try candidate chain
	if err := l.detectAndLaunch(path); err == nil {
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(path)
}

func (l *Launcher) detectAndLaunch(path string) error {
	candidates, ok := players[runtime.GOOS]
	if !ok {
		candidates = players["linux"]
	}

	for _, lp := range candidates {
		var err error
		if app, isApp := strings.CutPrefix(lp.path, "open-a:"); isApp {
			// Run waits so a missing app is reported
			err = exec.Command("open", "-a", app, path).Run()
		} else if _, err = exec.LookPath(lp.path); err == nil {
			err = exec.Command(lp.path, append(append([]string{}, lp.args...), path)...).Start()
		}

		if err == nil {
			l.logger.Info("launched with detected player", "path", lp.path)
			return nil
		}
		l.logger.Debug("launch path not available", "path", lp.path, "error", err)
	}
	return fmt.Errorf("no candidate players found")
}

// launchDefault opens the file using the system default handler
func (l *Launcher) launchDefault(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "path", path)
	return cmd.Start()
}
