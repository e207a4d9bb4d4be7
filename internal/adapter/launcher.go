package adapter

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoMediaURL is returned when a video has nothing to play
var ErrNoMediaURL = errors.New("video has no media url")

// Launcher opens video URLs in an external player
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger

	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// launchPath is a single way to start a player. Paths prefixed "open-a:"
// go through macOS open -a.
type launchPath struct {
	path      string
	openFlags []string
}

// players maps a player name to its launch paths per platform
var players = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
	"ffplay": {
		"darwin":  {{path: "ffplay"}},
		"linux":   {{path: "ffplay"}},
		"windows": {{path: "ffplay"}},
	},
}

// candidatePlayers is the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv", "ffplay"},
	"linux":   {"mpv", "celluloid", "vlc", "ffplay"},
	"windows": {"vlc", "mpv", "ffplay"},
}

// NewLauncher creates a Launcher. An empty command auto-detects a player.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Play opens url in the configured player, a detected player, or the
// system default handler, in that order.
func (l *Launcher) Play(url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrNoMediaURL
	}

	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching player", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}

	l.logger.Info("no candidate players found, using system default")
	name, args := defaultOpener(runtime.GOOS, url)
	return l.start(name, args...)
}

// detectAndLaunch tries candidate players in order and returns the one
// that started
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		for _, lp := range players[name][runtime.GOOS] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				args := append(append([]string{}, lp.openFlags...), "-a", app, url)
				err = l.start("open", args...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, url)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", errors.New("no candidate players found")
}

// defaultOpener returns the system command that opens url
func defaultOpener(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		return "xdg-open", []string{url}
	}
}
