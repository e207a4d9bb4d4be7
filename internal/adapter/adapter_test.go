package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBaseURL(t *testing.T) {
	orig := BuildAPIURL
	t.Cleanup(func() { BuildAPIURL = orig })

	BuildAPIURL = ""
	assert.Equal(t, DefaultAPIURL, ResolveBaseURL(""))

	BuildAPIURL = "https://build.example/api/"
	assert.Equal(t, "https://build.example/api", ResolveBaseURL("  "))
	assert.Equal(t, "https://runtime.example/api", ResolveBaseURL("https://runtime.example/api"))
}

func TestLoadConfig(t *testing.T) {
	// Keep the developer's .env and config out of the test
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, ResolveBaseURL(""), cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, 3, cfg.UI.GridColumns)
		assert.Equal(t, 50, cfg.History.MaxEntries)
	})

	t.Run("FileThenEnv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://file.example/api
  timeout: 5s
ui:
  grid_columns: 0
player:
  command: mpv
  args: ["--fs"]
`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://file.example/api", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 3, cfg.UI.GridColumns)
		assert.Equal(t, "mpv", cfg.Player.Command)
		assert.Equal(t, []string{"--fs"}, cfg.Player.Args)

		t.Setenv("CLIPSHARE_API_BASE_URL", "http://env.example/api/")
		cfg, err = LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://env.example/api", cfg.API.BaseURL)
	})

	t.Run("DotEnv", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLIPSHARE_LOGGING_LEVEL=DEBUG\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("CLIPSHARE_LOGGING_LEVEL") })

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "DEBUG", cfg.Logging.Level)
	})
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clipshare.log")

	logger, closer, err := SetupLogger(LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)
	logger.Debug("hello", "key", "value")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"clipshare"`)

	logger, closer, err = SetupLogger(LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

func TestLauncher_Play(t *testing.T) {
	type call struct {
		name string
		args []string
	}

	t.Run("ConfiguredPlayer", func(t *testing.T) {
		var got []call
		l := NewLauncher("mpv", []string{"--fs"}, NullLogger())
		l.start = func(name string, args ...string) error {
			got = append(got, call{name, args})
			return nil
		}

		require.NoError(t, l.Play("http://localhost:8000/uploads/videos/a.mp4"))
		assert.Equal(t, []call{{"mpv", []string{"--fs", "http://localhost:8000/uploads/videos/a.mp4"}}}, got)
	})

	t.Run("FallsBackToSystemDefault", func(t *testing.T) {
		var got []call
		l := NewLauncher("", nil, NullLogger())
		l.lookPath = func(string) (string, error) { return "", errors.New("not found") }
		l.start = func(name string, args ...string) error {
			got = append(got, call{name, args})
			if name == "open" && len(args) > 1 {
				return errors.New("no such app")
			}
			return nil
		}

		require.NoError(t, l.Play("https://blob.example/a.mp4"))
		require.NotEmpty(t, got)
		last := got[len(got)-1]
		assert.Equal(t, "https://blob.example/a.mp4", last.args[len(last.args)-1])
	})

	t.Run("EmptyURL", func(t *testing.T) {
		l := NewLauncher("mpv", nil, NullLogger())
		assert.ErrorIs(t, l.Play(" "), ErrNoMediaURL)
	})
}
