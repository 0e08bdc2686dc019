package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/clubar/pkg/errors"
)

func loadOpts(fs afero.Fs, path string) LoadOptions {
	return LoadOptions{Path: path, Fs: fs, SkipEnv: true, SkipSearch: true}
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := Load(LoadOptions{SkipEnv: true, SkipSearch: true})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileLayers(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "toml overrides",
			path: "/cfg/clubar.toml",
			content: `
foreground = "#ffffff"
topbar = true
geometry = "10,20,800,24"
padding = "4"
[limits]
max_blocks = 8
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "#ffffff", cfg.Foreground)
				assert.True(t, cfg.TopBar)
				assert.Equal(t, Geometry{X: 10, Y: 20, W: 800, H: 24}, cfg.Geometry)
				assert.Equal(t, Direction{Left: 4, Right: 4, Top: 4, Bottom: 4}, cfg.Padding)
				assert.Equal(t, 8, cfg.Limits.MaxBlocks)
				assert.Equal(t, 1024, cfg.Limits.MaxInput, "untouched keys keep defaults")
				assert.Equal(t, "#090909", cfg.Background)
			},
		},
		{
			name: "toml tables for edges",
			path: "/cfg/clubar.toml",
			content: `
[geometry]
x = 1
y = 2
w = 3
h = 4
[margin]
left = 5
bottom = 6
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Geometry{X: 1, Y: 2, W: 3, H: 4}, cfg.Geometry)
				assert.Equal(t, Direction{Left: 5, Bottom: 6}, cfg.Margin)
			},
		},
		{
			name: "yaml file",
			path: "/cfg/clubar.yaml",
			content: `
fonts:
  - "Terminus-10"
frontend: TUI
custom_file: /tmp/status
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"Terminus-10"}, cfg.Fonts)
				assert.Equal(t, FrontendTUI, cfg.Frontend)
				assert.Equal(t, "/tmp/status", cfg.CustomFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))

			cfg, err := Load(loadOpts(fs, tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.path, cfg.Source)
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(loadOpts(afero.NewMemMapFs(), "/nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	assert.Equal(t, "/nope.toml", errors.GetErrorDetails(err)["path"])
}

func TestLoadMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.toml", []byte("geometry = [unclosed"), 0o644))

	_, err := Load(loadOpts(fs, "/bad.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadEnvAndOverrides(t *testing.T) {
	t.Setenv("CLUBAR_BACKGROUND", "#123456")
	t.Setenv("CLUBAR_LIMITS__MAX_INPUT", "2048")
	t.Setenv("CLUBAR_FONTS", "a, b ,,c")
	t.Setenv("CLUBAR_FOREGROUND", "#000000")

	cfg, err := Load(LoadOptions{
		SkipSearch: true,
		Overrides:  map[string]interface{}{"foreground": "#abcdef", "topbar": true},
	})
	require.NoError(t, err)

	assert.Equal(t, "#123456", cfg.Background)
	assert.Equal(t, 2048, cfg.Limits.MaxInput)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Fonts)
	assert.Equal(t, "#abcdef", cfg.Foreground, "flags win over the environment")
	assert.True(t, cfg.TopBar)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(LoadOptions{
		SkipEnv:    true,
		SkipSearch: true,
		Overrides: map[string]interface{}{
			"frontend":    "x11",
			"color":       "sometimes",
			"color_cache": 0,
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Equal(t, 3, errors.GetErrorDetails(err)["problems"])
	assert.Contains(t, err.Error(), "frontend")
	assert.Contains(t, err.Error(), "color_cache")
}

func TestLoadNegativeGeometry(t *testing.T) {
	_, err := Load(LoadOptions{
		SkipEnv:    true,
		SkipSearch: true,
		Overrides:  map[string]interface{}{"geometry": "-2,0,0,1"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "geometry")
}

func TestParseGeometry(t *testing.T) {
	g, err := ParseGeometry("0, 0,1366,32")
	require.NoError(t, err)
	assert.Equal(t, Geometry{W: 1366, H: 32}, g)

	g, err = ParseGeometry(",,100")
	require.NoError(t, err)
	assert.Equal(t, Geometry{W: 100}, g)

	_, err = ParseGeometry("1,2,3,4,5")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))

	_, err = ParseGeometry("a,b")
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("3")
	require.NoError(t, err)
	assert.Equal(t, Direction{Left: 3, Right: 3, Top: 3, Bottom: 3}, d)

	d, err = ParseDirection("1,2")
	require.NoError(t, err)
	assert.Equal(t, Direction{Left: 1, Right: 2}, d)
}

func TestBorderColor(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cfg.Foreground, cfg.BorderColor())
	cfg.Border = "#ff0000"
	assert.Equal(t, "#ff0000", cfg.BorderColor())
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "#"), "line not commented: %q", line)
	}
	assert.Contains(t, content, "[limits]")
	assert.Contains(t, content, `# foreground = "#efefef"`)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.TopBar = true
	cfg.Padding = Direction{Left: 2, Right: 2}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "topbar = true")

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, *cfg, back)
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status")
	other := filepath.Join(dir, "other")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, func() { changes.Add(1) })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("x"), 0o644)
		_ = os.WriteFile(path, []byte("b"), 0o644)
		return changes.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
