package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "siteplan", cfg.Metrics.Namespace)
	assert.False(t, cfg.Metrics.Enabled)

	sc, err := cfg.Scheduling.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSchedulingConfig(), sc)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  path: /tmp/plan.db
log:
  level: debug
  format: json
metrics:
  enabled: true
  addr: ":9102"
scheduling:
  sort_mode: name
  booked_anchor: visit
  include_revisit: false
  revisit_offset_months: 6
  search_horizon_days: 90
  auto_regenerate_visit: true
  capacity:
    site_visit: 2
    Report writing: 1
  default_durations:
    pre_work: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"database.path", cfg.Database.Path, "/tmp/plan.db"},
		{"log.level", cfg.Log.Level, "debug"},
		{"log.format", cfg.Log.Format, "json"},
		{"metrics.enabled", cfg.Metrics.Enabled, true},
		{"metrics.addr", cfg.Metrics.Addr, ":9102"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}

	sc, err := cfg.Scheduling.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.SortName, sc.SortMode)
	assert.Equal(t, domain.AnchorVisit, sc.BookedAnchor)
	assert.False(t, sc.IncludeRevisit)
	assert.Equal(t, 6, sc.RevisitOffsetMonths)
	assert.Equal(t, 90, sc.SearchHorizonDays)
	assert.True(t, sc.AutoRegenerateVisit)
	assert.Equal(t, 12, sc.RegenerateDelayMonths)
	assert.Equal(t, 2, sc.Capacity[domain.TaskSiteVisit])
	assert.Equal(t, 1, sc.Capacity[domain.TaskReportWriting], "labels are accepted as keys")
	assert.Equal(t, 3, sc.Capacity[domain.TaskPreWork], "unset entries keep defaults")
	assert.Equal(t, 3, sc.DefaultDurations[domain.TaskPreWork])
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"scheduling": {"revisit_offset_months": 0}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	sc, err := cfg.Scheduling.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, 0, sc.RevisitOffsetMonths, "an explicit zero offset is kept")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "scheduling:\n  sort_mode: name\n")
	t.Setenv("SITEPLAN_SCHEDULING__SORT_MODE", "date")
	t.Setenv("SITEPLAN_LOG__LEVEL", "error")
	t.Setenv("SITEPLAN_SCHEDULING__CAPACITY__PRE_WORK", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "date", cfg.Scheduling.SortMode)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Scheduling.Capacity["pre_work"])
}

func TestLoad_ConfigPathEnvIsNotASetting(t *testing.T) {
	t.Setenv(EnvConfigPath, "/nowhere/config.yaml")

	_, err := Load("")
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown sort":   "scheduling:\n  sort_mode: random\n",
		"unknown anchor": "scheduling:\n  booked_anchor: finish\n",
		"unknown task":   "scheduling:\n  capacity:\n    lunch: 1\n",
		"zero capacity":  "scheduling:\n  capacity:\n    site_visit: 0\n",
		"bad level":      "log:\n  level: loud\n",
		"bad format":     "log:\n  format: xml\n",
		"bad addr":       "metrics:\n  addr: nine\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "x = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")

	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))
	assert.Equal(t, "", ResolvePath(""), "no home config yet")

	t.Setenv(EnvConfigPath, "/etc/siteplan.yaml")
	assert.Equal(t, "/etc/siteplan.yaml", ResolvePath(""))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "config.yaml", "scheduling:\n  sort_mode: name\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zerolog.Nop(), func(c *Config) { got <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("scheduling:\n  sort_mode: date\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, "date", c.Scheduling.SortMode)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatch_ReloadsSeriallyAndStopsWithContext(t *testing.T) {
	path := writeFile(t, "config.yaml", "scheduling:\n  sort_mode: name\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls, inflight, overlaps atomic.Int32
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zerolog.Nop(), func(*Config) {
			if inflight.Add(1) > 1 {
				overlaps.Add(1)
			}
			calls.Add(1)
			entered <- struct{}{}
			<-release
			inflight.Add(-1)
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("scheduling:\n  sort_mode: date\n"), 0o644))
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	// A save while the first reload is still running must not start a second one.
	require.NoError(t, os.WriteFile(path, []byte("scheduling:\n  sort_mode: name\n"), 0o644))
	time.Sleep(2 * reloadDebounce)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	close(release)
	require.NoError(t, <-done)

	time.Sleep(2 * reloadDebounce)
	assert.Equal(t, int32(1), calls.Load(), "no reload after Watch returned")
	assert.Zero(t, overlaps.Load())
}

func TestWatch_RequiresPath(t *testing.T) {
	err := Watch(context.Background(), "", zerolog.Nop(), func(*Config) {})
	assert.Error(t, err)
}
