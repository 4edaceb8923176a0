package config

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// LogConfig controls the zerolog output.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level"`
	// Format is "console" for humans or "json" for machines.
	Format string `json:"format"`
}

func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "warn"
	}
	if c.Format == "" {
		c.Format = "console"
	}
}

func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// MetricsConfig toggles the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
	// Addr, when set, serves /metrics during `plan --watch`.
	Addr string `json:"addr"`
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = "siteplan"
	}
}

func (c MetricsConfig) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace %w", errEmpty)
	}
	if c.Addr != "" && !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("addr %q must be host:port", c.Addr)
	}
	return nil
}

// SchedulingConfig is the file shape of domain.SchedulingConfig. Table keys
// may be task keys ("site_visit") or labels ("Site visit").
type SchedulingConfig struct {
	DefaultDurations      map[string]int `json:"default_durations"`
	Capacity              map[string]int `json:"capacity"`
	RevisitOffsetMonths   *int           `json:"revisit_offset_months"`
	SortMode              string         `json:"sort_mode"`
	IncludeRevisit        *bool          `json:"include_revisit"`
	SearchHorizonDays     int            `json:"search_horizon_days"`
	BookedAnchor          string         `json:"booked_anchor"`
	AutoRegenerateVisit   bool           `json:"auto_regenerate_visit"`
	RegenerateDelayMonths int            `json:"regenerate_delay_months"`
}

func (c *SchedulingConfig) SetDefaults() {
	def := domain.DefaultSchedulingConfig()
	if c.RevisitOffsetMonths == nil {
		n := def.RevisitOffsetMonths
		c.RevisitOffsetMonths = &n
	}
	if c.SortMode == "" {
		c.SortMode = string(def.SortMode)
	}
	if c.IncludeRevisit == nil {
		b := def.IncludeRevisit
		c.IncludeRevisit = &b
	}
	if c.SearchHorizonDays == 0 {
		c.SearchHorizonDays = def.SearchHorizonDays
	}
	if c.BookedAnchor == "" {
		c.BookedAnchor = string(def.BookedAnchor)
	}
	if c.RegenerateDelayMonths == 0 {
		c.RegenerateDelayMonths = def.RegenerateDelayMonths
	}
}

func (c SchedulingConfig) Validate() error {
	if c.SearchHorizonDays < 0 {
		return fmt.Errorf("search_horizon_days must be >= 0, got %d", c.SearchHorizonDays)
	}
	if c.RegenerateDelayMonths < 0 {
		return fmt.Errorf("regenerate_delay_months must be >= 0, got %d", c.RegenerateDelayMonths)
	}
	sc, err := c.ToDomain()
	if err != nil {
		return err
	}
	return sc.Validate()
}

// ToDomain converts the file shape into the engine's configuration.
func (c SchedulingConfig) ToDomain() (domain.SchedulingConfig, error) {
	out := domain.DefaultSchedulingConfig()

	durations, err := taskTable(c.DefaultDurations, "default_durations")
	if err != nil {
		return out, err
	}
	for t, d := range durations {
		out.DefaultDurations[t] = d
	}
	capacity, err := taskTable(c.Capacity, "capacity")
	if err != nil {
		return out, err
	}
	for t, n := range capacity {
		out.Capacity[t] = n
	}

	if c.RevisitOffsetMonths != nil {
		out.RevisitOffsetMonths = *c.RevisitOffsetMonths
	}
	if c.SortMode != "" {
		out.SortMode = domain.SortMode(strings.ToLower(c.SortMode))
	}
	if c.IncludeRevisit != nil {
		out.IncludeRevisit = *c.IncludeRevisit
	}
	if c.SearchHorizonDays > 0 {
		out.SearchHorizonDays = c.SearchHorizonDays
	}
	if c.BookedAnchor != "" {
		out.BookedAnchor = domain.BookedAnchor(strings.ToLower(c.BookedAnchor))
	}
	out.AutoRegenerateVisit = c.AutoRegenerateVisit
	if c.RegenerateDelayMonths > 0 {
		out.RegenerateDelayMonths = c.RegenerateDelayMonths
	}
	return out, nil
}

func taskTable(in map[string]int, field string) (map[domain.TaskType]int, error) {
	out := make(map[domain.TaskType]int, len(in))
	for k, v := range in {
		t, err := domain.ParseTaskType(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		out[t] = v
	}
	return out, nil
}
