package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InsightConfig holds the thresholds and message templates behind the
// rule-based insight/recommendation strings. The numbers and wording are
// product-owned configuration; defaults match the figures reports have
// always used.
type InsightConfig struct {
	HighResolutionRatePercent int `yaml:"high_resolution_rate_percent"`
	LowResolutionRatePercent  int `yaml:"low_resolution_rate_percent"`
	HighThroughputTickets     int `yaml:"high_throughput_tickets"`
	FastResolutionHours       int `yaml:"fast_resolution_hours"`
	SlowResolutionHours       int `yaml:"slow_resolution_hours"`

	Messages InsightMessages `yaml:"messages"`
}

// InsightMessages are fmt templates; each receives its threshold or name as
// the single argument.
type InsightMessages struct {
	HighResolutionRate string `yaml:"high_resolution_rate"`
	FastResolution     string `yaml:"fast_resolution"`
	HighThroughput     string `yaml:"high_throughput"`
	LowResolutionRate  string `yaml:"low_resolution_rate"`
	SlowResolution     string `yaml:"slow_resolution"`
	TopCategory        string `yaml:"top_category"`
	TopTag             string `yaml:"top_tag"`
}

// DefaultInsightConfig returns the built-in thresholds and templates.
func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		HighResolutionRatePercent: 80,
		LowResolutionRatePercent:  70,
		HighThroughputTickets:     10,
		FastResolutionHours:       24,
		SlowResolutionHours:       48,
		Messages: InsightMessages{
			HighResolutionRate: "resolution rate at or above %d%%",
			FastResolution:     "average resolution time under %d hours",
			HighThroughput:     "handled %d or more tickets this period",
			LowResolutionRate:  "resolution rate below %d%% - prioritize this technician's open workload",
			SlowResolution:     "average resolution time above %d hours - review long-running tickets",
			TopCategory:        "most handled tickets fall under category %q - consider preventive maintenance there",
			TopTag:             "tag %q dominates this technician's tickets",
		},
	}
}

// LoadInsightConfig reads overrides from a YAML file, falling back to the
// defaults when the path is empty or the file is absent.
func LoadInsightConfig(path string) (InsightConfig, error) {
	cfg := DefaultInsightConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read insight config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse insight config: %w", err)
	}
	return cfg, nil
}
