package store

import "time"

// Row is a normalized record ready to be appended to its table.
type Row interface {
	Table() string
	Columns() []string
	Values() []any
	// NaturalKey identifies the record for downstream deduplication.
	NaturalKey() string
}

type PlaceholderPolicy string

const (
	// PlaceholderNull writes NULL for metrics this pipeline does not measure.
	PlaceholderNull PlaceholderPolicy = "null"
	// PlaceholderZero writes 0.0 and the run date, the legacy representation.
	PlaceholderZero PlaceholderPolicy = "zero"
)

// RunMeta is stamped on every row written by one sync run.
type RunMeta struct {
	RunID        string
	CollectedAt  time.Time
	Placeholders PlaceholderPolicy
}

// PlaceholderMetrics are reserved for a later enrichment pass. A nil value
// means "not measured", which is distinct from a measured zero.
type PlaceholderMetrics struct {
	Cost           *float64   `json:"cost"`
	UsageQuantity  *float64   `json:"usage_quantity"`
	CPUUtilization *float64   `json:"cpu_utilization"`
	NetworkIn      *float64   `json:"network_in"`
	NetworkOut     *float64   `json:"network_out"`
	MetricsDate    *time.Time `json:"metrics_date"`
}

func NewPlaceholderMetrics(meta RunMeta) PlaceholderMetrics {
	if meta.Placeholders != PlaceholderZero {
		return PlaceholderMetrics{}
	}
	zero := func() *float64 { v := 0.0; return &v }
	date := meta.CollectedAt.Truncate(24 * time.Hour)
	return PlaceholderMetrics{
		Cost:           zero(),
		UsageQuantity:  zero(),
		CPUUtilization: zero(),
		NetworkIn:      zero(),
		NetworkOut:     zero(),
		MetricsDate:    &date,
	}
}

var metricColumns = []string{
	"cost", "usage_quantity", "cpu_utilization", "network_in", "network_out", "metrics_date",
}

func (m PlaceholderMetrics) values() []any {
	return []any{
		nullable(m.Cost),
		nullable(m.UsageQuantity),
		nullable(m.CPUUtilization),
		nullable(m.NetworkIn),
		nullable(m.NetworkOut),
		nullable(m.MetricsDate),
	}
}

// nullable dereferences optional values so drivers only ever see base types or nil.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var runColumns = []string{"sync_run_id", "collected_at"}
