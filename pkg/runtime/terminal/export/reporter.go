package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/cloud-sync/pkg/services/pipeline"
)

type TableConfig struct {
	CategoryWidth int
	OutcomeWidth  int
	CountWidth    int
	DetailWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CategoryWidth: 10,
		OutcomeWidth:  16,
		CountWidth:    8,
		DetailWidth:   60,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcs() template.FuncMap {
	cfg := c.config
	return template.FuncMap{
		"formatRow": func(category, outcome string, fetched, written, skipped any, detail string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %*v | %*v | %-*s |",
				cfg.CategoryWidth, category,
				cfg.OutcomeWidth, outcome,
				cfg.CountWidth, fetched,
				cfg.CountWidth, written,
				cfg.CountWidth, skipped,
				cfg.DetailWidth, truncate(detail, cfg.DetailWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", cfg.CategoryWidth+2),
				strings.Repeat("-", cfg.OutcomeWidth+2),
				strings.Repeat("-", cfg.CountWidth+2),
				strings.Repeat("-", cfg.CountWidth+2),
				strings.Repeat("-", cfg.CountWidth+2),
				strings.Repeat("-", cfg.DetailWidth+2))
		},
		"detail": func(r pipeline.Result) string {
			switch {
			case r.Err != nil:
				return r.Err.Error()
			case r.Outcome == pipeline.OutcomeNoData:
				return "no records returned by the provider"
			default:
				return fmt.Sprintf("run %s in %s", r.RunID, r.Duration().Round(1e6))
			}
		},
		"outcome": func(r pipeline.Result) string {
			if r.Failed() {
				return string(r.State)
			}
			return string(r.Outcome)
		},
	}
}

const resultsTemplate = `
{{separator}}
{{formatRow "Category" "Outcome" "Fetched" "Written" "Skipped" "Detail"}}
{{separator}}
{{range .}}{{formatRow .Category.String (outcome .) .Fetched .Written .Skipped (detail .)}}
{{end}}{{separator}}
{{range .}}{{$category := .Category}}{{range .Failures}}  {{$category}} #{{.Index}} {{.Stage}}{{if .Key}} [{{.Key}}]{{end}}: {{.Reason}}
{{end}}{{end}}`

// Results prints one table line per sync run followed by every skipped record.
func (c *Reporter) Results(results []pipeline.Result) error {
	t, err := template.New("results").Funcs(c.funcs()).Parse(resultsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, results)
}

const inventoryTemplate = `{{range .}}
=== {{.Category}} ({{len .Rows}}) ===
{{if .Err}}error: {{.Err}}
{{end}}{{range .Rows}}- {{.Table}} {{.NaturalKey}}
{{end}}{{end}}`

// Inventory prints the natural keys of previewed rows grouped by category.
func (c *Reporter) Inventory(results []pipeline.Result) error {
	t, err := template.New("inventory").Parse(inventoryTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, results)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
