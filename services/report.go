package services

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"electronics-arbitrage/models"
	"electronics-arbitrage/utils"
)

// ReportService serializes the opportunity list into the run's output
// artifacts: a structured JSON document, a static HTML report, and a console
// summary table. All emissions are pure and total: no opportunity is dropped
// or reordered relative to the input list.
type ReportService struct {
	logger *utils.Logger
	dir    string
	stamp  string
}

// NewReportService creates a ReportService writing timestamp-named artifacts
// under dir. The stamp identifies the run and is shared with the listing
// store so all artifacts of one run sort together.
func NewReportService(logger *utils.Logger, dir, stamp string) *ReportService {
	return &ReportService{logger: logger, dir: dir, stamp: stamp}
}

// WriteJSON writes the opportunities document and returns its path.
// An empty input produces an empty array, not a missing file.
func (s *ReportService) WriteJSON(opportunities []models.Opportunity) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("report: create results dir: %w", err)
	}

	if opportunities == nil {
		opportunities = []models.Opportunity{}
	}
	data, err := json.MarshalIndent(opportunities, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal opportunities: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("opportunities_%s.json", s.stamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("report: write %q: %w", path, err)
	}

	s.logger.Info("[report] Opportunities saved to %s", path)
	return path, nil
}

type reportItem struct {
	Name     string
	Retailer string
	URL      string
	Price    string
}

type reportEntry struct {
	Index   int
	Profit  string
	Margin  string
	Buy     reportItem
	Compare reportItem
	Group   []reportItem
}

type reportPage struct {
	GeneratedAt string
	Entries     []reportEntry
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Electronics Arbitrage Opportunities</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.opportunity { border: 1px solid #ddd; margin: 20px 0; padding: 15px; border-radius: 5px; }
.profit { font-size: 1.2em; font-weight: bold; color: green; }
.item { margin: 10px 0; padding: 10px; background-color: #f9f9f9; }
.price { font-weight: bold; }
.buy { background-color: #e6ffe6; }
.compare { background-color: #ffe6e6; }
h1, h2 { color: #333; }
</style>
</head>
<body>
<h1>Electronics Arbitrage Opportunities</h1>
<p>Report generated on: {{.GeneratedAt}}</p>
{{range .Entries}}
<div class="opportunity">
<h2>Opportunity #{{.Index}}</h2>
<div class="profit">Potential Profit: {{.Profit}} (Margin: {{.Margin}})</div>
<div class="item buy">
<h3>BUY FROM: {{.Buy.Retailer}}</h3>
<p>{{.Buy.Name}}</p>
<p class="price">Price: {{.Buy.Price}}</p>
<p>URL: <a href="{{.Buy.URL}}" target="_blank">View Item</a></p>
</div>
<div class="item compare">
<h3>COMPARE WITH: {{.Compare.Retailer}}</h3>
<p>{{.Compare.Name}}</p>
<p class="price">Price: {{.Compare.Price}}</p>
<p>URL: <a href="{{.Compare.URL}}" target="_blank">View Item</a></p>
</div>
<h3>All Similar Items:</h3>
{{range .Group}}
<div class="item">
<p>{{.Name}} — {{.Retailer}}</p>
<p class="price">Price: {{.Price}}</p>
<p>URL: <a href="{{.URL}}" target="_blank">View Item</a></p>
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// WriteHTML writes the human-readable report and returns its path.
func (s *ReportService) WriteHTML(opportunities []models.Opportunity) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("report: create results dir: %w", err)
	}

	page := reportPage{GeneratedAt: time.Now().Format("2006-01-02 15:04:05")}
	for i, opp := range opportunities {
		entry := reportEntry{
			Index:   i + 1,
			Profit:  fmt.Sprintf("R%.2f", opp.PriceDifference),
			Margin:  fmt.Sprintf("%.1f%%", opp.ProfitMarginPercent),
			Buy:     toReportItem(opp.Buy),
			Compare: toReportItem(opp.Compare),
		}
		for _, l := range opp.Group {
			entry.Group = append(entry.Group, toReportItem(l))
		}
		page.Entries = append(page.Entries, entry)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("opportunities_report_%s.html", s.stamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create %q: %w", path, err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, page); err != nil {
		return "", fmt.Errorf("report: render html: %w", err)
	}

	s.logger.Info("[report] HTML report saved to %s", path)
	return path, nil
}

// PrintSummary renders the ranked opportunity table to the console.
func (s *ReportService) PrintSummary(opportunities []models.Opportunity) {
	if len(opportunities) == 0 {
		s.logger.Info("[report] No arbitrage opportunities found this run")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Margin", "Profit (R)", "Buy From", "Buy Price", "Compare At", "Compare Price", "Product"})

	for i, opp := range opportunities {
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.1f%%", opp.ProfitMarginPercent),
			fmt.Sprintf("%.2f", opp.PriceDifference),
			opp.Buy.Retailer,
			priceLabel(opp.Buy),
			opp.Compare.Retailer,
			priceLabel(opp.Compare),
			truncate(opp.Buy.RawName, 40),
		})
	}
	t.Render()
}

func toReportItem(l *models.Listing) reportItem {
	return reportItem{
		Name:     l.RawName,
		Retailer: l.Retailer,
		URL:      l.URL,
		Price:    priceLabel(l),
	}
}

func priceLabel(l *models.Listing) string {
	if l.PriceZAR == nil {
		return "n/a"
	}
	return fmt.Sprintf("R%.2f", *l.PriceZAR)
}

// truncate shortens s to at most max runes. Counting runes rather than
// bytes keeps multi-byte product names valid UTF-8 after the cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
