package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/billie-crm/backend/internal/domain/ledger"
)

const closeReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #1a1a2e; }
h1 { font-size: 18px; margin-bottom: 2px; }
.meta { color: #555; margin-bottom: 18px; }
table { width: 100%; border-collapse: collapse; }
th { text-align: left; border-bottom: 2px solid #1a1a2e; padding: 6px 8px; font-size: 10px; text-transform: uppercase; }
td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
td.amount, th.amount { text-align: right; font-variant-numeric: tabular-nums; }
tr.totals td { border-top: 2px solid #1a1a2e; border-bottom: none; font-weight: bold; }
.footer { margin-top: 24px; font-size: 9px; color: #888; }
</style>
</head>
<body>
<h1>Period Close Report</h1>
<div class="meta">
Period {{.PeriodDate}} &middot; finalized by {{.FinalizedBy}} on {{.FinalizedAt}}
</div>
<table>
<thead>
<tr><th>Entry</th><th>Account</th><th>Description</th><th class="amount">Debit</th><th class="amount">Credit</th></tr>
</thead>
<tbody>
{{range .Entries}}
<tr>
<td>{{.EntryID}}</td>
<td>{{.AccountCode}}</td>
<td>{{.Description}}</td>
<td class="amount">{{.Debit}}</td>
<td class="amount">{{.Credit}}</td>
</tr>
{{end}}
<tr class="totals">
<td colspan="3">Totals</td>
<td class="amount">{{.TotalDebit}}</td>
<td class="amount">{{.TotalCredit}}</td>
</tr>
</tbody>
</table>
<div class="footer">Preview {{.PreviewID}} &middot; generated {{.GeneratedAt}}</div>
</body>
</html>`

type reportEntry struct {
	EntryID     string
	AccountCode string
	Description string
	Debit       string
	Credit      string
}

type reportData struct {
	Title       string
	PeriodDate  string
	PreviewID   string
	FinalizedBy string
	FinalizedAt string
	GeneratedAt string
	Entries     []reportEntry
	TotalDebit  string
	TotalCredit string
}

// CloseReportRenderer formats a finalized period close as an HTML report
// and renders it to PDF.
type CloseReportRenderer struct {
	renderer PDFRenderer
	tmpl     *template.Template
	printer  *message.Printer
	logger   *zap.Logger
}

// NewCloseReportRenderer creates a report renderer. The locale controls
// digit grouping and decimal separators in amounts; an unrecognized
// locale falls back to English.
func NewCloseReportRenderer(renderer PDFRenderer, locale string, logger *zap.Logger) *CloseReportRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return &CloseReportRenderer{
		renderer: renderer,
		tmpl:     template.Must(template.New("close_report").Parse(closeReportTemplate)),
		printer:  message.NewPrinter(tag),
		logger:   logger,
	}
}

// RenderCloseReport builds the report HTML and renders it to PDF
func (r *CloseReportRenderer) RenderCloseReport(ctx context.Context, close ledger.PeriodClose) ([]byte, error) {
	html, err := r.BuildHTML(close)
	if err != nil {
		return nil, err
	}

	result, err := r.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "Period Close " + close.PeriodDate,
	})
	if err != nil {
		return nil, fmt.Errorf("render close report for %s: %w", close.PeriodDate, err)
	}

	r.logger.Info("close report rendered",
		zap.String("period_date", close.PeriodDate),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return result.PDFData, nil
}

// BuildHTML produces the report document without rendering it
func (r *CloseReportRenderer) BuildHTML(close ledger.PeriodClose) (string, error) {
	data := reportData{
		Title:       "Period Close " + close.PeriodDate,
		PeriodDate:  close.PeriodDate,
		PreviewID:   close.PreviewID,
		FinalizedBy: close.FinalizedBy,
		FinalizedAt: close.FinalizedAt.Format("2006-01-02 15:04 MST"),
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, entry := range close.JournalEntries {
		totalDebit = totalDebit.Add(entry.Debit)
		totalCredit = totalCredit.Add(entry.Credit)
		data.Entries = append(data.Entries, reportEntry{
			EntryID:     entry.EntryID,
			AccountCode: entry.AccountCode,
			Description: entry.Description,
			Debit:       r.formatAmount(entry.Debit),
			Credit:      r.formatAmount(entry.Credit),
		})
	}
	data.TotalDebit = r.formatAmount(totalDebit)
	data.TotalCredit = r.formatAmount(totalCredit)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute close report template: %w", err)
	}
	return buf.String(), nil
}

func (r *CloseReportRenderer) formatAmount(amount decimal.Decimal) string {
	return r.printer.Sprint(number.Decimal(amount.InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

var _ interface {
	RenderCloseReport(ctx context.Context, close ledger.PeriodClose) ([]byte, error)
} = (*CloseReportRenderer)(nil)
