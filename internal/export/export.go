// Package export writes lead workbooks for handoff to outreach tooling.
package export

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

var printer = message.NewPrinter(language.English)

// leadHeader is the column order of the leads sheet.
var leadHeader = []string{
	"Company", "Industry", "Region", "Company Size", "Score", "Status",
	"Qualification Reason", "Website", "Email", "Phone", "Collected",
}

// QualifiedLeads writes the leads matching the filter into an XLSX workbook
// with a summary sheet and a detail sheet. Returns the number of leads
// written.
func QualifiedLeads(ctx context.Context, st store.Store, filter store.LeadFilter, path string) (int, error) {
	leads, err := st.ListLeads(ctx, filter)
	if err != nil {
		return 0, eris.Wrap(err, "export: list leads")
	}

	f := xlsx.NewFile()
	if err := addSummarySheet(f, leads); err != nil {
		return 0, err
	}
	if err := addLeadsSheet(f, leads); err != nil {
		return 0, err
	}
	if err := f.Save(path); err != nil {
		return 0, eris.Wrap(err, "export: save workbook")
	}

	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Int("leads", len(leads)),
	)
	return len(leads), nil
}

func addSummarySheet(f *xlsx.File, leads []model.Lead) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	var scored int
	var total float64
	byStatus := map[model.LeadStatus]int{}
	for _, l := range leads {
		byStatus[l.Status]++
		if l.Score != nil {
			scored++
			total += *l.Score
		}
	}

	addKV(sheet, "Generated", time.Now().UTC().Format("2006-01-02 15:04 MST"))
	addKV(sheet, "Total leads", printer.Sprintf("%d", len(leads)))
	if scored > 0 {
		addKV(sheet, "Average score", printer.Sprintf("%.2f", total/float64(scored)))
	}
	for _, status := range []model.LeadStatus{
		model.LeadNew, model.LeadQualified, model.LeadDisqualified, model.LeadPending,
		model.LeadContacted, model.LeadNurturing, model.LeadClosed,
	} {
		if n := byStatus[status]; n > 0 {
			addKV(sheet, string(status), printer.Sprintf("%d", n))
		}
	}
	return nil
}

func addLeadsSheet(f *xlsx.File, leads []model.Lead) error {
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add leads sheet")
	}

	header := sheet.AddRow()
	for _, h := range leadHeader {
		header.AddCell().SetString(h)
	}

	for _, l := range leads {
		row := sheet.AddRow()
		row.AddCell().SetString(l.CompanyName)
		row.AddCell().SetString(strVal(l.Industry))
		row.AddCell().SetString(strVal(l.Region))
		row.AddCell().SetString(strVal(l.CompanySize))
		if l.Score != nil {
			row.AddCell().SetFloatWithFormat(*l.Score, "0.00")
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(l.Status))
		row.AddCell().SetString(strVal(l.QualificationReason))
		row.AddCell().SetString(strVal(l.Website))
		row.AddCell().SetString(strVal(l.Email))
		row.AddCell().SetString(strVal(l.Phone))
		row.AddCell().SetString(l.CollectedDate.UTC().Format("2006-01-02"))
	}
	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
