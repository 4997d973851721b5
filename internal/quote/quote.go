// Package quote renders printable PDF quotes for a unit's payment plans.
package quote

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/payment-plans/internal/plans"
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/datetime"
	"github.com/iwvelando/payment-plans/pkg/format"
	"github.com/iwvelando/payment-plans/pkg/mathutil"
	"github.com/iwvelando/payment-plans/pkg/schedule"
	"go.uber.org/zap"
)

// ErrNoPlans is returned when there is nothing to put in a quote, either
// because the unit is unpriced or the selection matched no plan.
var ErrNoPlans = errors.New("no payment plans to export")

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 25.0
	contentWidth = pageWidth - marginLeft - marginRight

	headerHeight = 38.0
	rowHeight    = 6.0
	dateLayout   = "02/01/2006"
)

var tableColumns = []struct {
	title string
	width float64
	align string
}{
	{"Payment Step", 80, "L"},
	{"Share %", 25, "R"},
	{"Due Date", 35, "C"},
	{"Value (EGP)", contentWidth - 140, "R"},
}

// Branding is the letterhead and footer printed on every page.
type Branding struct {
	Company string
	Project string
	Tagline string
	Footer  []string
	// FontFile is a TrueType font with the glyphs the unit details need,
	// such as Arabic building names. Without it the core Helvetica font is
	// used and text outside Windows-1252 prints as dots.
	FontFile string
}

const (
	coreFamily = "Arial"
	utf8Family = "QuoteFont"
)

// typeface picks the font family and the text encoder for one document.
type typeface struct {
	family string
	text   func(string) string
}

func (r *Renderer) typeface(pdf *fpdf.Fpdf) (typeface, error) {
	if r.Branding.FontFile == "" {
		return typeface{family: coreFamily, text: pdf.UnicodeTranslatorFromDescriptor("")}, pdf.Error()
	}
	ttf, err := os.ReadFile(r.Branding.FontFile)
	if err != nil {
		return typeface{}, err
	}
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8FontFromBytes(utf8Family, style, ttf)
	}
	return typeface{family: utf8Family, text: func(s string) string { return s }}, pdf.Error()
}

// DefaultBranding returns the stock PLDG letterhead.
func DefaultBranding() Branding {
	return Branding{
		Company: constants.DefaultCompany,
		Project: constants.DefaultProject,
		Tagline: constants.DefaultTagline,
		Footer:  []string{constants.DefaultFooter1, constants.DefaultFooter2},
	}
}

// Renderer builds quote documents.
type Renderer struct {
	Branding Branding
	// ContractDate anchors the due dates; zero means the day of Now.
	ContractDate time.Time
	// Now is the clock used for the document reference and date.
	Now func() time.Time

	logger *zap.Logger
}

// NewRenderer returns a renderer using the wall clock.
func NewRenderer(logger *zap.Logger, branding Branding) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		Branding: branding,
		Now:      time.Now,
		logger:   logger,
	}
}

// Filename is the download name of the quote for a unit price.
func Filename(price int64) string {
	return fmt.Sprintf("%s%d.pdf", constants.QuoteFilePrefix, price)
}

// DocRef builds the document reference from the last six digits of the
// millisecond clock.
func DocRef(now time.Time) string {
	return fmt.Sprintf("%s%06d", constants.QuoteRefPrefix, now.UnixMilli()%1000000)
}

// Render writes a PDF in which every selected plan starts on its own page;
// long schedules continue on following pages. An empty selection exports
// every plan.
func (r *Renderer) Render(w io.Writer, unit plans.UnitInfo, results []plans.PaymentPlanResult, selected []string) error {
	pdf, err := r.document(unit, results, selected)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to write quote: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write quote: %w", err)
	}
	return nil
}

func (r *Renderer) document(unit plans.UnitInfo, results []plans.PaymentPlanResult, selected []string) (*fpdf.Fpdf, error) {
	if unit.TotalPrice <= 0 {
		return nil, ErrNoPlans
	}
	exported := plans.Select(results, selected)
	if len(exported) == 0 {
		return nil, ErrNoPlans
	}

	now := r.clock()
	contract := r.ContractDate
	if contract.IsZero() {
		contract = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCreationDate(now)
	pdf.SetTitle(fmt.Sprintf("%s %s Quote", r.Branding.Company, r.Branding.Project), true)
	tf, err := r.typeface(pdf)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote font: %w", err)
	}
	pdf.SetFooterFunc(func() { r.footer(pdf, tf) })

	ref := DocRef(now)
	for _, plan := range exported {
		if err := r.planPage(pdf, tf, unit, plan, contract, ref, now); err != nil {
			return nil, err
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build quote: %w", err)
	}

	r.logger.Debug("rendered quote",
		zap.String("op", "quote.Render"),
		zap.String("ref", ref),
		zap.Int("plans", len(exported)),
		zap.Int("pages", pdf.PageCount()),
	)
	return pdf, nil
}

func (r *Renderer) clock() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) planPage(pdf *fpdf.Fpdf, tf typeface, unit plans.UnitInfo, plan plans.PaymentPlanResult, contract time.Time, ref string, now time.Time) error {
	pdf.AddPage()
	r.header(pdf, tf, ref, now)
	unitBox(pdf, tf, unit)

	// Plan headline
	pdf.Ln(6)
	pdf.SetFont(tf.family, "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, tf.text(plan.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(tf.family, "", 11)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(contentWidth, 7, "Net Payable: "+format.Currency(plan.NetPrice), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	groups := schedule.GroupByTiming(plan.Schedule)
	offsets := make([]int, len(groups))
	for i, g := range groups {
		offsets[i] = g.Timing
	}
	dueDates, err := datetime.DueDates(contract, offsets)
	if err != nil {
		return fmt.Errorf("plan %s: %w", plan.ID, err)
	}

	tableHeader(pdf, tf)
	for i, g := range groups {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			tableHeader(pdf, tf)
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 247, 250)
		cells := []string{
			g.Name(),
			format.Percentage(g.Percentage, 2),
			datetime.FormatDue(dueDates[i]),
			format.NumericCurrency(g.Amount),
		}
		for j, col := range tableColumns {
			pdf.CellFormat(col.width, rowHeight, tf.text(cells[j]), "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	totalRow(pdf, tf, schedule.Total(groups), plan.NetPrice)

	if !plan.IsCash() {
		rateBlock(pdf, tf, plan)
	}
	return nil
}

func (r *Renderer) header(pdf *fpdf.Fpdf, tf typeface, ref string, now time.Time) {
	pdf.SetFillColor(0, 51, 102)
	pdf.Rect(0, 0, pageWidth, headerHeight, "F")

	pdf.SetXY(marginLeft, 8)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(tf.family, "B", 18)
	pdf.CellFormat(contentWidth/2, 9, tf.text(r.Branding.Company), "", 0, "L", false, 0, "")
	pdf.SetFont(tf.family, "", 9)
	pdf.CellFormat(contentWidth/2, 9, ref, "", 1, "R", false, 0, "")

	pdf.SetFont(tf.family, "B", 12)
	pdf.CellFormat(contentWidth/2, 7, tf.text(r.Branding.Project), "", 0, "L", false, 0, "")
	pdf.SetFont(tf.family, "", 9)
	pdf.CellFormat(contentWidth/2, 7, "Date: "+now.Format(dateLayout), "", 1, "R", false, 0, "")

	pdf.SetFont(tf.family, "I", 9)
	pdf.CellFormat(contentWidth, 6, tf.text(r.Branding.Tagline), "", 1, "L", false, 0, "")

	pdf.SetY(headerHeight + 6)
}

func (r *Renderer) footer(pdf *fpdf.Fpdf, tf typeface) {
	lines := r.Branding.Footer
	pdf.SetY(-8 - 5*float64(len(lines)))
	pdf.SetFont(tf.family, "I", 8)
	pdf.SetTextColor(120, 120, 120)
	for _, line := range lines {
		pdf.CellFormat(contentWidth, 5, tf.text(line), "", 1, "C", false, 0, "")
	}
}

// unitRows lists the unit specification; optional attributes only appear when set.
func unitRows(unit plans.UnitInfo) [][2]string {
	rows := [][2]string{
		{"Total Price", format.Currency(unit.TotalPrice)},
		{"Unit Type", unit.UnitType},
		{"Rooms", unit.Rooms},
	}
	if unit.Building != "" {
		rows = append(rows, [2]string{"Building", unit.Building})
	}
	if unit.BUA > 0 {
		rows = append(rows, [2]string{"BUA", fmt.Sprintf("%g sqm", unit.BUA)})
	}
	if unit.GardenRoofArea > 0 {
		rows = append(rows, [2]string{"Garden/Roof", fmt.Sprintf("%g sqm", unit.GardenRoofArea)})
	}
	if unit.Floor != "" {
		rows = append(rows, [2]string{"Floor", unit.Floor})
	}
	return rows
}

func unitBox(pdf *fpdf.Fpdf, tf typeface, unit plans.UnitInfo) {
	rows := unitRows(unit)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(245, 247, 250)
	pdf.SetFont(tf.family, "B", 11)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, "Unit Specification", "1", 1, "L", true, 0, "")

	pdf.SetTextColor(50, 50, 50)
	for i, row := range rows {
		border := "L"
		if i == len(rows)-1 {
			border = "LB"
		}
		pdf.SetFont(tf.family, "B", 10)
		pdf.CellFormat(45, 6, row[0]+":", border, 0, "L", false, 0, "")
		border = "R"
		if i == len(rows)-1 {
			border = "RB"
		}
		pdf.SetFont(tf.family, "", 10)
		pdf.CellFormat(contentWidth-45, 6, tf.text(row[1]), border, 1, "L", false, 0, "")
	}
}

func tableHeader(pdf *fpdf.Fpdf, tf typeface) {
	pdf.SetFont(tf.family, "B", 10)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, rowHeight+1, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(tf.family, "", 9)
	pdf.SetTextColor(50, 50, 50)
}

// totalRow closes the schedule table with the grouped total, which always
// equals the net payable.
func totalRow(pdf *fpdf.Fpdf, tf typeface, total, net int64) {
	if pdf.GetY()+rowHeight > pageHeight-marginBottom {
		pdf.AddPage()
		tableHeader(pdf, tf)
	}
	pdf.SetFont(tf.family, "B", 9)
	pdf.SetFillColor(230, 236, 245)
	cells := []string{
		"Total",
		format.Percentage(mathutil.Percentage(total, net), 2),
		"",
		format.NumericCurrency(total),
	}
	for j, col := range tableColumns {
		pdf.CellFormat(col.width, rowHeight, cells[j], "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(tf.family, "", 9)
}

func rateBlock(pdf *fpdf.Fpdf, tf typeface, plan plans.PaymentPlanResult) {
	var rows [][2]string
	if len(plan.PhasedInstallments) > 0 {
		for _, phase := range plan.PhasedInstallments {
			rows = append(rows,
				[2]string{phase.Label + " - Monthly", format.CurrencyRate(phase.Monthly)},
				[2]string{phase.Label + " - Quarterly", format.CurrencyRate(phase.Quarterly)},
			)
		}
	} else {
		rows = [][2]string{
			{"Monthly Reference Rate", format.CurrencyRate(plan.MonthlyInstallment)},
			{"Quarterly Base Installment", format.CurrencyRate(plan.QuarterlyInstallment)},
		}
	}

	pdf.Ln(6)
	pdf.SetFont(tf.family, "B", 11)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, "Periodic Installment Rates", "", 1, "L", false, 0, "")
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		pdf.SetFont(tf.family, "", 10)
		pdf.CellFormat(80, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont(tf.family, "B", 10)
		pdf.CellFormat(contentWidth-80, 6, row[1], "", 1, "R", false, 0, "")
	}
}
