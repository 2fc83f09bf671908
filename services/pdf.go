package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/prithvirajnaik/FundFeed-backend/models"
)

// SummaryDocument is the fixed layout of a meeting-summary export:
// a title, the participants, the listing the meeting was about, a
// key/value table of scheduled vs actual times, and the summary body.
type SummaryDocument struct {
	Title        string
	Participants []string
	Context      string
	Rows         [][2]string
	Paragraphs   []string
}

func displayName(u models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func formatMeetingTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.UTC().Format("Jan 2, 2006 15:04 MST")
}

// BuildSummaryDocument assembles the export document for a contact request.
// Developer, Investor and the referenced listing must be preloaded.
func BuildSummaryDocument(request *models.ContactRequest) SummaryDocument {
	doc := SummaryDocument{
		Title: "Meeting Summary",
		Participants: []string{
			displayName(request.Developer),
			displayName(request.Investor),
		},
		Context: request.ContextTitle(),
		Rows: [][2]string{
			{"Scheduled Start", formatMeetingTime(request.ScheduledStartTime)},
			{"Scheduled End", formatMeetingTime(request.ScheduledEndTime)},
			{"Actual Start", formatMeetingTime(request.MeetingStartedAt)},
			{"Actual End", formatMeetingTime(request.MeetingEndedAt)},
			{"Status", request.MeetingStatus},
			{"Platform", request.MeetingPlatform},
			{"Timezone", request.Timezone},
		},
	}

	for _, p := range strings.Split(request.MeetingSummary, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			doc.Paragraphs = append(doc.Paragraphs, p)
		}
	}

	return doc
}

// RenderSummaryPDF renders the document into PDF bytes.
func RenderSummaryPDF(doc SummaryDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Participants: "+strings.Join(doc.Participants, ", ")), "", 1, "L", false, 0, "")
	if doc.Context != "" {
		pdf.CellFormat(0, 6, tr("Regarding: "+doc.Context), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Two-column key/value table
	pdf.SetFillColor(240, 240, 240)
	for _, row := range doc.Rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	for _, paragraph := range doc.Paragraphs {
		pdf.MultiCell(0, 6, tr(paragraph), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering summary pdf: %w", err)
	}

	return buf.Bytes(), nil
}
