package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/prithvirajnaik/FundFeed-backend/models"
)

func summarizedRequest() *models.ContactRequest {
	pitchID := "p-1"
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	return &models.ContactRequest{
		ID:                 "cr-1",
		Developer:          models.User{ID: "dev-1", Username: "ada"},
		Investor:           models.User{ID: "inv-1", Email: "fund@example.com"},
		PitchID:            &pitchID,
		Pitch:              &models.Pitch{ID: pitchID, Title: "Edge Caching"},
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		Timezone:           "UTC",
		MeetingPlatform:    "zoom",
		MeetingStatus:      models.MeetingCompleted,
		MeetingStartedAt:   &start,
		MeetingEndedAt:     &end,
		MeetingSummary:     "First paragraph.\n\nSecond paragraph.",
	}
}

func TestBuildSummaryDocument(t *testing.T) {
	doc := BuildSummaryDocument(summarizedRequest())

	if doc.Context != "Edge Caching" {
		t.Fatalf("wrong context: %q", doc.Context)
	}
	if len(doc.Participants) != 2 || doc.Participants[0] != "ada" || doc.Participants[1] != "fund@example.com" {
		t.Fatalf("wrong participants: %v", doc.Participants)
	}
	if len(doc.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Paragraphs))
	}
	if len(doc.Rows) == 0 {
		t.Fatal("expected detail rows")
	}
	for _, row := range doc.Rows {
		if row[1] == "" {
			t.Fatalf("row %q has empty value", row[0])
		}
	}
}

func TestBuildSummaryDocumentMissingTimes(t *testing.T) {
	request := summarizedRequest()
	request.ScheduledStartTime = nil
	request.MeetingEndedAt = nil

	doc := BuildSummaryDocument(request)
	for _, row := range doc.Rows {
		if (row[0] == "Scheduled Start" || row[0] == "Actual End") && row[1] != "—" {
			t.Fatalf("expected placeholder for %q, got %q", row[0], row[1])
		}
	}
}

func TestRenderSummaryPDF(t *testing.T) {
	doc := BuildSummaryDocument(summarizedRequest())

	out, err := RenderSummaryPDF(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(16, len(out))])
	}
}
