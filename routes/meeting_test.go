package routes

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/prithvirajnaik/FundFeed-backend/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCanStartMeeting(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// No link set.
	request := &models.ContactRequest{}
	if err := canStartMeeting(request, now); err != errNoMeetingLink {
		t.Fatalf("expected missing link error, got %v", err)
	}

	// Link set, no scheduling bounds.
	request = &models.ContactRequest{MeetingLink: "https://meet.example/abc"}
	if err := canStartMeeting(request, now); err != nil {
		t.Fatalf("expected start to be allowed, got %v", err)
	}

	// Before the scheduled window.
	request = &models.ContactRequest{
		MeetingLink:        "https://meet.example/abc",
		ScheduledStartTime: timePtr(now.Add(time.Hour)),
		ScheduledEndTime:   timePtr(now.Add(2 * time.Hour)),
	}
	if err := canStartMeeting(request, now); err != errBeforeWindow {
		t.Fatalf("expected before-window error, got %v", err)
	}

	// After the scheduled window.
	request = &models.ContactRequest{
		MeetingLink:        "https://meet.example/abc",
		ScheduledStartTime: timePtr(now.Add(-2 * time.Hour)),
		ScheduledEndTime:   timePtr(now.Add(-time.Hour)),
	}
	if err := canStartMeeting(request, now); err != errAfterWindow {
		t.Fatalf("expected after-window error, got %v", err)
	}

	// Inside the window.
	request = &models.ContactRequest{
		MeetingLink:        "https://meet.example/abc",
		ScheduledStartTime: timePtr(now.Add(-time.Minute)),
		ScheduledEndTime:   timePtr(now.Add(time.Hour)),
	}
	if err := canStartMeeting(request, now); err != nil {
		t.Fatalf("expected start inside window to be allowed, got %v", err)
	}
}

func TestCanEndMeeting(t *testing.T) {
	for _, status := range []string{models.MeetingScheduled, models.MeetingCompleted, models.MeetingCancelled} {
		request := &models.ContactRequest{MeetingStatus: status}
		if err := canEndMeeting(request); err != errNotInProgress {
			t.Fatalf("expected end to be rejected for %q, got %v", status, err)
		}
	}

	request := &models.ContactRequest{MeetingStatus: models.MeetingInProgress}
	if err := canEndMeeting(request); err != nil {
		t.Fatalf("expected end to be allowed while in progress, got %v", err)
	}
}

func TestTemplatedSummary(t *testing.T) {
	pitchID := "p-1"
	started := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ended := started.Add(45 * time.Minute)

	request := &models.ContactRequest{
		DeveloperID:      "dev-1",
		Developer:        models.User{ID: "dev-1", Username: "ada"},
		InvestorID:       "inv-1",
		Investor:         models.User{ID: "inv-1", Email: "fund@example.com"},
		PitchID:          &pitchID,
		Pitch:            &models.Pitch{ID: pitchID, Title: "Realtime Fraud Detection"},
		MeetingStatus:    models.MeetingCompleted,
		MeetingStartedAt: &started,
		MeetingEndedAt:   &ended,
	}

	summary := templatedSummary(request)
	for _, want := range []string{"ada", "fund@example.com", "Realtime Fraud Detection"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestReadOptionalJSON(t *testing.T) {
	app := iris.New()
	app.Post("/summary", func(ctx iris.Context) {
		var input GenerateSummaryInput
		if err := readOptionalJSON(ctx, &input); err != nil {
			ctx.StopWithStatus(iris.StatusBadRequest)
			return
		}
		ctx.JSON(iris.Map{"summary": input.Summary})
	})
	app.Build()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/summary", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		// httptest.NewRequest fills only the ContentLength field; a real
		// server request carries the header too, which iris reads.
		req.Header.Set("Content-Length", strconv.FormatInt(req.ContentLength, 10))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		return resp
	}

	// Empty body means "use the default", not an error.
	if resp := post(""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for an empty body, got %d", resp.Code)
	}

	// Malformed JSON is rejected.
	if resp := post("{not json"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.Code)
	}

	// A provided summary comes through.
	resp := post(`{"summary":"we agreed on terms"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid JSON, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "we agreed on terms") {
		t.Fatalf("summary not echoed: %s", resp.Body.String())
	}
}
