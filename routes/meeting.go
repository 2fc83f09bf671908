package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/services"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

var (
	errNoMeetingLink  = errors.New("a meeting link is required before the meeting can start")
	errBeforeWindow   = errors.New("the meeting cannot start before its scheduled start time")
	errAfterWindow    = errors.New("the meeting cannot start after its scheduled end time")
	errNotInProgress  = errors.New("the meeting is not in progress")
	errNotCompleted   = errors.New("the meeting is not completed yet")
	errSummaryEmpty   = errors.New("no meeting summary has been generated yet")
	errAlreadyStarted = errors.New("the meeting is not in the scheduled state")
)

// canStartMeeting checks the start preconditions: a non-empty link and,
// when scheduling bounds are set, the current time inside them.
func canStartMeeting(request *models.ContactRequest, now time.Time) error {
	if request.MeetingLink == "" {
		return errNoMeetingLink
	}
	if request.ScheduledStartTime != nil && now.Before(*request.ScheduledStartTime) {
		return errBeforeWindow
	}
	if request.ScheduledEndTime != nil && now.After(*request.ScheduledEndTime) {
		return errAfterWindow
	}
	return nil
}

// canEndMeeting checks that the meeting is currently running.
func canEndMeeting(request *models.ContactRequest) error {
	if request.MeetingStatus != models.MeetingInProgress {
		return errNotInProgress
	}
	return nil
}

// StartMeeting moves scheduled -> in_progress. The transition is a
// conditional UPDATE on the current status so concurrent calls race only
// at the row.
func StartMeeting(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can start the meeting.")
		return
	}

	now := time.Now()
	if err := canStartMeeting(request, now); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", err.Error(), ctx)
		return
	}

	res := storage.DB.Model(&models.ContactRequest{}).
		Where("id = ? AND meeting_status = ?", request.ID, models.MeetingScheduled).
		Updates(map[string]interface{}{
			"meeting_status":     models.MeetingInProgress,
			"meeting_started_at": now,
		})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", errAlreadyStarted.Error(), ctx)
		return
	}

	request.MeetingStatus = models.MeetingInProgress
	request.MeetingStartedAt = &now

	ctx.JSON(iris.Map{
		"status":             request.MeetingStatus,
		"meeting_started_at": request.MeetingStartedAt,
	})
}

// EndMeeting moves in_progress -> completed.
func EndMeeting(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can end the meeting.")
		return
	}

	if err := canEndMeeting(request); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", err.Error(), ctx)
		return
	}

	now := time.Now()
	res := storage.DB.Model(&models.ContactRequest{}).
		Where("id = ? AND meeting_status = ?", request.ID, models.MeetingInProgress).
		Updates(map[string]interface{}{
			"meeting_status":   models.MeetingCompleted,
			"meeting_ended_at": now,
		})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", errNotInProgress.Error(), ctx)
		return
	}

	request.MeetingStatus = models.MeetingCompleted
	request.MeetingEndedAt = &now

	ctx.JSON(iris.Map{
		"status":           request.MeetingStatus,
		"meeting_ended_at": request.MeetingEndedAt,
	})
}

// readOptionalJSON decodes the body into dst when one is present. An
// empty body is not an error; a malformed one is.
func readOptionalJSON(ctx iris.Context, dst interface{}) error {
	if ctx.GetContentLength() == 0 {
		return nil
	}
	return ctx.ReadJSON(dst)
}

// templatedSummary synthesizes a summary from the participants, the
// listing title and the actual meeting times.
func templatedSummary(request *models.ContactRequest) string {
	developer := request.Developer.Username
	if developer == "" {
		developer = request.Developer.Email
	}
	investor := request.Investor.Username
	if investor == "" {
		investor = request.Investor.Email
	}

	title := request.ContextTitle()
	if title == "" {
		title = "the opportunity"
	}

	started := "an unrecorded time"
	if request.MeetingStartedAt != nil {
		started = request.MeetingStartedAt.UTC().Format("Jan 2, 2006 at 15:04 MST")
	}
	ended := "an unrecorded time"
	if request.MeetingEndedAt != nil {
		ended = request.MeetingEndedAt.UTC().Format("Jan 2, 2006 at 15:04 MST")
	}

	return fmt.Sprintf(
		"Meeting between %s and %s regarding \"%s\".\n\n"+
			"The meeting started on %s and ended on %s.\n\n"+
			"Both parties discussed the opportunity and agreed to follow up through FundFeed.",
		developer, investor, title, started, ended)
}

// GenerateSummary stores a meeting summary once the meeting completed.
// The caller may supply the text; otherwise a templated one is produced.
func GenerateSummary(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can generate a summary.")
		return
	}

	if request.MeetingStatus != models.MeetingCompleted {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", errNotCompleted.Error(), ctx)
		return
	}

	var input GenerateSummaryInput
	if err := readOptionalJSON(ctx, &input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	summary := input.Summary
	if summary == "" {
		summary = templatedSummary(request)
	}

	if err := storage.DB.Model(request).Update("meeting_summary", summary).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	request.MeetingSummary = summary

	ctx.JSON(iris.Map{"meeting_summary": summary})
}

// GetStructuredSummary returns the structured summary sub-record.
func GetStructuredSummary(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can view the summary.")
		return
	}

	if request.StructuredSummary == nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "No structured summary exists for this meeting", ctx)
		return
	}

	ctx.JSON(request.StructuredSummary)
}

// UpsertStructuredSummary creates or replaces the structured summary of a
// completed meeting.
func UpsertStructuredSummary(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can edit the summary.")
		return
	}

	if request.MeetingStatus != models.MeetingCompleted {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", errNotCompleted.Error(), ctx)
		return
	}

	var input StructuredSummaryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var summary models.MeetingSummary
	if err := storage.DB.Where(models.MeetingSummary{ContactRequestID: request.ID}).
		FirstOrCreate(&summary).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	actionItems, err := json.Marshal(input.ActionItems)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	updates := map[string]interface{}{
		"discussion_points": listToJSON(input.DiscussionPoints),
		"action_items":      datatypes.JSON(actionItems),
		"decisions_made":    listToJSON(input.DecisionsMade),
		"next_steps":        input.NextSteps,
		"needs_followup":    input.NeedsFollowup,
		"followup_date":     input.FollowupDate,
		"additional_notes":  input.AdditionalNotes,
	}

	if err := storage.DB.Model(&summary).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&summary)
}

// DownloadSummaryPDF renders the meeting summary as a PDF attachment.
func DownloadSummaryPDF(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "Only meeting participants can download the summary.")
		return
	}

	if request.MeetingSummary == "" {
		utils.CreateError(iris.StatusBadRequest, "Meeting Error", errSummaryEmpty.Error(), ctx)
		return
	}

	doc := services.BuildSummaryDocument(request)
	pdfBytes, err := services.RenderSummaryPDF(doc)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.ContentType("application/pdf")
	ctx.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"meeting-summary-%s.pdf\"", request.ID))
	ctx.Write(pdfBytes)
}

type GenerateSummaryInput struct {
	Summary string `json:"summary"`
}

type StructuredSummaryInput struct {
	DiscussionPoints []string            `json:"discussion_points"`
	ActionItems      []models.ActionItem `json:"action_items"`
	DecisionsMade    []string            `json:"decisions_made"`
	NextSteps        string              `json:"next_steps"`
	NeedsFollowup    bool                `json:"needs_followup"`
	FollowupDate     *time.Time          `json:"followup_date"`
	AdditionalNotes  string              `json:"additional_notes"`
}
