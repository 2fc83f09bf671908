package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/services"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

// ListContactRequests returns the caller's requests, newest first.
// box=inbox (default) lists requests where the caller is the receiver
// under the direction rule, box=sent those where the caller is the sender.
func ListContactRequests(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	box := ctx.URLParamDefault("box", "inbox")

	query := storage.DB.Model(&models.ContactRequest{}).
		Preload("Developer").Preload("Investor").
		Preload("Pitch").Preload("InvestorPost").
		Order("created_at DESC")

	if box == "sent" {
		// Sender: investor on a pitch request, developer on a post request
		query = query.Where(
			"(investor_id = ? AND pitch_id IS NOT NULL) OR (developer_id = ? AND investor_post_id IS NOT NULL)",
			claims.ID, claims.ID)
	} else {
		// Receiver: developer on a pitch request, investor on a post request
		query = query.Where(
			"(developer_id = ? AND pitch_id IS NOT NULL) OR (investor_id = ? AND investor_post_id IS NOT NULL)",
			claims.ID, claims.ID)
	}

	var requests []models.ContactRequest
	if err := query.Find(&requests).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

// CreateContactRequest records an outreach. The referenced listing decides
// both sides: a pitch makes the caller the investor and the pitch's
// developer the receiver, an investor post the other way around.
func CreateContactRequest(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input ContactRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if (input.Pitch == "") == (input.InvestorPost == "") {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Exactly one of pitch or investor_post must be provided.", ctx)
		return
	}

	request := models.ContactRequest{
		Message:            input.Message,
		MeetingLink:        input.MeetingLink,
		Preference:         input.Preference,
		ScheduledStartTime: input.ScheduledStartTime,
		ScheduledEndTime:   input.ScheduledEndTime,
		Agenda:             input.Agenda,
	}
	if input.Timezone != "" {
		request.Timezone = input.Timezone
	}
	if input.MeetingPlatform != "" {
		request.MeetingPlatform = input.MeetingPlatform
	}

	if input.Pitch != "" {
		pitch := getPitchByID(input.Pitch, ctx)
		if pitch == nil {
			return
		}
		pitchID := pitch.ID
		request.PitchID = &pitchID
		request.InvestorID = claims.ID
		request.DeveloperID = pitch.DeveloperID
	} else {
		post := getInvestorPostByID(input.InvestorPost, ctx)
		if post == nil {
			return
		}
		postID := post.ID
		request.InvestorPostID = &postID
		request.DeveloperID = claims.ID
		request.InvestorID = post.InvestorID
	}

	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Explicit side effect, throttled inside the service; never fails the create
	services.NewEmailService().NotifyContactRequest(&request)

	storage.DB.Preload("Developer").Preload("Investor").
		Preload("Pitch").Preload("InvestorPost").
		First(&request, "id = ?", request.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

func GetContactRequest(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not a participant of this request.")
		return
	}

	ctx.JSON(request)
}

// UpdateContactRequest lets a participant edit scheduling fields directly.
// meeting_status accepts only "cancelled" here; the other transitions go
// through the dedicated endpoints.
func UpdateContactRequest(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not a participant of this request.")
		return
	}

	var input UpdateContactRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Message != nil {
		updates["message"] = *input.Message
	}
	if input.MeetingLink != nil {
		updates["meeting_link"] = *input.MeetingLink
	}
	if input.Preference != nil {
		updates["preference"] = *input.Preference
	}
	if input.ScheduledStartTime != nil {
		updates["scheduled_start_time"] = *input.ScheduledStartTime
	}
	if input.ScheduledEndTime != nil {
		updates["scheduled_end_time"] = *input.ScheduledEndTime
	}
	if input.Timezone != nil {
		updates["timezone"] = *input.Timezone
	}
	if input.MeetingPlatform != nil {
		if !slices.Contains(models.MeetingPlatforms, *input.MeetingPlatform) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Unknown meeting platform.", ctx)
			return
		}
		updates["meeting_platform"] = *input.MeetingPlatform
	}
	if input.Agenda != nil {
		updates["agenda"] = *input.Agenda
	}
	if input.MeetingStatus != nil {
		if *input.MeetingStatus != models.MeetingCancelled {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"meeting_status can only be set to cancelled here; use the meeting endpoints for other transitions.", ctx)
			return
		}
		updates["meeting_status"] = models.MeetingCancelled
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(request).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(request)
}

func DeleteContactRequest(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not a participant of this request.")
		return
	}

	if err := storage.DB.Delete(request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// MarkViewed flags the request as seen. Any participant may call it.
func MarkViewed(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	request := getContactRequestByID(ctx.Params().Get("id"), ctx)
	if request == nil {
		return
	}

	if !request.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not a participant of this request.")
		return
	}

	if err := storage.DB.Model(request).Update("viewed", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"status": "marked as viewed"})
}

func getContactRequestByID(id string, ctx iris.Context) *models.ContactRequest {
	var request models.ContactRequest
	requestQuery := storage.DB.
		Preload("Developer").Preload("Investor").
		Preload("Pitch").Preload("InvestorPost").
		Preload("StructuredSummary").
		Where("id = ?", id).Find(&request)

	if requestQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if requestQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Contact request not found", ctx)
		return nil
	}

	return &request
}

type ContactRequestInput struct {
	Pitch              string     `json:"pitch"`
	InvestorPost       string     `json:"investor_post"`
	Message            string     `json:"message" validate:"required"`
	MeetingLink        string     `json:"meeting_link"`
	Preference         string     `json:"preference" validate:"omitempty,oneof=email phone dm"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	Timezone           string     `json:"timezone" validate:"max=50"`
	MeetingPlatform    string     `json:"meeting_platform" validate:"omitempty,oneof=google-meet zoom microsoft-teams phone in-person other"`
	Agenda             string     `json:"agenda"`
}

type UpdateContactRequestInput struct {
	Message            *string    `json:"message"`
	MeetingLink        *string    `json:"meeting_link"`
	Preference         *string    `json:"preference"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	Timezone           *string    `json:"timezone"`
	MeetingPlatform    *string    `json:"meeting_platform"`
	Agenda             *string    `json:"agenda"`
	MeetingStatus      *string    `json:"meeting_status"`
}
