package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

var moderationStatuses = []string{models.StatusPending, models.StatusApproved, models.StatusRejected}

func pageParams(ctx iris.Context) (page, perPage int) {
	page = ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage = ctx.URLParamIntDefault("per_page", 25)
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}
	return page, perPage
}

// AdminListUsers returns a paginated user listing, optionally filtered by
// moderation status or role.
func AdminListUsers(ctx iris.Context) {
	query := storage.DB.Model(&models.User{})

	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if role := ctx.URLParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := strings.TrimSpace(ctx.URLParam("search")); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("email ILIKE ? OR username ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	page, perPage := pageParams(ctx)

	var users []models.User
	if err := query.Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminUpdateUserStatus approves or rejects a user account.
func AdminUpdateUserStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input ModerationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains(moderationStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Unknown moderation status.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, "id = ?", id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := iris.Map{"status": user.Status}
	if err := storage.DB.Model(&user).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.Audit(ctx, "user.status", "user", user.ID, before, iris.Map{"status": input.Status})

	ctx.JSON(iris.Map{"id": user.ID, "status": input.Status})
}

// AdminListInvestorPosts is the moderation view of investor posts: unlike
// the public listing it includes pending and rejected records.
func AdminListInvestorPosts(ctx iris.Context) {
	query := storage.DB.Model(&models.InvestorPost{})

	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	page, perPage := pageParams(ctx)

	var posts []models.InvestorPost
	if err := query.Preload("Investor").Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, posts, page, perPage, total)
}

// AdminUpdatePostStatus approves or rejects an investor post.
func AdminUpdatePostStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input ModerationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !slices.Contains(moderationStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Unknown moderation status.", ctx)
		return
	}

	var post models.InvestorPost
	if err := storage.DB.First(&post, "id = ?", id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := iris.Map{"status": post.Status}
	if err := storage.DB.Model(&post).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.Audit(ctx, "investor_post.status", "investor_post", post.ID, before, iris.Map{"status": input.Status})

	ctx.JSON(iris.Map{"id": post.ID, "status": input.Status})
}

// AdminStats reports entity counts for the dashboard.
func AdminStats(ctx iris.Context) {
	counts := map[string]interface{}{
		"users":            &models.User{},
		"pitches":          &models.Pitch{},
		"investor_posts":   &models.InvestorPost{},
		"contact_requests": &models.ContactRequest{},
	}

	stats := iris.Map{}
	for name, model := range counts {
		var n int64
		if err := storage.DB.Model(model).Count(&n).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		stats[name] = n
	}

	var pendingUsers int64
	if err := storage.DB.Model(&models.User{}).
		Where("status = ?", models.StatusPending).Count(&pendingUsers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	stats["pending_users"] = pendingUsers

	var completedMeetings int64
	if err := storage.DB.Model(&models.ContactRequest{}).
		Where("meeting_status = ?", models.MeetingCompleted).Count(&completedMeetings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	stats["completed_meetings"] = completedMeetings

	ctx.JSON(stats)
}

type ModerationInput struct {
	Status string `json:"status" validate:"required"`
}
