package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

// ListPitches returns pitches, newest first. Filters: developer (an id or
// "me"), search over title/description, tags and stage containment.
func ListPitches(ctx iris.Context) {
	query := storage.DB.Model(&models.Pitch{}).Preload("Developer").Order("created_at DESC")

	if developerID := ctx.URLParam("developer"); developerID != "" {
		if developerID == "me" {
			claims := utils.GetClaims(ctx)
			if claims == nil {
				utils.CreateError(iris.StatusUnauthorized, "Credentials Error",
					"developer=me requires authentication.", ctx)
				return
			}
			developerID = claims.ID
		}
		query = query.Where("developer_id = ?", developerID)
	}

	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if tag := ctx.URLParam("tags"); tag != "" {
		query = query.Where("tags::text ILIKE ?", "%"+tag+"%")
	}

	if stage := ctx.URLParam("stage"); stage != "" {
		query = query.Where("funding_stage = ?", stage)
	}

	var pitches []models.Pitch
	if err := query.Find(&pitches).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(pitches)
}

func GetPitch(ctx iris.Context) {
	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	ctx.JSON(pitch)
}

// CreatePitch creates a pitch owned by the calling developer. A thumbnail
// sent as a base64 data URI is uploaded to Cloudinary first.
func CreatePitch(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input PitchInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	thumbnail := input.Thumbnail
	if strings.HasPrefix(thumbnail, "data:") {
		thumbnail = storage.UploadBase64Image(thumbnail, "pitches/thumbnails/"+utils.GenerateShortToken(8))
	}

	pitch := models.Pitch{
		DeveloperID:  claims.ID,
		Title:        input.Title,
		Description:  input.Description,
		Tags:         listToJSON(input.Tags),
		FundingStage: input.FundingStage,
		Ask:          input.Ask,
		Video:        input.Video,
		Thumbnail:    thumbnail,
	}

	if err := storage.DB.Create(&pitch).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&pitch)
}

func UpdatePitch(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	if pitch.DeveloperID != claims.ID {
		utils.CreateForbidden(ctx, "Only the owning developer can edit a pitch.")
		return
	}

	var input UpdatePitchInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Tags != nil {
		updates["tags"] = listToJSON(*input.Tags)
	}
	if input.FundingStage != nil {
		updates["funding_stage"] = *input.FundingStage
	}
	if input.Ask != nil {
		updates["ask"] = *input.Ask
	}
	if input.Video != nil {
		updates["video"] = *input.Video
	}
	if input.Thumbnail != nil {
		thumbnail := *input.Thumbnail
		if strings.HasPrefix(thumbnail, "data:") {
			thumbnail = storage.UploadBase64Image(thumbnail, "pitches/thumbnails/"+utils.GenerateShortToken(8))
		}
		updates["thumbnail"] = thumbnail
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(pitch).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(pitch)
}

func DeletePitch(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	if pitch.DeveloperID != claims.ID {
		utils.CreateForbidden(ctx, "Only the owning developer can delete a pitch.")
		return
	}

	if err := storage.DB.Delete(pitch).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if pitch.Thumbnail != "" {
		storage.DeleteImage(pitch.Thumbnail)
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// AddPitchView bumps the view counter. A dedicated action, not a fetch
// side effect, so the counter survives races via a single UPDATE.
func AddPitchView(ctx iris.Context) {
	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	if err := storage.DB.Model(pitch).
		Update("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"views": pitch.Views + 1})
}

// SavePitch bookmarks a pitch for the calling investor. Saving twice is a
// no-op: the unique (investor, pitch) index plus ON CONFLICT DO NOTHING
// keep it race free.
func SavePitch(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	saved := models.SavedPitch{InvestorID: claims.ID, PitchID: pitch.ID}
	res := storage.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(iris.Map{"detail": "Already saved", "saved": true})
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"detail": "Saved", "saved": true})
}

// UnsavePitch removes the bookmark; unsaving something never saved is not
// an error.
func UnsavePitch(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	pitch := getPitchByID(ctx.Params().Get("id"), ctx)
	if pitch == nil {
		return
	}

	res := storage.DB.Where("investor_id = ? AND pitch_id = ?", claims.ID, pitch.ID).
		Delete(&models.SavedPitch{})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if res.RowsAffected == 0 {
		ctx.JSON(iris.Map{"detail": "Not saved", "saved": false})
		return
	}

	ctx.JSON(iris.Map{"detail": "Removed", "saved": false})
}

func SavedPitchList(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var saved []models.SavedPitch
	if err := storage.DB.Where("investor_id = ?", claims.ID).
		Preload("Pitch").Preload("Pitch.Developer").
		Order("saved_at DESC").
		Find(&saved).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(saved)
}

func getPitchByID(id string, ctx iris.Context) *models.Pitch {
	var pitch models.Pitch
	pitchQuery := storage.DB.Preload("Developer").Where("id = ?", id).Find(&pitch)

	if pitchQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if pitchQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Pitch not found", ctx)
		return nil
	}

	return &pitch
}

type PitchInput struct {
	Title        string   `json:"title" validate:"required,max=80"`
	Description  string   `json:"description" validate:"max=300"`
	Tags         []string `json:"tags"`
	FundingStage string   `json:"funding_stage" validate:"max=30"`
	Ask          string   `json:"ask" validate:"max=150"`
	Video        string   `json:"video"`
	Thumbnail    string   `json:"thumbnail"`
}

type UpdatePitchInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Tags         *[]string `json:"tags"`
	FundingStage *string   `json:"funding_stage"`
	Ask          *string   `json:"ask"`
	Video        *string   `json:"video"`
	Thumbnail    *string   `json:"thumbnail"`
}
