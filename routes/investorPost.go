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

// ListInvestorPosts returns posts, newest first. Filters: investor (an id
// or "me"), search over title/description/location, tags, stage, location.
func ListInvestorPosts(ctx iris.Context) {
	query := storage.DB.Model(&models.InvestorPost{}).Preload("Investor").Order("created_at DESC")

	if investorID := ctx.URLParam("investor"); investorID != "" {
		if investorID == "me" {
			claims := utils.GetClaims(ctx)
			if claims == nil {
				utils.CreateError(iris.StatusUnauthorized, "Credentials Error",
					"investor=me requires authentication.", ctx)
				return
			}
			investorID = claims.ID
		}
		query = query.Where("investor_id = ?", investorID)
	}

	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern)
	}

	if tag := ctx.URLParam("tags"); tag != "" {
		query = query.Where("tags::text ILIKE ?", "%"+tag+"%")
	}

	if stage := ctx.URLParam("stage"); stage != "" {
		query = query.Where("stages::text ILIKE ?", "%"+stage+"%")
	}

	if location := ctx.URLParam("location"); location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}

	var posts []models.InvestorPost
	if err := query.Find(&posts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(posts)
}

func GetInvestorPost(ctx iris.Context) {
	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	ctx.JSON(post)
}

// CreateInvestorPost creates a post owned by the calling investor.
func CreateInvestorPost(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input InvestorPostInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	logo := input.Logo
	if strings.HasPrefix(logo, "data:") {
		logo = storage.UploadBase64Image(logo, "investor/logos/"+utils.GenerateShortToken(8))
	}

	post := models.InvestorPost{
		InvestorID:        claims.ID,
		Title:             input.Title,
		Description:       input.Description,
		Tags:              listToJSON(input.Tags),
		Stages:            listToJSON(input.Stages),
		AmountRange:       input.AmountRange,
		Location:          input.Location,
		ContactPreference: input.ContactPreference,
		Logo:              logo,
	}

	if err := storage.DB.Create(&post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&post)
}

func UpdateInvestorPost(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	if post.InvestorID != claims.ID {
		utils.CreateForbidden(ctx, "Only the owning investor can edit a post.")
		return
	}

	var input UpdateInvestorPostInput
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
	if input.Stages != nil {
		updates["stages"] = listToJSON(*input.Stages)
	}
	if input.AmountRange != nil {
		updates["amount_range"] = *input.AmountRange
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.ContactPreference != nil {
		updates["contact_preference"] = *input.ContactPreference
	}
	if input.Logo != nil {
		logo := *input.Logo
		if strings.HasPrefix(logo, "data:") {
			logo = storage.UploadBase64Image(logo, "investor/logos/"+utils.GenerateShortToken(8))
		}
		updates["logo"] = logo
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(post).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(post)
}

func DeleteInvestorPost(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	if post.InvestorID != claims.ID {
		utils.CreateForbidden(ctx, "Only the owning investor can delete a post.")
		return
	}

	if err := storage.DB.Delete(post).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if post.Logo != "" {
		storage.DeleteImage(post.Logo)
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func AddInvestorPostView(ctx iris.Context) {
	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	if err := storage.DB.Model(post).
		Update("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"views": post.Views + 1})
}

// SaveInvestorPost bookmarks a post for the calling developer. saved_count
// moves only when a bookmark row is actually created, in the same
// transaction, so the counter stays consistent with the rows.
func SaveInvestorPost(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	created := false
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		saved := models.SavedInvestorPost{DeveloperID: claims.ID, PostID: post.ID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.InvestorPost{}).Where("id = ?", post.ID).
			Update("saved_count", gorm.Expr("saved_count + 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !created {
		ctx.JSON(iris.Map{"detail": "Already saved", "saved": true})
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"detail": "Post saved", "saved": true})
}

// UnsaveInvestorPost removes the bookmark. The decrement is clamped so
// saved_count can never go negative even if rows drift.
func UnsaveInvestorPost(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	post := getInvestorPostByID(ctx.Params().Get("id"), ctx)
	if post == nil {
		return
	}

	removed := false
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("developer_id = ? AND post_id = ?", claims.ID, post.ID).
			Delete(&models.SavedInvestorPost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.InvestorPost{}).
			Where("id = ? AND saved_count > 0", post.ID).
			Update("saved_count", gorm.Expr("saved_count - 1")).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !removed {
		ctx.JSON(iris.Map{"detail": "Not saved", "saved": false})
		return
	}

	ctx.JSON(iris.Map{"detail": "Post unsaved", "saved": false})
}

func SavedInvestorPostList(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var saved []models.SavedInvestorPost
	if err := storage.DB.Where("developer_id = ?", claims.ID).
		Preload("Post").Preload("Post.Investor").
		Order("saved_at DESC").
		Find(&saved).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(saved)
}

func getInvestorPostByID(id string, ctx iris.Context) *models.InvestorPost {
	var post models.InvestorPost
	postQuery := storage.DB.Preload("Investor").Where("id = ?", id).Find(&post)

	if postQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if postQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Investor post not found", ctx)
		return nil
	}

	return &post
}

type InvestorPostInput struct {
	Title             string   `json:"title" validate:"required,max=150"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	Stages            []string `json:"stages"`
	AmountRange       string   `json:"amount_range" validate:"max=50"`
	Location          string   `json:"location" validate:"max=120"`
	ContactPreference string   `json:"contact_preference" validate:"omitempty,oneof=email phone dm"`
	Logo              string   `json:"logo"`
}

type UpdateInvestorPostInput struct {
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	Tags              *[]string `json:"tags"`
	Stages            *[]string `json:"stages"`
	AmountRange       *string   `json:"amount_range"`
	Location          *string   `json:"location"`
	ContactPreference *string   `json:"contact_preference"`
	Logo              *string   `json:"logo"`
}
