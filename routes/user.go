package routes

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/prithvirajnaik/FundFeed-backend/models"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		Email:    strings.ToLower(userInput.Email),
		Username: userInput.Username,
		Password: hashedPassword,
		Role:     userInput.Role,
	}

	// User plus its empty role profile land together or not at all
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if newUser.Role == models.RoleInvestor {
			return tx.Create(&models.InvestorProfile{UserID: newUser.ID}).Error
		}
		return tx.Create(&models.DeveloperProfile{UserID: newUser.ID}).Error
	})
	if txErr != nil {
		// A concurrent registration can slip past the existence check and
		// land on the unique email index instead.
		if isDuplicateKey(txErr) {
			utils.CreateEmailAlreadyRegistered(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(newUser, iris.StatusCreated, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, iris.StatusOK, ctx)
}

// Me returns the authenticated user.
func Me(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var user models.User
	userQuery := storage.DB.Where("id = ?", claims.ID).Find(&user)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

// PublicProfile returns a user together with the profile payload matching
// their role: developers expose a DeveloperProfile, investors an
// InvestorProfile.
func PublicProfile(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	userQuery := storage.DB.Where("id = ?", id).Find(&user)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var profile interface{}
	switch user.Role {
	case models.RoleInvestor:
		var investorProfile models.InvestorProfile
		if res := storage.DB.Where("user_id = ?", user.ID).Find(&investorProfile); res.Error == nil && res.RowsAffected > 0 {
			profile = &investorProfile
		}
	default:
		var developerProfile models.DeveloperProfile
		if res := storage.DB.Where("user_id = ?", user.ID).Find(&developerProfile); res.Error == nil && res.RowsAffected > 0 {
			profile = &developerProfile
		}
	}

	ctx.JSON(iris.Map{
		"user":    &user,
		"profile": profile,
	})
}

// UpdateProfile partially updates the caller's own profile. The body is
// JSON, or multipart form data when it carries an avatar file; the profile
// row is created lazily if registration predates it.
func UpdateProfile(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var user models.User
	userQuery := storage.DB.Where("id = ?", claims.ID).Find(&user)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	isMultipart := strings.HasPrefix(ctx.GetContentTypeRequested(), "multipart/form-data")

	if isMultipart {
		if file, _, fileErr := ctx.FormFile("avatar"); fileErr == nil {
			data, readErr := io.ReadAll(file)
			file.Close()
			if readErr != nil {
				utils.CreateInternalServerError(ctx)
				return
			}

			uploadedURL := storage.UploadBase64Image(
				base64.StdEncoding.EncodeToString(data),
				"avatars/"+user.ID+"_"+utils.GenerateShortToken(4))
			if uploadedURL != "" {
				user.AvatarURL = uploadedURL
				storage.DB.Model(&user).Update("avatar_url", uploadedURL)
			}
		}
	}

	var input UpdateProfileInput
	if isMultipart {
		input = profileInputFromForm(ctx)
	} else if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// User-level fields ride along with the profile update
	userUpdates := map[string]interface{}{}
	if input.Username != nil {
		userUpdates["username"] = *input.Username
	}
	if input.Location != nil {
		userUpdates["location"] = *input.Location
	}
	if len(userUpdates) > 0 {
		if err := storage.DB.Model(&user).Updates(userUpdates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	var profile interface{}
	var profileErr error
	if user.Role == models.RoleInvestor {
		profile, profileErr = applyInvestorProfileUpdate(&user, &input)
	} else {
		profile, profileErr = applyDeveloperProfileUpdate(&user, &input)
	}
	if profileErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"profile":    profile,
		"avatar_url": user.AvatarURL,
	})
}

func applyDeveloperProfileUpdate(user *models.User, input *UpdateProfileInput) (*models.DeveloperProfile, error) {
	var profile models.DeveloperProfile
	if err := storage.DB.Where(models.DeveloperProfile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Skills != nil {
		updates["skills"] = listToJSON(*input.Skills)
	}
	if input.Github != nil {
		updates["github"] = *input.Github
	}
	if input.Linkedin != nil {
		updates["linkedin"] = *input.Linkedin
	}
	if input.Portfolio != nil {
		updates["portfolio"] = *input.Portfolio
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(&profile).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &profile, nil
}

func applyInvestorProfileUpdate(user *models.User, input *UpdateProfileInput) (*models.InvestorProfile, error) {
	var profile models.InvestorProfile
	if err := storage.DB.Where(models.InvestorProfile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Firm != nil {
		updates["firm"] = *input.Firm
	}
	if input.InvestorType != nil {
		updates["investor_type"] = *input.InvestorType
	}
	if input.ContactPreference != nil {
		updates["contact_preference"] = *input.ContactPreference
	}
	if input.Stages != nil {
		updates["stages"] = listToJSON(*input.Stages)
	}
	if input.Sectors != nil {
		updates["sectors"] = listToJSON(*input.Sectors)
	}
	if input.Linkedin != nil {
		updates["linkedin"] = *input.Linkedin
	}
	if input.Website != nil {
		updates["website"] = *input.Website
	}

	if len(updates) > 0 {
		if err := storage.DB.Model(&profile).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &profile, nil
}

// profileInputFromForm maps multipart form fields onto the update input.
// List fields arrive as JSON-encoded arrays.
func profileInputFromForm(ctx iris.Context) UpdateProfileInput {
	var input UpdateProfileInput

	strField := func(name string, dst **string) {
		if ctx.FormValueDefault(name, "\x00") != "\x00" {
			v := ctx.FormValue(name)
			*dst = &v
		}
	}
	listField := func(name string, dst **[]string) {
		raw := ctx.FormValueDefault(name, "\x00")
		if raw == "\x00" {
			return
		}
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			// fall back to a comma-separated list
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		}
		*dst = &values
	}

	strField("username", &input.Username)
	strField("location", &input.Location)
	strField("title", &input.Title)
	strField("bio", &input.Bio)
	strField("github", &input.Github)
	strField("linkedin", &input.Linkedin)
	strField("portfolio", &input.Portfolio)
	strField("firm", &input.Firm)
	strField("investor_type", &input.InvestorType)
	strField("contact_preference", &input.ContactPreference)
	listField("skills", &input.Skills)
	listField("stages", &input.Stages)
	listField("sectors", &input.Sectors)

	return input
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(user)
	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func listToJSON(values []string) datatypes.JSON {
	encoded, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(encoded)
}

func returnUser(user models.User, statusCode int, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(statusCode)
	ctx.JSON(iris.Map{
		"user":   &user,
		"tokens": tokenPair,
	})
}

type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,max=256,email"`
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=6,max=256"`
	Role     string `json:"role" validate:"required,oneof=developer investor"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileInput struct {
	Username *string `json:"username"`
	Location *string `json:"location"`

	// developer fields
	Title     *string   `json:"title"`
	Bio       *string   `json:"bio"`
	Skills    *[]string `json:"skills"`
	Github    *string   `json:"github"`
	Linkedin  *string   `json:"linkedin"`
	Portfolio *string   `json:"portfolio"`

	// investor fields
	Firm              *string   `json:"firm"`
	InvestorType      *string   `json:"investor_type"`
	ContactPreference *string   `json:"contact_preference"`
	Stages            *[]string `json:"stages"`
	Sectors           *[]string `json:"sectors"`
	Website           *string   `json:"website"`
}
