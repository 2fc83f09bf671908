package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/prithvirajnaik/FundFeed-backend/routes"
	"github.com/prithvirajnaik/FundFeed-backend/storage"
	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeCloudinary()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Public listings still honor a presented token (for the "me" filter)
	optionalAccessTokenMiddleware := utils.OptionalAuth(accessTokenVerifierMiddleware)

	// Health check endpoint - CRITICAL for Render
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.Me)
	}

	profile := app.Party("/api/profile")
	{
		profile.Patch("/update", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProfile)
		profile.Get("/{id}", routes.PublicProfile)
	}

	pitch := app.Party("/api/pitches")
	{
		pitch.Get("/", optionalAccessTokenMiddleware, routes.ListPitches)
		pitch.Post("/", accessTokenVerifierMiddleware, utils.DeveloperOnlyMiddleware, routes.CreatePitch)
		pitch.Get("/saved", accessTokenVerifierMiddleware, utils.InvestorOnlyMiddleware, routes.SavedPitchList)
		pitch.Get("/{id}", routes.GetPitch)
		pitch.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdatePitch)
		pitch.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeletePitch)
		pitch.Post("/{id}/add_view", routes.AddPitchView)
		pitch.Post("/{id}/save", accessTokenVerifierMiddleware, utils.InvestorOnlyMiddleware, routes.SavePitch)
		pitch.Delete("/{id}/unsave", accessTokenVerifierMiddleware, utils.InvestorOnlyMiddleware, routes.UnsavePitch)
	}

	investorPost := app.Party("/api/investor-posts")
	{
		investorPost.Get("/", optionalAccessTokenMiddleware, routes.ListInvestorPosts)
		investorPost.Post("/", accessTokenVerifierMiddleware, utils.InvestorOnlyMiddleware, routes.CreateInvestorPost)
		investorPost.Get("/saved", accessTokenVerifierMiddleware, utils.DeveloperOnlyMiddleware, routes.SavedInvestorPostList)
		investorPost.Get("/{id}", routes.GetInvestorPost)
		investorPost.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateInvestorPost)
		investorPost.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteInvestorPost)
		investorPost.Post("/{id}/add_view", routes.AddInvestorPostView)
		investorPost.Post("/{id}/save", accessTokenVerifierMiddleware, utils.DeveloperOnlyMiddleware, routes.SaveInvestorPost)
		investorPost.Delete("/{id}/unsave", accessTokenVerifierMiddleware, utils.DeveloperOnlyMiddleware, routes.UnsaveInvestorPost)
	}

	request := app.Party("/api/requests", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		request.Get("/", routes.ListContactRequests)
		request.Post("/", routes.CreateContactRequest)
		request.Get("/{id}", routes.GetContactRequest)
		request.Patch("/{id}", routes.UpdateContactRequest)
		request.Delete("/{id}", routes.DeleteContactRequest)
		request.Post("/{id}/mark_viewed", routes.MarkViewed)
		request.Post("/{id}/start_meeting", routes.StartMeeting)
		request.Post("/{id}/end_meeting", routes.EndMeeting)
		request.Post("/{id}/generate_summary", routes.GenerateSummary)
		request.Get("/{id}/structured_summary", routes.GetStructuredSummary)
		request.Put("/{id}/structured_summary", routes.UpsertStructuredSummary)
		request.Get("/{id}/download_summary_pdf", routes.DownloadSummaryPDF)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id}/status", routes.AdminUpdateUserStatus)
		admin.Get("/investor-posts", routes.AdminListInvestorPosts)
		admin.Patch("/investor-posts/{id}/status", routes.AdminUpdatePostStatus)
		admin.Get("/stats", routes.AdminStats)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
