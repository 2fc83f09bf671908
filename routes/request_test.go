package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/prithvirajnaik/FundFeed-backend/utils"
)

// buildRequestTestApp wires the contact request routes behind a real
// access token verifier, the same way main does.
func buildRequestTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	request := app.Party("/api/requests", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		request.Post("/", CreateContactRequest)
	}
	app.Build()
	return app
}

func signRequestTestToken(id, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func postRequest(app *iris.Application, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateContactRequestRequiresToken(t *testing.T) {
	app := buildRequestTestApp()

	resp := postRequest(app, "", `{"message":"hi","pitch":"p1"}`)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected failure without token, got %d", resp.Code)
	}
}

func TestCreateContactRequestReferenceExclusivity(t *testing.T) {
	app := buildRequestTestApp()
	token := signRequestTestToken("inv-1", "investor")

	// Both references set.
	resp := postRequest(app, token,
		`{"message":"hi","pitch":"p1","investor_post":"ip1"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when both references set, got %d", resp.Code)
	}

	// Neither reference set.
	resp = postRequest(app, token, `{"message":"hi"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no reference set, got %d", resp.Code)
	}
}

func TestCreateContactRequestValidatesInput(t *testing.T) {
	app := buildRequestTestApp()
	token := signRequestTestToken("inv-1", "investor")

	// Missing message.
	resp := postRequest(app, token, `{"pitch":"p1"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", resp.Code)
	}

	// Unknown preference.
	resp = postRequest(app, token, `{"message":"hi","pitch":"p1","preference":"fax"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown preference, got %d", resp.Code)
	}

	// Unknown meeting platform.
	resp = postRequest(app, token, `{"message":"hi","pitch":"p1","meeting_platform":"telegraph"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown platform, got %d", resp.Code)
	}
}
