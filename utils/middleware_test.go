package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildOptionalAuthApp exposes one route behind OptionalAuth that reports
// whether claims were attached.
func buildOptionalAuthApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(AccessToken) })

	app.Get("/listing", OptionalAuth(verifierMiddleware), func(ctx iris.Context) {
		claims := GetClaims(ctx)
		if claims == nil {
			ctx.JSON(iris.Map{"caller": "anonymous"})
			return
		}
		ctx.JSON(iris.Map{"caller": claims.ID})
	})
	app.Build()
	return app
}

func signMiddlewareTestToken(id, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(AccessToken{ID: id, Role: role})
	return string(token)
}

func TestOptionalAuth(t *testing.T) {
	app := buildOptionalAuthApp()

	// No token: passes through anonymously.
	req := httptest.NewRequest(http.MethodGet, "/listing", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without token, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, `"caller":"anonymous"`) {
		t.Fatalf("expected anonymous caller, got %s", body)
	}

	// Valid token: claims reach the handler.
	req = httptest.NewRequest(http.MethodGet, "/listing", nil)
	req.Header.Set("Authorization", "Bearer "+signMiddlewareTestToken("dev-1", "developer"))
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, `"caller":"dev-1"`) {
		t.Fatalf("expected caller id from claims, got %s", body)
	}

	// Garbage token: the verifier rejects it.
	req = httptest.NewRequest(http.MethodGet, "/listing", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected rejection of a malformed token, got %d", resp.Code)
	}
}
