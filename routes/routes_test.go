package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"dream-homes-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp wires the listing and enquiry routes with a real JWT verifier
// but no database, so only the paths that stop before storage are exercised.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Configure(iris.WithoutPathCorrectionRedirection)
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, CreateProperty)
		property.Patch("/{id:uint}", accessTokenVerifierMiddleware, UpdateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, DeleteProperty)
	}

	enquiry := app.Party("/api/enquiry")
	{
		enquiry.Post("/", SendEnquiry)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, GetMyNotifications)
	}

	user := app.Party("/api/user")
	{
		user.Patch("/{id:uint}/properties/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, AlterUserSavedProperties)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}

	return app
}

// signAccessToken issues a bearer token the test verifier accepts
func signAccessToken(id uint, admin bool) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Admin: admin})
	return string(token)
}

func TestListingMutationsRequireToken(t *testing.T) {
	app := buildTestApp()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/property/"},
		{http.MethodPatch, "/api/property/1"},
		{http.MethodDelete, "/api/property/1"},
		{http.MethodGet, "/api/notifications/"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code == http.StatusOK || resp.Code == http.StatusNoContent {
			t.Fatalf("%s %s: expected rejection without token, got %d", r.method, r.path, resp.Code)
		}
	}
}

func TestNonNumericListingIDIsNotFound(t *testing.T) {
	app := buildTestApp()
	token := signAccessToken(1, false)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/property/abc"},
		{http.MethodDelete, "/api/property/abc"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404 for a non-numeric id, got %d", r.method, r.path, resp.Code)
		}
	}
}

func TestSendEnquiryValidationRejectsEmptyBody(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/enquiry/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty enquiry, got %d", resp.Code)
	}
}

func TestSendEnquiryValidationRejectsBadEmail(t *testing.T) {
	app := buildTestApp()

	body := `{"senderName":"Asha","senderEmail":"not-an-email","message":"Is this still available?","propertyId":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/enquiry/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed sender email, got %d", resp.Code)
	}
}
