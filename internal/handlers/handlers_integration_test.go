package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plume/internal/apierr"
	"plume/internal/handlers"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testTimeout = 5000 // ms, app.Test deadline

func jwtSecret() string {
	viper.SetDefault("TEST_JWT_SECRET", "integration_secret")
	viper.AutomaticEnv()
	return viper.GetString("TEST_JWT_SECRET")
}

// setupApp builds the full stack over a private in-memory SQLite database.
// The DSN is keyed by test name so parallel tests do not share state.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.Profile{}, &models.Article{}, &models.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	appLogger := zap.NewNop()
	accountRepo := repositories.NewGORMAccountRepository(db)
	profileRepo := repositories.NewGORMProfileRepository(db)
	articleRepo := repositories.NewGORMArticleRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	authService := services.NewAuthService(accountRepo, profileRepo, articleRepo, commentRepo, nil, appLogger, jwtSecret())
	profileService := services.NewProfileService(profileRepo, articleRepo, commentRepo, appLogger)
	articleService := services.NewArticleService(articleRepo, commentRepo, nil, appLogger)
	commentService := services.NewCommentService(commentRepo, articleRepo, appLogger)

	app := fiber.New(fiber.Config{
		ErrorHandler: apierr.ErrorHandler(appLogger),
	})

	authRequired := middleware.AuthRequired(authService)
	profileRequired := middleware.ProfileRequired(profileRepo)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1, authRequired)
	handlers.NewProfileHandler(profileService).RegisterRoutes(apiV1, authRequired)
	handlers.NewArticleHandler(articleService, commentService).RegisterRoutes(apiV1, authRequired, profileRequired)

	return app
}

// request performs one call against the app and decodes the response
// envelope, returning the status code and the data object.
func request(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, testTimeout)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("%s %s: decoding response: %v", method, path, err)
	}
	assert.Equal(t, resp.StatusCode < 400, envelope.Success)
	return resp.StatusCode, envelope.Data
}

// registerAccount registers an account and logs it in, returning the bearer
// token and the account ID.
func registerAccount(t *testing.T, app *fiber.App, email, password string) (string, string) {
	t.Helper()

	status, _ := request(t, app, http.MethodPost, "/api/v1/accounts/register", "", fiber.Map{
		"email": email, "password": password,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, data := request(t, app, http.MethodPost, "/api/v1/accounts/login", "", fiber.Map{
		"email": email, "password": password,
	})
	assert.Equal(t, http.StatusOK, status)

	token := data["token"].(string)
	account := data["account"].(map[string]interface{})
	return token, account["id"].(string)
}

// registerPerson creates a Person profile and returns its ID.
func registerPerson(t *testing.T, app *fiber.App, token, firstName, lastName string) string {
	t.Helper()

	status, data := request(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
		"kind": "Person", "firstName": firstName, "lastName": lastName,
	})
	assert.Equal(t, http.StatusCreated, status)
	return data["profile"].(map[string]interface{})["id"].(string)
}

// createArticle publishes an article as the given profile and returns its ID.
func createArticle(t *testing.T, app *fiber.App, token, profileID, title string) string {
	t.Helper()

	status, data := request(t, app, http.MethodPost, "/api/v1/articles/", token, fiber.Map{
		"profileId": profileID, "title": title, "content": "some content",
	})
	assert.Equal(t, http.StatusCreated, status)
	return data["article"].(map[string]interface{})["id"].(string)
}

func TestRegisterLoginMe(t *testing.T) {
	app := setupApp(t)

	token, accountID := registerAccount(t, app, "samu@example.com", "Sunrise42")

	status, data := request(t, app, http.MethodGet, "/api/v1/accounts/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	account := data["account"].(map[string]interface{})
	assert.Equal(t, accountID, account["id"])
	assert.Equal(t, "samu@example.com", account["email"])
	// The hash never leaves the API.
	assert.NotContains(t, account, "password")

	// The email is normalized before the uniqueness check, so a case
	// variant of a taken address conflicts.
	status, data = request(t, app, http.MethodPost, "/api/v1/accounts/register", "", fiber.Map{
		"email": "Samu@Example.COM", "password": "Sunrise42",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email is already registered", data["message"])

	// Weak password and malformed email are rejected up front.
	status, _ = request(t, app, http.MethodPost, "/api/v1/accounts/register", "", fiber.Map{
		"email": "weak@example.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = request(t, app, http.MethodPost, "/api/v1/accounts/register", "", fiber.Map{
		"email": "not-an-email", "password": "Sunrise42",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthRejections(t *testing.T) {
	app := setupApp(t)
	registerAccount(t, app, "samu@example.com", "Sunrise42")

	// Wrong password.
	status, data := request(t, app, http.MethodPost, "/api/v1/accounts/login", "", fiber.Map{
		"email": "samu@example.com", "password": "WrongPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", data["message"])

	// Missing, malformed and forged tokens all get the same 401.
	status, _ = request(t, app, http.MethodGet, "/api/v1/accounts/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = request(t, app, http.MethodGet, "/api/v1/accounts/me", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": "whatever",
		"iat":        time.Now().Add(-48 * time.Hour).Unix(),
		"exp":        time.Now().Add(-24 * time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(jwtSecret()))
	assert.NoError(t, err)
	status, _ = request(t, app, http.MethodGet, "/api/v1/accounts/me", expiredString, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProfileRegistrationAndNormalization(t *testing.T) {
	app := setupApp(t)
	token, accountID := registerAccount(t, app, "samu@example.com", "Sunrise42")

	status, data := request(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
		"kind": "Person", "firstName": "samu", "lastName": "perhonen",
	})
	assert.Equal(t, http.StatusCreated, status)
	profile := data["profile"].(map[string]interface{})
	assert.Equal(t, "Samu", profile["firstName"])
	assert.Equal(t, "PERHONEN", profile["lastName"])
	assert.Equal(t, accountID, profile["owner"])
	assert.Equal(t, models.DefaultAvatar, profile["avatar"])

	status, data = request(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
		"kind": "Company", "name": "acme corp",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Acme corp", data["profile"].(map[string]interface{})["name"])

	// Uniqueness is global: another account cannot take the same person
	// identity in any casing.
	otherToken, _ := registerAccount(t, app, "other@example.com", "Sunrise42")
	status, _ = request(t, app, http.MethodPost, "/api/v1/profiles/", otherToken, fiber.Map{
		"kind": "Person", "firstName": "SAMU", "lastName": "Perhonen",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = request(t, app, http.MethodPost, "/api/v1/profiles/", token, fiber.Map{
		"kind": "Robot", "name": "robo",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// The owner's listing shows both profiles; anyone can read one by ID.
	status, data = request(t, app, http.MethodGet, "/api/v1/profiles/", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, data["profiles"].([]interface{}), 2)

	status, _ = request(t, app, http.MethodGet, "/api/v1/profiles/"+profile["id"].(string), "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProfileResolutionGate(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := registerAccount(t, app, "a@example.com", "Sunrise42")
	tokenB, _ := registerAccount(t, app, "b@example.com", "Sunrise42")
	profileA := registerPerson(t, app, tokenA, "samu", "perhonen")

	// Account B cannot act as A's profile; the response does not say
	// whether the profile exists.
	status, data := request(t, app, http.MethodPost, "/api/v1/articles/", tokenB, fiber.Map{
		"profileId": profileA, "title": "a fine title", "content": "body",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	unknownStatus, unknownData := request(t, app, http.MethodPost, "/api/v1/articles/", tokenB, fiber.Map{
		"profileId": "no-such-profile", "title": "a fine title", "content": "body",
	})
	assert.Equal(t, status, unknownStatus)
	assert.Equal(t, data["message"], unknownData["message"])

	// No profileId at all is a 400.
	status, _ = request(t, app, http.MethodPost, "/api/v1/articles/", tokenA, fiber.Map{
		"title": "a fine title", "content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// The query string works as a fallback carrier.
	status, _ = request(t, app, http.MethodPost, "/api/v1/articles/?profileId="+profileA, tokenA, fiber.Map{
		"title": "a fine title", "content": "body",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestArticleAuthorship(t *testing.T) {
	app := setupApp(t)
	token, _ := registerAccount(t, app, "samu@example.com", "Sunrise42")
	profileX := registerPerson(t, app, token, "samu", "perhonen")
	profileY := registerPerson(t, app, token, "liisa", "lintu")

	articleID := createArticle(t, app, token, profileX, "a fine title")

	// Sibling profile under the same account: resolution succeeds but the
	// authorship check refuses the mutation.
	status, _ := request(t, app, http.MethodPut, "/api/v1/articles/"+articleID, token, fiber.Map{
		"profileId": profileY, "title": "hijacked title",
	})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = request(t, app, http.MethodDelete, "/api/v1/articles/"+articleID+"?profileId="+profileY, token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The author can do a partial update.
	status, data := request(t, app, http.MethodPut, "/api/v1/articles/"+articleID, token, fiber.Map{
		"profileId": profileX, "content": "revised content",
	})
	assert.Equal(t, http.StatusOK, status)
	article := data["article"].(map[string]interface{})
	assert.Equal(t, "a fine title", article["title"])
	assert.Equal(t, "revised content", article["content"])

	status, _ = request(t, app, http.MethodPut, "/api/v1/articles/"+articleID, token, fiber.Map{
		"profileId": profileX, "title": "tiny",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCommentsAndArticleCascade(t *testing.T) {
	app := setupApp(t)
	authorToken, _ := registerAccount(t, app, "author@example.com", "Sunrise42")
	readerToken, _ := registerAccount(t, app, "reader@example.com", "Sunrise42")
	authorProfile := registerPerson(t, app, authorToken, "samu", "perhonen")
	readerProfile := registerPerson(t, app, readerToken, "liisa", "lintu")

	articleID := createArticle(t, app, authorToken, authorProfile, "a fine title")

	status, data := request(t, app, http.MethodPost, "/api/v1/articles/"+articleID+"/comments", readerToken, fiber.Map{
		"profileId": readerProfile, "content": "nice read",
	})
	assert.Equal(t, http.StatusCreated, status)
	comment := data["comment"].(map[string]interface{})
	assert.Equal(t, "Liisa LINTU", comment["authorName"])
	commentID := comment["id"].(string)

	// Comments on unknown articles bounce.
	status, _ = request(t, app, http.MethodPost, "/api/v1/articles/no-such-article/comments", readerToken, fiber.Map{
		"profileId": readerProfile, "content": "lost",
	})
	assert.Equal(t, http.StatusNotFound, status)

	// Only the comment's author may delete it.
	status, _ = request(t, app, http.MethodDelete, "/api/v1/articles/comments/"+commentID+"?profileId="+authorProfile, authorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Deleting the article takes its comments with it.
	status, _ = request(t, app, http.MethodDelete, "/api/v1/articles/"+articleID+"?profileId="+authorProfile, authorToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = request(t, app, http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = request(t, app, http.MethodDelete, "/api/v1/articles/comments/"+commentID+"?profileId="+readerProfile, readerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestArticleListPagination(t *testing.T) {
	app := setupApp(t)
	token, _ := registerAccount(t, app, "samu@example.com", "Sunrise42")
	profileID := registerPerson(t, app, token, "samu", "perhonen")

	for i := 0; i < 22; i++ {
		createArticle(t, app, token, profileID, fmt.Sprintf("pagination article %02d", i))
	}

	status, data := request(t, app, http.MethodGet, "/api/v1/articles/?page=2&pageSize=3&author="+profileID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, data["articles"].([]interface{}), 3)
	assert.Equal(t, float64(8), data["maxPage"])

	// Defaults.
	status, data = request(t, app, http.MethodGet, "/api/v1/articles/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, data["articles"].([]interface{}), 10)
	assert.Equal(t, float64(3), data["maxPage"])

	// Past the end.
	status, data = request(t, app, http.MethodGet, "/api/v1/articles/?page=9&pageSize=3", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, data["articles"])
}

func TestProfileDeleteCascade(t *testing.T) {
	app := setupApp(t)
	token, _ := registerAccount(t, app, "samu@example.com", "Sunrise42")
	otherToken, _ := registerAccount(t, app, "other@example.com", "Sunrise42")
	profileID := registerPerson(t, app, token, "samu", "perhonen")
	articleID := createArticle(t, app, token, profileID, "a fine title")

	// Only the owner may delete the profile.
	status, data := request(t, app, http.MethodDelete, "/api/v1/profiles/"+profileID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "you are not the owner of this profile", data["message"])

	status, _ = request(t, app, http.MethodDelete, "/api/v1/profiles/"+profileID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodGet, "/api/v1/profiles/"+profileID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = request(t, app, http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAccountDeleteCascade(t *testing.T) {
	app := setupApp(t)
	token, accountID := registerAccount(t, app, "samu@example.com", "Sunrise42")
	otherToken, otherID := registerAccount(t, app, "other@example.com", "Sunrise42")
	profileID := registerPerson(t, app, token, "samu", "perhonen")
	articleID := createArticle(t, app, token, profileID, "a fine title")

	// Accounts only delete themselves.
	status, _ := request(t, app, http.MethodDelete, "/api/v1/accounts/"+otherID, token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = request(t, app, http.MethodDelete, "/api/v1/accounts/"+accountID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	// Everything under the account is gone, and its token is dead.
	status, _ = request(t, app, http.MethodGet, "/api/v1/profiles/"+profileID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = request(t, app, http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = request(t, app, http.MethodGet, "/api/v1/accounts/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// The freed identities can be registered again.
	status, _ = request(t, app, http.MethodPost, "/api/v1/profiles/", otherToken, fiber.Map{
		"kind": "Person", "firstName": "samu", "lastName": "perhonen",
	})
	assert.Equal(t, http.StatusCreated, status)
}
