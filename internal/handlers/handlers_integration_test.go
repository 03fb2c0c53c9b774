package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"garrison/internal/handlers"
	"garrison/internal/middleware"
	"garrison/internal/models"
	"garrison/internal/repositories"
	"garrison/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// setupApp builds a Fiber app over a fresh in-memory SQLite database with the
// real repositories, services and handlers. enforceAdmin mirrors the
// AUTH_ENFORCE_ADMIN config switch.
func setupApp(enforceAdmin bool) (*fiber.App, *gorm.DB, error) {
	viper.SetDefault("SESSION_TTL_HOURS", 1)
	viper.AutomaticEnv()
	sessionTTL := time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Faction{},
		&models.Session{},
		&models.Post{},
		&models.Statistic{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	factionRepo := repositories.NewGORMFactionRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	statRepo := repositories.NewGORMStatisticRepository(db)

	authService := services.NewAuthService(userRepo, sessionRepo, sessionTTL)
	userService := services.NewUserService(userRepo, nil) // no broker in tests
	factionService := services.NewFactionService(factionRepo, nil)
	forumService := services.NewForumService(postRepo, statRepo)

	authHandler := handlers.NewAuthHandler(authService, userService)
	factionHandler := handlers.NewFactionHandler(factionService)
	forumHandler := handlers.NewForumHandler(forumService)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, PUT, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	api := app.Group("/api")

	var moderationGate []fiber.Handler
	if enforceAdmin {
		moderationGate = append(moderationGate, middleware.AdminRequired(sessionRepo, userRepo))
	}

	authHandler.RegisterRoutes(api, moderationGate...)
	factionHandler.RegisterRoutes(api, moderationGate...)
	forumHandler.RegisterRoutes(api)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	})

	return app, db, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	if len(raw) > 0 {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, username, password, email string) map[string]interface{} {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	regBody := register(t, app, "alice", "s3cret!", "a@x.com")
	assert.Equal(t, true, regBody["success"])
	regUser := regBody["user"].(map[string]interface{})
	assert.Equal(t, "alice", regUser["username"])
	assert.Equal(t, false, regUser["is_admin"])
	assert.Equal(t, "user", regUser["role"])
	regToken := regBody["token"].(string)
	assert.GreaterOrEqual(t, len(regToken), 43)

	// Wrong password
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])

	// Correct password
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice", "password": "s3cret!",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	loginUser := body["user"].(map[string]interface{})
	assert.Equal(t, regUser["id"], loginUser["id"])
	assert.NotEqual(t, regToken, body["token"])
}

func TestLoginEnumerationResistance(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	register(t, app, "bob", "s3cret!", "")

	wrongResp, wrongBody := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "bob", "password": "wrong",
	}, nil)
	ghostResp, ghostBody := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody", "password": "s3cret!",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, ghostResp.StatusCode)
	assert.Equal(t, wrongBody, ghostBody)
}

func TestRegisterValidation(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "", "password": "s3cret!",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username and password required", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "   ", "password": "s3cret!",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username and password required", body["error"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	register(t, app, "carol", "s3cret!", "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "carol", "password": "other",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists", body["error"])
}

func TestListUsers(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	register(t, app, "dave", "s3cret!", "d@x.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/auth/users", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users := body["users"].([]interface{})
	assert.Len(t, users, 1)

	user := users[0].(map[string]interface{})
	assert.Equal(t, "dave", user["username"])
	assert.Equal(t, false, user["is_banned"])
	assert.Equal(t, false, user["is_muted"])
	assert.Contains(t, user, "created_at")
	assert.Contains(t, user, "status")
	assert.Contains(t, user, "avatar_url")
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")
}

func TestUpdateUserWhitelist(t *testing.T) {
	app, db, err := setupApp(false)
	assert.NoError(t, err)

	regBody := register(t, app, "erin", "s3cret!", "")
	userID := regBody["user"].(map[string]interface{})["id"].(string)

	// Mixed payload: password_hash must be ignored, is_banned applied.
	resp, body := doJSON(t, app, http.MethodPut, "/api/auth/user", map[string]interface{}{
		"user_id": userID,
		"updates": map[string]interface{}{
			"is_banned":     true,
			"password_hash": "hijacked",
		},
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	var stored models.User
	assert.NoError(t, db.First(&stored, "id = ?", userID).Error)
	assert.True(t, stored.IsBanned)
	assert.NotEqual(t, "hijacked", stored.PasswordHash)
	assert.True(t, services.CheckPassword("s3cret!", stored.PasswordHash))

	// Banned users cannot log in anymore.
	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "erin", "password": "s3cret!",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User is banned", body["error"])

	// Only non-whitelisted keys: no write, 400.
	resp, body = doJSON(t, app, http.MethodPut, "/api/auth/user", map[string]interface{}{
		"user_id": userID,
		"updates": map[string]interface{}{"password_hash": "x"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No updates provided", body["error"])

	// Missing user_id.
	resp, body = doJSON(t, app, http.MethodPut, "/api/auth/user", map[string]interface{}{
		"updates": map[string]interface{}{"is_banned": false},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User ID required", body["error"])
}

func TestFactionLifecycle(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	// Missing name
	resp, body := doJSON(t, app, http.MethodPost, "/api/factions/create", map[string]interface{}{
		"type": "closed",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Faction name required", body["error"])

	// Create with defaults
	resp, body = doJSON(t, app, http.MethodPost, "/api/factions/create", map[string]interface{}{
		"name": "North Legion",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	factionID := body["id"].(string)
	assert.NotEmpty(t, factionID)

	// Update through the whitelist
	resp, body = doJSON(t, app, http.MethodPut, "/api/factions/update", map[string]interface{}{
		"faction_id": factionID,
		"updates": map[string]interface{}{
			"is_open":          false,
			"general_username": "marshal",
			"created_at":       "1970-01-01", // not whitelisted, dropped
		},
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/factions/list", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	factions := body["factions"].([]interface{})
	assert.Len(t, factions, 1)
	faction := factions[0].(map[string]interface{})
	assert.Equal(t, "North Legion", faction["name"])
	assert.Equal(t, "open", faction["type"])
	assert.Equal(t, false, faction["is_open"])
	assert.Equal(t, "marshal", faction["general_username"])

	// Empty update payload
	resp, body = doJSON(t, app, http.MethodPut, "/api/factions/update", map[string]interface{}{
		"faction_id": factionID,
		"updates":    map[string]interface{}{},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No updates provided", body["error"])
}

func TestForumPostsAndStatistics(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	regBody := register(t, app, "frank", "s3cret!", "")
	authorID := regBody["user"].(map[string]interface{})["id"].(string)

	// Missing content
	resp, body := doJSON(t, app, http.MethodPost, "/api/forum/create", map[string]interface{}{
		"author_id": authorID,
		"title":     "Hello",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Author, title and content required", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/forum/create", map[string]interface{}{
		"author_id": authorID,
		"title":     "Hello",
		"content":   "First post",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/forum/create", map[string]interface{}{
		"author_id": authorID,
		"title":     "I have a complaint",
		"content":   "Details inside",
		"post_type": "complaint",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/forum/posts", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"].([]interface{}), 2)

	resp, body = doJSON(t, app, http.MethodGet, "/api/forum/posts?type=complaint", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	posts := body["posts"].([]interface{})
	assert.Len(t, posts, 1)
	post := posts[0].(map[string]interface{})
	assert.Equal(t, "I have a complaint", post["title"])
	assert.Equal(t, "frank", post["author_username"])

	// Statistics upsert: second write replaces the first.
	resp, body = doJSON(t, app, http.MethodPut, "/api/forum/stats", map[string]string{
		"key": "online_players", "value": "12",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/forum/stats", map[string]string{
		"key": "online_players", "value": "15",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/forum/stats", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stats := body["statistics"].([]interface{})
	assert.Len(t, stats, 1)
	stat := stats[0].(map[string]interface{})
	assert.Equal(t, "online_players", stat["key"])
	assert.Equal(t, "15", stat["value"])

	// Missing value
	resp, body = doJSON(t, app, http.MethodPut, "/api/forum/stats", map[string]string{
		"key": "online_players",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Key and value required", body["error"])
}

func TestAdminGateOnModerationRoutes(t *testing.T) {
	app, db, err := setupApp(true)
	assert.NoError(t, err)

	regBody := register(t, app, "grace", "s3cret!", "")
	userID := regBody["user"].(map[string]interface{})["id"].(string)
	userToken := regBody["token"].(string)

	payload := map[string]interface{}{
		"user_id": userID,
		"updates": map[string]interface{}{"is_admin": true},
	}

	// No token
	resp, body := doJSON(t, app, http.MethodPut, "/api/auth/user", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error"], "Authorization header")

	// Garbage token
	resp, body = doJSON(t, app, http.MethodPut, "/api/auth/user", payload, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired token", body["error"])

	// Valid token, but not an admin: no self-promotion.
	resp, body = doJSON(t, app, http.MethodPut, "/api/auth/user", payload, map[string]string{
		"Authorization": "Bearer " + userToken,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["error"])

	// Promote grace directly in the store, log in again, retry.
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", true).Error)

	resp, loginBody := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "grace", "password": "s3cret!",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	adminToken := loginBody["token"].(string)

	resp, body = doJSON(t, app, http.MethodPut, "/api/auth/user", map[string]interface{}{
		"user_id": userID,
		"updates": map[string]interface{}{"status": "on duty"},
	}, map[string]string{
		"Authorization": "Bearer " + adminToken,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestUnmatchedRouteReturnsNotFound(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	resp, body := doJSON(t, app, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["error"])
}

func TestCORSPreflight(t *testing.T) {
	app, _, err := setupApp(false)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/register", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}
