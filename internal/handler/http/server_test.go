package http

import (
	"ChannelTrack-Backend/internal/auth"
	"ChannelTrack-Backend/internal/config"
	"ChannelTrack-Backend/internal/domain"
	"ChannelTrack-Backend/internal/repository/memory"
	"ChannelTrack-Backend/internal/service"
	"ChannelTrack-Backend/pkg/useragent"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	testBotToken  = "bot-secret"
	testChannelID = int64(-1001234567890)
	testAdminID   = int64(777)
)

type testEnv struct {
	handler http.Handler
	store   *memory.MemStorage
	jwt     *auth.JWTService
	links   *service.LinkService
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	store := memory.New()
	trackingCfg := &config.Tracking{BaseURL: "https://trk.example.com/", DailyWindowDays: 30, MaxDailyWindowDays: 365}

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:     []byte("test-secret"),
		TokenDuration: time.Hour,
		Issuer:        "ChannelTrack-Backend",
	})

	links := service.NewLinkService(store, trackingCfg, nil, log)
	channels := service.NewChannelService(store, log)
	require.NoError(t, channels.RegisterChannel(context.Background(),
		&domain.Channel{ID: testChannelID, Title: gofakeit.Company()}, testAdminID))

	srv := NewServer(Deps{
		Storage:        store,
		Tracker:        service.NewTracker(store, useragent.NewFallback(log), nil, log),
		Links:          links,
		Stats:          service.NewStatsService(store, trackingCfg),
		Channels:       channels,
		AuthMiddleware: auth.NewMiddleware(jwtService, testBotToken, log),
		Log:            log,
	})

	return &testEnv{handler: srv.SetupRoutes(), store: store, jwt: jwtService, links: links}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) bearer(t *testing.T, userID int64) map[string]string {
	t.Helper()
	token, err := e.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func botHeaders() map[string]string {
	return map[string]string{auth.BotTokenHeader: testBotToken}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) createLink(t *testing.T, source string) *domain.TrackingLink {
	t.Helper()
	link, err := e.links.CreateLink(context.Background(), service.CreateLinkInput{
		ChannelID: testChannelID,
		TargetURL: "https://t.me/example_channel",
		Campaign:  domain.Campaign{Source: &source},
	})
	require.NoError(t, err)
	return link
}

func TestHealth(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["database_status"])

	rec = env.do(t, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedirect(t *testing.T) {
	env := setupServer(t)
	link := env.createLink(t, "vk")

	t.Run("known hash", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/t/"+link.LinkHash+"?user_id=42", nil, map[string]string{
			"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148",
		})
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, link.TargetURL, rec.Header().Get("Location"))

		totals, err := env.store.LinkClickTotals(context.Background(), link.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totals.TotalClicks)
		assert.Equal(t, int64(1), totals.UniqueUsers)
	})

	t.Run("malformed user id still redirects", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/t/"+link.LinkHash+"?user_id=abc", nil, nil)
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("unknown hash", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/t/doesnotexist", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "link not found", body["error"])
	})
}

func TestTrackAPI(t *testing.T) {
	env := setupServer(t)
	link := env.createLink(t, "vk")

	rec := env.do(t, http.MethodPost, "/api/track/"+link.LinkHash, map[string]int64{"user_id": 42}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(link.ID), body["link_id"])
	assert.Equal(t, float64(testChannelID), body["channel_id"])
	assert.NotZero(t, body["click_id"])
	campaign := body["campaign"].(map[string]interface{})
	assert.Equal(t, "vk", campaign["utm_source"])

	// без тела
	rec = env.do(t, http.MethodPost, "/api/track/"+link.LinkHash, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/track/"+link.LinkHash, map[string]int64{"user_id": -1}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBotRoutes(t *testing.T) {
	env := setupServer(t)
	link := env.createLink(t, "vk")

	rec := env.do(t, http.MethodPost, "/api/track/"+link.LinkHash, map[string]int64{"user_id": 42}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	clickID := int64(decodeBody(t, rec)["click_id"].(float64))

	t.Run("rejects missing bot token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bot/conversions",
			map[string]int64{"click_id": clickID, "user_id": 42, "channel_id": testChannelID}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("conversion", func(t *testing.T) {
		req := map[string]int64{"click_id": clickID, "user_id": 42, "channel_id": testChannelID}

		rec := env.do(t, http.MethodPost, "/api/bot/conversions", req, botHeaders())
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["attributed"])
		assert.Equal(t, true, body["subscriber_created"])

		rec = env.do(t, http.MethodPost, "/api/bot/conversions", req, botHeaders())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["subscriber_created"])
	})

	t.Run("conversion validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bot/conversions",
			map[string]int64{"user_id": 42, "channel_id": testChannelID}, botHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "ClickID")
	})

	t.Run("unsubscribe and rejoin", func(t *testing.T) {
		req := map[string]int64{"channel_id": testChannelID, "user_id": 42}

		rec := env.do(t, http.MethodPost, "/api/bot/unsubscriptions", req, botHeaders())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["changed"])

		rec = env.do(t, http.MethodPost, "/api/bot/unsubscriptions", req, botHeaders())
		assert.Equal(t, false, decodeBody(t, rec)["changed"])

		rec = env.do(t, http.MethodPost, "/api/bot/joins", req, botHeaders())
		assert.Equal(t, http.StatusOK, rec.Code)

		totals, err := env.store.ChannelTotals(context.Background(), testChannelID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totals.ActiveSubscribers)
		assert.Equal(t, int64(1), totals.TrackedSubscribers)
	})

	t.Run("register channel", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bot/channels", map[string]interface{}{
			"channel_id":    -100555,
			"title":         "News",
			"username":      "@news",
			"admin_user_id": 9,
		}, botHeaders())
		assert.Equal(t, http.StatusCreated, rec.Code)

		ok, err := env.store.IsChannelAdmin(context.Background(), -100555, 9)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMarketerRoutes(t *testing.T) {
	env := setupServer(t)
	admin := env.bearer(t, testAdminID)
	base := fmt.Sprintf("/api/channels/%d", testChannelID)

	t.Run("requires token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/links", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/stats", nil, env.bearer(t, 1))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	var linkID int64
	var hash string
	t.Run("create link", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/links", map[string]string{
			"target_url": "https://t.me/example_channel",
			"utm_source": "vk",
			"utm_medium": "cpc",
		}, admin)
		require.Equal(t, http.StatusCreated, rec.Code)

		link := decodeBody(t, rec)["link"].(map[string]interface{})
		linkID = int64(link["id"].(float64))
		hash = link["link_hash"].(string)
		assert.Equal(t, "https://trk.example.com/t/"+hash, link["tracking_url"])
		assert.Equal(t, true, link["is_active"])
	})

	t.Run("create link validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/links", map[string]string{"target_url": "not a url"}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list links", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/links", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody(t, rec)["links"], 1)
	})

	t.Run("stats", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/track/"+hash, map[string]int64{"user_id": 42}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/links/%d/stats", linkID), nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), decodeBody(t, rec)["total_clicks"])

		rec = env.do(t, http.MethodGet, base+"/stats", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["total_links"])
		sources := body["sources"].([]interface{})
		require.Len(t, sources, 1)
		assert.Equal(t, "vk", sources[0].(map[string]interface{})["source"])

		rec = env.do(t, http.MethodGet, base+"/stats/daily?days=7", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		body = decodeBody(t, rec)
		assert.Equal(t, float64(7), body["days"])
		assert.Len(t, body["stats"], 1)

		rec = env.do(t, http.MethodGet, base+"/stats/daily?days=week", nil, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base+"/stats/daily/export", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "daily_30d.xlsx")

		xl, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer xl.Close()
		rows, err := xl.GetRows("daily")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("toggle link", func(t *testing.T) {
		path := fmt.Sprintf("/api/links/%d", linkID)

		rec := env.do(t, http.MethodPatch, path, map[string]bool{"is_active": false}, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, decodeBody(t, rec)["link"].(map[string]interface{})["is_active"])

		rec = env.do(t, http.MethodGet, "/t/"+hash, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodPatch, path, map[string]interface{}{}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodPatch, path, map[string]bool{"is_active": true}, env.bearer(t, 1))
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodPatch, "/api/links/999999", map[string]bool{"is_active": true}, admin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
