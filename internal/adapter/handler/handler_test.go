package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/infrastructure/cache"
	"github.com/johnquangdev/meetmind/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meetmind/internal/testutil"
	"github.com/johnquangdev/meetmind/internal/usecase/autojoin"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
	"github.com/johnquangdev/meetmind/pkg/config"
	"github.com/johnquangdev/meetmind/pkg/jwt"
)

const botOutput = "[AUDIO_PATH] /tmp/a.wav\n[SUMMARY] Shipped it\n[KEY_POINTS]\nRelease approved\n[ACTION_ITEMS]\nWrite the changelog\n"

type api struct {
	e         *echo.Echo
	jwt       *jwt.Manager
	meetings  *testutil.MeetingRepo
	summaries *testutil.SummaryRepo
	recorder  *testutil.Recorder
	probe     *testutil.Probe
	sup       *autojoin.Supervisor
	userID    uuid.UUID
	token     string
}

func newAPI(t *testing.T, meetings ...*entities.Meeting) *api {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ledger := cache.NewMemoryLedger(0)

	a := &api{
		e:         echo.New(),
		jwt:       jwt.NewManager("test-secret", time.Hour),
		meetings:  testutil.NewMeetingRepo(meetings...),
		summaries: testutil.NewSummaryRepo(),
		recorder:  testutil.NewRecorder(botOutput),
		probe:     testutil.NewProbe(true, "bot is ready"),
		userID:    uuid.New(),
	}
	store := testutil.NewStore()
	a.sup = autojoin.NewSupervisor(ctx, autojoin.SupervisorConfig{Location: time.UTC},
		a.meetings, a.summaries, a.recorder, store, &testutil.Notifier{}, ledger, nil)

	cfg := &config.Config{
		Server:  config.ServerConfig{Environment: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	router := NewRouter(cfg,
		NewMeetingHandler(meetingUsecase.NewMeetingService(a.meetings, a.sup, a.probe, nil), nil),
		NewSummaryHandler(meetingUsecase.NewSummaryService(a.summaries, a.meetings, store, nil), nil),
		middleware.EchoAuth(a.jwt), nil).
		WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "meetmind_scheduler_ticks_total 1\n")
		})).
		WithReadiness("storage", store.Ping)
	router.Setup(a.e)

	token, err := a.jwt.GenerateAccessToken(a.userID, "owner@example.com", "Owner")
	require.NoError(t, err)
	a.token = token

	t.Cleanup(func() {
		cancel()
		a.sup.Wait()
		_ = ledger.Close()
	})
	return a
}

func (a *api) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func (a *api) ownMeeting(opts ...func(*entities.Meeting)) *entities.Meeting {
	m := testutil.MeetingAt(time.Now().UTC(), opts...)
	m.UserID = a.userID
	_ = a.meetings.Create(context.Background(), m)
	return m
}

func TestCreateAndGetMeeting(t *testing.T) {
	a := newAPI(t)

	rec, body := a.do(t, http.MethodPost, "/v1/meetings",
		`{"title":"Sprint review","date":"2026-10-20","time":"15:00","meeting_link":"https://meet.example/abc","auto_join":true,"send_reminder":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := data(t, body)
	assert.Equal(t, "Sprint review", created["title"])
	assert.Equal(t, "upcoming", created["status"])
	assert.Equal(t, float64(60), created["expected_duration"])

	id, err := uuid.Parse(created["id"].(string))
	require.NoError(t, err)
	stored := a.meetings.Get(id)
	require.NotNil(t, stored)
	assert.Equal(t, a.userID, stored.UserID)
	assert.Equal(t, "owner@example.com", stored.OwnerEmail)

	rec, body = a.do(t, http.MethodGet, "/v1/meetings/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), data(t, body)["id"])

	rec, body = a.do(t, http.MethodGet, "/v1/meetings?status=upcoming", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data(t, body)["meetings"], 1)
}

func TestCreateMeeting_Invalid(t *testing.T) {
	a := newAPI(t)

	rec, body := a.do(t, http.MethodPost, "/v1/meetings", `{"title":"x","date":"tomorrow","time":"15:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(1001), body["code"])

	rec, body = a.do(t, http.MethodPost, "/v1/meetings", `{"title":"x","date":"2026-10-20","time":"15:00","auto_join":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(3003), body["code"])

	rec, body = a.do(t, http.MethodPost, "/v1/meetings", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(1006), body["code"])
}

func TestMeetingRoutes_RequireAuth(t *testing.T) {
	a := newAPI(t)
	a.token = "garbage"

	rec, _ := a.do(t, http.MethodGet, "/v1/meetings", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMeeting_NotFoundAndBadID(t *testing.T) {
	other := testutil.MeetingAt(time.Now())
	a := newAPI(t, other)

	rec, body := a.do(t, http.MethodGet, "/v1/meetings/"+other.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(3001), body["code"])

	rec, _ = a.do(t, http.MethodGet, "/v1/meetings/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteMeeting(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting()

	rec, body := a.do(t, http.MethodPut, "/v1/meetings/"+m.ID.String(), `{"title":"Renamed","status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed", data(t, body)["title"])
	assert.Equal(t, "completed", data(t, body)["status"])

	rec, _ = a.do(t, http.MethodPut, "/v1/meetings/"+m.ID.String(), `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = a.do(t, http.MethodDelete, "/v1/meetings/"+m.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, a.meetings.Get(m.ID))
}

func TestUpdateMeeting_StatusConflict(t *testing.T) {
	a := newAPI(t)
	done := a.ownMeeting(testutil.WithStatus(entities.MeetingStatusCompleted))
	m := a.ownMeeting()

	rec, body := a.do(t, http.MethodPut, "/v1/meetings/"+done.ID.String(), `{"status":"upcoming"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(3002), body["code"])
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "completed", details["current_state"])
	assert.Equal(t, "upcoming", details["requested_state"])
	assert.Equal(t, entities.MeetingStatusCompleted, a.meetings.Get(done.ID).Status)

	rec, body = a.do(t, http.MethodPut, "/v1/meetings/"+m.ID.String(), `{"status":"ongoing"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(3002), body["code"])
	assert.Equal(t, entities.MeetingStatusUpcoming, a.meetings.Get(m.ID).Status)
}

func TestGetMeeting_StoreFailure(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting()
	a.meetings.SetErr(errors.New("database is closed"))

	rec, body := a.do(t, http.MethodGet, "/v1/meetings/"+m.ID.String(), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(1000), body["code"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.Contains(t, body["info"], "database is closed")
}

func TestAutoJoin_ProducesSummary(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting(testutil.WithLink("https://x"), testutil.WithExpectedMinutes(0))

	rec, body := a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", "")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	launched := data(t, body)
	assert.Equal(t, float64(3600), launched["duration_seconds"])
	assert.Equal(t, "60 min", launched["duration"])

	a.sup.Wait()

	rec, body = a.do(t, http.MethodGet, "/v1/meetings/"+m.ID.String()+"/summary", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s := data(t, body)
	assert.Equal(t, "60 min", s["duration"])
	assert.Equal(t, []interface{}{"Release approved"}, s["key_points"])
	assert.Equal(t, float64(1), s["action_item_count"])
	assert.True(t, strings.HasPrefix(s["audio_url"].(string), "https://files.test/audio/meeting_"+m.ID.String()))

	rec, body = a.do(t, http.MethodGet, "/v1/summaries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data(t, body)["summaries"], 1)

	rec, _ = a.do(t, http.MethodGet, "/v1/summaries/"+s["id"].(string), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = a.do(t, http.MethodGet, "/v1/meetings/"+m.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", data(t, body)["status"])
}

func TestAutoJoin_Errors(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting(testutil.WithLink("https://x"))
	noLink := a.ownMeeting()

	rec, body := a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", `{"duration":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(1001), body["code"])

	rec, body = a.do(t, http.MethodPost, "/v1/meetings/"+noLink.ID.String()+"/auto-join", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(3003), body["code"])

	a.probe.Set(false, "missing required file: .env")
	rec, body = a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, float64(4002), body["code"])
	assert.Equal(t, "missing required file: .env", body["details"].(map[string]interface{})["reason"])
}

func TestAutoJoin_DurationClamped(t *testing.T) {
	a := newAPI(t)
	short := a.ownMeeting(testutil.WithLink("https://x"))
	long := a.ownMeeting(testutil.WithLink("https://x"))

	rec, body := a.do(t, http.MethodPost, "/v1/meetings/"+short.ID.String()+"/auto-join", `{"duration":10}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, float64(300), data(t, body)["duration_seconds"])
	assert.Equal(t, "5 min", data(t, body)["duration"])

	rec, body = a.do(t, http.MethodPost, "/v1/meetings/"+long.ID.String()+"/auto-join", `{"duration":99999}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, float64(7200), data(t, body)["duration_seconds"])

	a.sup.Wait()
}

func TestAutoJoin_StatusWriteFailure(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting(testutil.WithLink("https://x"))
	a.meetings.TransitionErr = errors.New("connection reset by peer")

	rec, body := a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(4003), body["code"])
	assert.Equal(t, m.ID.String(), body["details"].(map[string]interface{})["meeting_id"])
	assert.Empty(t, a.recorder.Requests())
}

func TestAutoJoin_ConflictWhileRecording(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting(testutil.WithLink("https://x"))
	run, release := testutil.BlockingRun(botOutput)
	t.Cleanup(release)
	a.recorder.RunFunc = run

	rec, _ := a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", `{"duration":600}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec, body := a.do(t, http.MethodPost, "/v1/meetings/"+m.ID.String()+"/auto-join", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(4001), body["code"])

	rec, body = a.do(t, http.MethodGet, "/v1/meetings/bot/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := data(t, body)
	assert.Equal(t, true, status["ready"])
	running := status["running"].([]interface{})
	require.Len(t, running, 1)
	assert.Equal(t, float64(600), running[0].(map[string]interface{})["duration_seconds"])

	rec, _ = a.do(t, http.MethodDelete, "/v1/meetings/"+m.ID.String(), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	release()
	a.sup.Wait()
}

func TestSummary_NotFound(t *testing.T) {
	a := newAPI(t)
	m := a.ownMeeting()

	rec, body := a.do(t, http.MethodGet, "/v1/meetings/"+m.ID.String()+"/summary", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(5001), body["code"])

	rec, _ = a.do(t, http.MethodGet, "/v1/summaries/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	rec, body := a.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])

	rec, body = a.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ready"])

	rec, _ = a.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meetmind_scheduler_ticks_total")
}

func TestReadiness_Failing(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	e := echo.New()
	NewRouter(cfg, nil, nil, nil, nil).
		WithReadiness("database", func(context.Context) error { return errors.New("connection refused") }).
		Setup(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
