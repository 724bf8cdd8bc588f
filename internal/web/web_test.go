package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlanend/internal/model"
	"atlanend/internal/query"
	"atlanend/internal/storage"
	"atlanend/internal/store"
)

var fixedNow = time.Date(2026, 10, 21, 10, 30, 0, 0, time.UTC)

func testCatalog() []model.Activity {
	mk := func(id, title string, c model.Category, d model.Difficulty, tags ...string) model.Activity {
		if tags == nil {
			tags = []string{}
		}
		return model.Activity{
			ID: id, Title: title, Description: title + " time",
			Category: c, Duration: 60, Difficulty: d, Cost: model.CostFree, Tags: tags,
		}
	}
	return []model.Activity{
		mk("hike", "Hike", model.CategoryOutdoor, model.DifficultyHard, "adventure"),
		mk("games", "Board Games", model.CategoryIndoor, model.DifficultyEasy, "friends"),
		mk("brunch", "Brunch", model.CategoryFood, model.DifficultyEasy),
		mk("yoga", "Yoga", model.CategoryWellness, model.DifficultyEasy, "wellness"),
	}
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New(testCatalog(), storage.NewMemoryStorage(), store.WithClock(func() time.Time { return fixedNow }))
	return NewServer(st, Options{Location: time.UTC, Now: func() time.Time { return fixedNow }}), st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestState(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeBody[store.State](t, rec)
	assert.Len(t, st.Activities, 4)
	assert.Equal(t, model.CategoryAll, st.SelectedCategory)
	assert.Equal(t, model.ThemeBalanced, st.CurrentTheme)
	assert.Equal(t, model.ViewBrowse, st.CurrentView)
}

func TestFilter(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/filter", `{"category":"indoor"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[activitiesResponse](t, rec)
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "games", resp.Activities[0].ID)

	rec = do(t, s, http.MethodPut, "/api/filter", `{"category":"all","search":"BRUNCH"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[activitiesResponse](t, rec)
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "BRUNCH", st.SearchQuery())

	rec = do(t, s, http.MethodGet, "/api/activities/counts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	counts := decodeBody[map[model.Category]int](t, rec)
	assert.Equal(t, 1, counts[model.CategoryFood])
	assert.Equal(t, 1, counts[model.CategoryAll])
	assert.Equal(t, 0, counts[model.CategoryOutdoor])
}

func TestFilter_BadPayload(t *testing.T) {
	s, st := newTestServer(t)

	for _, body := range []string{`{"category":"sports"}`, `{"bogus":1}`, `not json`, ``} {
		rec := do(t, s, http.MethodPut, "/api/filter", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
	assert.Equal(t, model.CategoryAll, st.SelectedCategory())
}

func TestToggle(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/activities/hike/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	a := decodeBody[model.Activity](t, rec)
	assert.True(t, a.IsSelected)
	assert.Equal(t, []string{"hike"}, st.SelectedIDs())

	rec = do(t, s, http.MethodPost, "/api/activities/nope/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[errorResponse](t, rec)
	require.NotNil(t, resp.State)
	assert.Len(t, resp.State.Activities, 4)
}

func TestScheduleLifecycle(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"hike"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"brunch"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/schedule/sunday", `{"activityId":"hike"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"hike"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/monday", `{"activityId":"hike"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPatch, "/api/schedule/saturday/hike", `{"scheduledTime":"morning","notes":"early start"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sched := decodeBody[model.Schedule](t, rec)
	assert.Equal(t, model.SlotMorning, sched.Saturday[0].ScheduledTime)
	assert.Equal(t, "early start", sched.Saturday[0].Notes)
	assert.Equal(t, model.SlotNone, sched.Sunday[0].ScheduledTime)

	rec = do(t, s, http.MethodPatch, "/api/schedule/saturday/hike", `{"scheduledTime":"midnight"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPatch, "/api/schedule/sunday/brunch", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday/reorder", `{"from":1,"to":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"brunch", "hike"}, dayIDs(st.Schedule().Saturday))

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday/reorder", `{"activityId":"brunch","overId":"hike"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"hike", "brunch"}, dayIDs(st.Schedule().Saturday))

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday/reorder", `{"from":0,"to":9}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"hike", "brunch"}, dayIDs(st.Schedule().Saturday))

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday/reorder", `{"activityId":"brunch"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/schedule/saturday/reorder", `{"from":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/schedule/saturday/hike", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"brunch"}, dayIDs(st.Schedule().Saturday))
	assert.Equal(t, []string{"hike"}, dayIDs(st.Schedule().Sunday))

	rec = do(t, s, http.MethodDelete, "/api/schedule/saturday/hike", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, st.Schedule().Empty())
}

func dayIDs(items []model.ScheduledActivity) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestThemes(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[themesResponse](t, rec)
	assert.Len(t, resp.Themes, 6)
	assert.Equal(t, model.ThemeBalanced, resp.Current)

	rec = do(t, s, http.MethodPut, "/api/theme", `{"theme":"wellness"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ThemeWellness, st.CurrentTheme())
	assert.True(t, st.Schedule().Empty(), "setting a theme does not touch the schedule")

	rec = do(t, s, http.MethodPut, "/api/theme", `{"theme":"chaotic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ThemeWellness, st.CurrentTheme())

	rec = do(t, s, http.MethodPost, "/api/theme/apply", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, st.Schedule().Empty())
}

func TestView(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/view", `{"view":"schedule"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ViewSchedule, st.CurrentView())

	rec = do(t, s, http.MethodPut, "/api/view", `{"view":"gallery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s, st := newTestServer(t)
	require.True(t, st.AddActivityToSchedule("hike", model.Saturday))

	rec := do(t, s, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=atlanend-schedule-2026-10-21.json", rec.Header().Get("Content-Disposition"))

	doc := decodeBody[store.Export](t, rec)
	assert.Equal(t, model.ThemeBalanced, doc.Theme)
	assert.Equal(t, "2026-10-21T10:30:00.000Z", doc.ExportDate)
	require.Len(t, doc.Schedule.Saturday, 1)
}

func TestExportICS(t *testing.T) {
	s, st := newTestServer(t)
	require.True(t, st.AddActivityToSchedule("hike", model.Saturday))
	require.True(t, st.AddActivityToSchedule("yoga", model.Sunday))

	rec := do(t, s, http.MethodGet, "/api/export.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "atlanend-weekend-2026-10-24.ics")

	cal, err := ical.ParseCalendar(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 2)
}

func TestShare(t *testing.T) {
	s, st := newTestServer(t)
	require.True(t, st.AddActivityToSchedule("brunch", model.Sunday))

	rec := do(t, s, http.MethodGet, "/api/share", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, st.ShareText(), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "• Brunch")
}

func TestAgenda(t *testing.T) {
	s, st := newTestServer(t)
	require.True(t, st.AddActivityToSchedule("hike", model.Saturday))
	st.UpdateScheduledActivity("hike", model.Saturday, store.ScheduledUpdate{Notes: ptr("<b>bring snacks</b>")})

	rec := do(t, s, http.MethodGet, "/agenda", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-ready="true"`)
	assert.Contains(t, body, "Hike")
	assert.Contains(t, body, "Oct 24")
	assert.Contains(t, body, "&lt;b&gt;bring snacks&lt;/b&gt;")
	assert.Contains(t, body, "No activities planned")
	assert.Contains(t, body, `data-total-minutes="60"`)
	assert.Contains(t, body, "1 activities · 1h 0m planned")
	assert.Contains(t, body, "0h 0m")
}

func TestSummary(t *testing.T) {
	s, st := newTestServer(t)
	st.ToggleActivitySelection("yoga")
	require.True(t, st.AddActivityToSchedule("hike", model.Saturday))
	require.True(t, st.AddActivityToSchedule("brunch", model.Saturday))
	require.True(t, st.AddActivityToSchedule("yoga", model.Sunday))

	rec := do(t, s, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decodeBody[query.Summary](t, rec)
	assert.Equal(t, query.DayTotals{Activities: 2, TotalMinutes: 120, Hours: 2}, sum.Saturday)
	assert.Equal(t, 60, sum.Sunday.TotalMinutes)
	assert.Equal(t, 3, sum.Weekend.Activities)
	assert.Equal(t, 3, sum.ScheduledCount)
	assert.Equal(t, 1, sum.SelectedCount)
	assert.Equal(t, model.ThemeBalanced, sum.Theme)
}

func TestAvailable(t *testing.T) {
	s, st := newTestServer(t)
	st.ToggleActivitySelection("hike")
	st.ToggleActivitySelection("games")
	require.True(t, st.AddActivityToSchedule("hike", model.Saturday))

	ids := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, a := range decodeBody[[]model.Activity](t, rec) {
			out = append(out, a.ID)
		}
		return out
	}

	rec := do(t, s, http.MethodGet, "/api/schedule/saturday/available", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"games"}, ids(rec))

	rec = do(t, s, http.MethodGet, "/api/schedule/sunday/available", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"hike", "games"}, ids(rec))

	do(t, s, http.MethodPut, "/api/filter", `{"category":"indoor"}`)
	rec = do(t, s, http.MethodGet, "/api/schedule/sunday/available", "")
	assert.Equal(t, []string{"games"}, ids(rec))

	rec = do(t, s, http.MethodGet, "/api/schedule/friday/available", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/state", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func ptr[T any](v T) *T { return &v }

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"hike"}`)
	do(t, s, http.MethodPost, "/api/schedule/saturday", `{"activityId":"hike"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `atlanend_planner_mutations_total{op="add",result="applied"} 1`)
	assert.Contains(t, body, `atlanend_planner_mutations_total{op="add",result="ignored"} 1`)
	assert.Contains(t, body, `atlanend_http_requests_total{method="POST",route="/api/schedule/{day}",status="201"} 1`)
}

func TestCORS(t *testing.T) {
	st := store.New(testCatalog(), storage.NewMemoryStorage())
	s := NewServer(st, Options{Location: time.UTC, CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/theme", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	plain, _ := newTestServer(t)
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	plain.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
