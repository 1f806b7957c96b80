package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/infrastructure/repository/memory"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
	"github.com/willowlytics/cricketstats/internal/usecase"
)

type fixedIDGenerator struct {
	next int
}

func (g *fixedIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type apiFixtures struct {
	matches *memory.MatchRepository
	perfs   *memory.PerformanceRepository
	router  http.Handler
}

func newAPIFixtures() apiFixtures {
	matches := memory.NewMatchRepository()
	perfs := memory.NewPerformanceRepository()
	logger := logging.NewNop()

	ids := &fixedIDGenerator{}
	resolver := usecase.NewEntityResolver(
		memory.NewTeamRepository(),
		memory.NewVenueRepository(),
		memory.NewPlayerRepository(),
		ids,
		logger,
	)
	normalizer := usecase.NewMatchNormalizer(resolver, ids, logger)
	reports := memory.NewAnalyticsRepository()

	handler := NewHandler(
		usecase.NewStatsService(matches, perfs, reports, nil, logger),
		usecase.NewFormService(perfs, 0, logger),
		usecase.NewCollapseService(matches, perfs, reports, 3, logger),
		usecase.NewMatchService(matches),
		usecase.NewIngestionCoordinator(normalizer, matches, perfs, reports, nil, 1, logger),
		logger,
	)

	return apiFixtures{
		matches: matches,
		perfs:   perfs,
		router:  NewRouter(handler, logger),
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	f := newAPIFixtures()

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_GetPlayerBattingStats(t *testing.T) {
	f := newAPIFixtures()
	err := f.perfs.ReplaceForMatch(t.Context(), "m1", []performance.Performance{
		{MatchID: "m1", TeamID: "t1", BatterID: "p1", Runs: 25, TotalRuns: 25},
		{MatchID: "m1", TeamID: "t1", BatterID: "p1", Runs: 25, TotalRuns: 25},
	})
	if err != nil {
		t.Fatalf("seed performances: %v", err)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/p1/batting", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["runs"].(float64); got != 50 {
		t.Fatalf("unexpected runs: got=%v want=50", data["runs"])
	}
	if got, _ := data["average"].(float64); got != 50 {
		t.Fatalf("unexpected average: got=%v want=50", data["average"])
	}
}

func TestRouter_GetMatch(t *testing.T) {
	f := newAPIFixtures()

	t.Run("existing match", func(t *testing.T) {
		doc := match.Match{
			ID:      "1001",
			Date:    time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
			Format:  match.FormatT20,
			VenueID: "v1",
			Teams: []match.TeamInMatch{
				{TeamID: "t1"},
				{TeamID: "t2"},
			},
		}
		if err := f.matches.Upsert(t.Context(), doc); err != nil {
			t.Fatalf("seed match: %v", err)
		}

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/1001", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		data, _ := body["data"].(map[string]any)
		if got, _ := data["id"].(string); got != "1001" {
			t.Fatalf("unexpected match id: %v", data["id"])
		}
		if got, _ := data["format"].(string); got != match.FormatT20 {
			t.Fatalf("unexpected format: %v", data["format"])
		}
	})

	t.Run("unknown match is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/ghost", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		errorObj, _ := body["error"].(map[string]any)
		if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
			t.Fatalf("unexpected error status: %v", errorObj["status"])
		}
	})
}

func TestRouter_GetPlayerForm_RejectsBadWindow(t *testing.T) {
	f := newAPIFixtures()

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/p1/form?last=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_RunIngestion_ValidatesBody(t *testing.T) {
	f := newAPIFixtures()

	t.Run("empty path list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/ingestions", strings.NewReader(`{"paths": []}`))
		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/ingestions", strings.NewReader(`{`))
		f.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestRouter_GetMatchCollapses(t *testing.T) {
	f := newAPIFixtures()

	doc := match.Match{
		ID:      "2002",
		Date:    time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Format:  match.FormatODI,
		VenueID: "v1",
		Teams:   []match.TeamInMatch{{TeamID: "t1"}, {TeamID: "t2"}},
	}
	if err := f.matches.Upsert(t.Context(), doc); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	wicket := performance.Wicket{PlayerOutID: "p9", Kind: "bowled"}
	err := f.perfs.ReplaceForMatch(t.Context(), "2002", []performance.Performance{
		{MatchID: "2002", TeamID: "t1", Over: 3, Wickets: []performance.Wicket{wicket}},
		{MatchID: "2002", TeamID: "t1", Over: 3, Wickets: []performance.Wicket{wicket}},
		{MatchID: "2002", TeamID: "t1", Over: 4, Wickets: []performance.Wicket{wicket}},
	})
	if err != nil {
		t.Fatalf("seed performances: %v", err)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analytics/collapses/2002", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	collapses, _ := data["collapses"].([]any)
	if len(collapses) != 1 {
		t.Fatalf("unexpected collapse count: got=%d want=1", len(collapses))
	}
}
