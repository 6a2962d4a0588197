package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/games-api/internal/app/games"
	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
	"github.com/preston-bernstein/games-api/internal/store"
	"github.com/preston-bernstein/games-api/internal/teststubs"
	"github.com/preston-bernstein/games-api/internal/testutil"
)

func newTestHandler(g []domaingames.Game, developers ...string) *Handler {
	return NewHandler(testutil.NewServiceWithGames(g, developers...), nil, nil)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(nil)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReady(t *testing.T) {
	ready := false
	h := NewHandler(testutil.NewServiceWithGames(nil), nil, func() bool { return ready })

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	ready = true
	rr = testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(newTestHandler(nil), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestCreateGameReturnsLocation(t *testing.T) {
	h := newTestHandler(nil, "Acme")

	req := testutil.NewDeveloperRequest(http.MethodPost, "/games", testutil.SampleGameJSON, "Acme")
	rr := testutil.ServeRequest(h, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "/games/") || len(loc) <= len("/games/") {
		t.Fatalf("unexpected Location %q", loc)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}

	got := testutil.Serve(h, http.MethodGet, loc, nil)
	testutil.AssertStatus(t, got, http.StatusOK)
	var game domaingames.Game
	testutil.DecodeJSON(t, got, &game)
	if game.Title != "Rocket Race" || game.Developer != "Acme" || game.ReleaseDate.String() != "2021-03-04" {
		t.Fatalf("unexpected stored game %+v", game)
	}
	if "/games/"+game.ID != loc {
		t.Fatalf("expected id %q to match Location %q", game.ID, loc)
	}
}

func TestCreateGameRejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		developer string
		want      int
		wantBody  string
	}{
		{"unlisted developer", `{"title":"X","developer":"Other"}`, "Other", http.StatusUnauthorized, ""},
		{"header differs from game developer", testutil.SampleGameJSON, "Rival", http.StatusUnauthorized, ""},
		{"missing header", testutil.SampleGameJSON, "", http.StatusUnauthorized, ""},
		{"missing title", `{"developer":"Acme"}`, "Acme", http.StatusBadRequest, "Game must have a title"},
		{"missing developer field", `{"title":"X"}`, "Acme", http.StatusBadRequest, "Game must have a developer"},
		{"malformed json", `{"title":`, "Acme", http.StatusBadRequest, "invalid request body"},
		{"empty body", ``, "Acme", http.StatusBadRequest, "request body is empty"},
		{"bad release date", `{"title":"X","developer":"Acme","release_date":"04/03/2021"}`, "Acme", http.StatusBadRequest, "YYYY-MM-DD"},
		{"trailing data", testutil.SampleGameJSON + `{}`, "Acme", http.StatusBadRequest, "single JSON object"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(nil, "Acme", "Rival")
			req := testutil.NewDeveloperRequest(http.MethodPost, "/games", tc.body, tc.developer)
			rr := testutil.ServeRequest(h, req)
			testutil.AssertStatus(t, rr, tc.want)
			if tc.wantBody == "" {
				if rr.Body.Len() != 0 {
					t.Fatalf("expected empty body, got %q", rr.Body.String())
				}
				return
			}
			if !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tc.wantBody, rr.Body.String())
			}
			if rr.Header().Get("Location") != "" {
				t.Fatalf("expected no Location on failure")
			}
		})
	}
}

func TestCreateGameBodyTooLarge(t *testing.T) {
	h := newTestHandler(nil, "Acme")
	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `","developer":"Acme"}`
	rr := testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPost, "/games", body, "Acme"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if !strings.Contains(rr.Body.String(), "exceeds") {
		t.Fatalf("expected size error, got %s", rr.Body.String())
	}
}

func TestCreateGameDirectoryFailureIsServerError(t *testing.T) {
	dir := &teststubs.StubDirectory{Err: errors.New("bucket unreachable")}
	svc := games.NewService(store.NewMemoryStore(), dir, 0)
	logger, buf := testutil.NewBufferLogger()
	h := NewHandler(svc, logger, nil)

	rr := testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPost, "/games", testutil.SampleGameJSON, "Acme"))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	if !strings.Contains(buf.String(), "bucket unreachable") {
		t.Fatalf("expected failure logged, got %s", buf.String())
	}
}

func TestGetGame(t *testing.T) {
	h := newTestHandler([]domaingames.Game{testutil.SampleGame("g1", "Acme")})

	rr := testutil.Serve(h, http.MethodGet, "/games/g1", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	var body map[string]any
	testutil.DecodeJSON(t, rr, &body)
	for _, field := range []string{"id", "title", "release_date", "genres", "developer"} {
		if _, ok := body[field]; !ok {
			t.Fatalf("expected field %q in %v", field, body)
		}
	}

	rr = testutil.Serve(h, http.MethodGet, "/games/missing", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty 404 body, got %q", rr.Body.String())
	}
}

func TestGameInvalidIDs(t *testing.T) {
	h := newTestHandler(nil)
	for _, target := range []string{"/games/", "/games/a/b", "/games/a%2Fb"} {
		rr := testutil.Serve(http.HandlerFunc(h.Game), http.MethodGet, target, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestGameIDWithEscapedPercent(t *testing.T) {
	h := newTestHandler([]domaingames.Game{testutil.SampleGame("100%", "Acme")})

	rr := testutil.Serve(h, http.MethodGet, "/games/100%25", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var game domaingames.Game
	testutil.DecodeJSON(t, rr, &game)
	if game.ID != "100%" {
		t.Fatalf("expected id 100%%, got %q", game.ID)
	}

	rr = testutil.Serve(h, http.MethodGet, "/games/200%25", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestListGames(t *testing.T) {
	var seed []domaingames.Game
	for _, id := range []string{"a", "b", "c"} {
		seed = append(seed, testutil.SampleGame(id, "Acme"))
	}
	h := newTestHandler(seed)

	rr := testutil.Serve(h, http.MethodGet, "/games?start-index=0&items-per-page=2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var page domaingames.Page
	testutil.DecodeJSON(t, rr, &page)
	if page.ItemsPerPage != 2 || page.StartIndex != 0 || page.TotalResults != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected first page %+v", page)
	}
	if page.Items[0].ID != "a" || page.Items[1].ID != "b" {
		t.Fatalf("expected creation order, got %+v", page.Items)
	}

	rr = testutil.Serve(h, http.MethodGet, "/games?start-index=1&items-per-page=2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	page = domaingames.Page{}
	testutil.DecodeJSON(t, rr, &page)
	if len(page.Items) != 1 || page.Items[0].ID != "c" || page.StartIndex != 1 {
		t.Fatalf("unexpected second page %+v", page)
	}

	rr = testutil.Serve(h, http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	page = domaingames.Page{}
	testutil.DecodeJSON(t, rr, &page)
	if page.ItemsPerPage != games.DefaultItemsPerPage || len(page.Items) != 3 {
		t.Fatalf("expected defaults applied, got %+v", page)
	}
}

func TestListGamesEmptyAndPastEnd(t *testing.T) {
	rr := testutil.Serve(newTestHandler(nil), http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	h := newTestHandler([]domaingames.Game{testutil.SampleGame("a", "Acme")})
	rr = testutil.Serve(h, http.MethodGet, "/games?start-index=5", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestListGamesInvalidPaging(t *testing.T) {
	h := newTestHandler(nil)
	rr := testutil.Serve(h, http.MethodGet, "/games?start-index=-1&items-per-page=abc", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	var body map[string][]string
	testutil.DecodeJSON(t, rr, &body)
	if len(body["errors"]) != 2 {
		t.Fatalf("expected two paging errors, got %+v", body)
	}
}

func TestUpdateGame(t *testing.T) {
	h := newTestHandler([]domaingames.Game{testutil.SampleGame("g1", "Acme")})

	body := `{"id":"ignored","title":"Renamed","developer":"Acme","genres":["Puzzle"]}`
	rr := testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPut, "/games/g1", body, "acme"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	got := testutil.Serve(h, http.MethodGet, "/games/g1", nil)
	var game domaingames.Game
	testutil.DecodeJSON(t, got, &game)
	if game.ID != "g1" || game.Title != "Renamed" || len(game.Genres) != 1 {
		t.Fatalf("unexpected updated game %+v", game)
	}

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPut, "/games/g1", body, "Rival"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPut, "/games/missing", body, "Acme"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPut, "/games/g1", `{"developer":"Acme"}`, "Acme"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestDeleteGame(t *testing.T) {
	h := newTestHandler([]domaingames.Game{testutil.SampleGame("g1", "Acme")})

	rr := testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodDelete, "/games/g1", "", "Rival"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodDelete, "/games/g1", "", "Acme"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.Serve(h, http.MethodGet, "/games/g1", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodDelete, "/games/g1", "", "Acme"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestStoreFailureIsServerError(t *testing.T) {
	svc := games.NewService(teststubs.ErrStore{Err: errors.New("db down")}, teststubs.Authorised("Acme"), 0)
	h := NewHandler(svc, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/games/g1", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)

	rr = testutil.Serve(h, http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)

	rr = testutil.ServeRequest(h, testutil.NewDeveloperRequest(http.MethodPost, "/games", testutil.SampleGameJSON, "Acme"))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(nil)
	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{http.MethodPost, "/health", "GET"},
		{http.MethodPost, "/ready", "GET"},
		{http.MethodDelete, "/games", "GET, POST"},
		{http.MethodPost, "/games/g1", "GET, PUT, DELETE"},
	}
	for _, tc := range tests {
		rr := testutil.Serve(h, tc.method, tc.path, nil)
		testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
		if got := rr.Header().Get("Allow"); got != tc.allow {
			t.Fatalf("%s %s: expected Allow %q, got %q", tc.method, tc.path, tc.allow, got)
		}
	}
}

func TestUnknownPath(t *testing.T) {
	rr := testutil.Serve(newTestHandler(nil), http.MethodGet, "/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
