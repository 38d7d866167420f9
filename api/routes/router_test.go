package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	redislib "github.com/redis/go-redis/v9"

	"github.com/foguel/delivery-backend/api/controllers"
	"github.com/foguel/delivery-backend/internal/deliveries"
	routesvc "github.com/foguel/delivery-backend/internal/routes"
	pkgAuth "github.com/foguel/delivery-backend/pkg/auth"
	"github.com/foguel/delivery-backend/pkg/auth/session"
	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/metrics"
	"github.com/foguel/delivery-backend/pkg/outbox"
	redisclient "github.com/foguel/delivery-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubRoutes struct {
	routesvc.Service
}

func (stubRoutes) Recent(context.Context, int) ([]routesvc.RecentItem, error) {
	return []routesvc.RecentItem{}, nil
}

func (stubRoutes) Board(context.Context) (*routesvc.Board, error) {
	return &routesvc.Board{Future: []routesvc.ListItem{}, History: []routesvc.ListItem{}}, nil
}

type stubDeliveries struct {
	deliveries.Service
}

func (stubDeliveries) Today(context.Context, *outbox.ActorRef, uuid.UUID) ([]deliveries.TodayItem, error) {
	return []deliveries.TodayItem{}, nil
}

type testEnv struct {
	cfg      *config.Config
	router   http.Handler
	sessions *session.Manager
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "foguel-test", ExpirationMinutes: 60},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:  time.Minute,
			LoginIPLimit: 2,
		},
		Activity: config.ActivityConfig{FeedLimit: 5},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	client := redisclient.NewFromRaw(raw)

	sessions, err := session.NewManager(client)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	cfg := testConfig()
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(cfg, logg, Infra{
		Sessions:    sessions,
		RateLimiter: client,
		Pingers:     map[string]controllers.Pinger{"db": stubPinger{}, "redis": client},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	}, Services{
		Routes:     stubRoutes{},
		Deliveries: stubDeliveries{},
	})
	return &testEnv{cfg: cfg, router: router, sessions: sessions}
}

func (e *testEnv) token(t *testing.T, subject string, role enums.Role) string {
	t.Helper()
	token, claims, err := pkgAuth.MintAccessToken(e.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{Subject: subject, Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if err := e.sessions.Open(context.Background(), claims.ID, subject, claims.ExpiresAt.Time); err != nil {
		t.Fatalf("open session: %v", err)
	}
	return token
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.do(http.MethodGet, "/health/live", "", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from live got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/health/ready", "", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from ready got %d", resp.Code)
	}
	resp := env.do(http.MethodGet, "/metrics", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "foguel_http_requests_total") {
		t.Fatal("expected http request counter in metrics output")
	}
}

func TestAdminGroupsRejectMissingJWT(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/routes", "/register/all", "/activity", "/dashboard/stats", "/delivery/today/" + uuid.NewString()} {
		if resp := env.do(http.MethodGet, path, "", ""); resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token on %s got %d", path, resp.Code)
		}
	}
}

func TestRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)

	collaborator := env.token(t, uuid.NewString(), enums.RoleCollaborator)
	if resp := env.do(http.MethodGet, "/routes/recent", collaborator, ""); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for collaborator got %d", resp.Code)
	}

	admin := env.token(t, "admin", enums.RoleAdmin)
	if resp := env.do(http.MethodGet, "/routes/recent", admin, ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/routes", admin, ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for route board got %d", resp.Code)
	}
}

func TestDeliveryAllowsCollaborator(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.NewString()
	token := env.token(t, subject, enums.RoleCollaborator)

	resp := env.do(http.MethodGet, "/delivery/today/"+subject, token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for collaborator got %d", resp.Code)
	}
}

func TestRevokedSessionIsRejected(t *testing.T) {
	env := newTestEnv(t)
	token, claims, err := pkgAuth.MintAccessToken(env.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{Subject: "admin", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if err := env.sessions.Open(context.Background(), claims.ID, "admin", claims.ExpiresAt.Time); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if err := env.sessions.Revoke(context.Background(), claims.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if resp := env.do(http.MethodGet, "/routes/recent", token, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session got %d", resp.Code)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newTestEnv(t)
	body := `{"username":"admin"}`

	for i := 0; i < 2; i++ {
		if resp := env.do(http.MethodPost, "/login/login-admin", "", body); resp.Code == http.StatusTooManyRequests {
			t.Fatalf("attempt %d: throttled before the limit", i+1)
		}
	}
	resp := env.do(http.MethodPost, "/login/login-admin", "", body)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60 got %q", resp.Header().Get("Retry-After"))
	}
}
