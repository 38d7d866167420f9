package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	routesvc "github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/outbox"
)

type stubRoutes struct {
	routesvc.Service
	actor       *outbox.ActorRef
	created     routesvc.CreateInput
	updated     routesvc.UpdateInput
	period      enums.AnalyticsPeriod
	recentLimit int
}

func (s *stubRoutes) Create(_ context.Context, actor *outbox.ActorRef, input routesvc.CreateInput) (*routesvc.RouteDTO, error) {
	s.actor = actor
	s.created = input
	return &routesvc.RouteDTO{ID: uuid.New(), Sequence: 1, Status: enums.RouteStatusPending}, nil
}

func (s *stubRoutes) Update(_ context.Context, actor *outbox.ActorRef, id uuid.UUID, input routesvc.UpdateInput) (*routesvc.RouteDTO, error) {
	s.actor = actor
	s.updated = input
	return &routesvc.RouteDTO{ID: id}, nil
}

func (s *stubRoutes) Recent(_ context.Context, limit int) ([]routesvc.RecentItem, error) {
	s.recentLimit = limit
	return []routesvc.RecentItem{}, nil
}

func (s *stubRoutes) Analytics(_ context.Context, period enums.AnalyticsPeriod) (*routesvc.AnalyticsReport, error) {
	s.period = period
	return &routesvc.AnalyticsReport{Period: period, Items: []routesvc.AnalyticsItem{}}, nil
}

func (s *stubRoutes) ExportAnalytics(_ context.Context, period enums.AnalyticsPeriod) ([]byte, error) {
	s.period = period
	return []byte("PK"), nil
}

func TestCreateRoute(t *testing.T) {
	svc := &stubRoutes{}
	colab, client := uuid.New(), uuid.New()
	body := `{"colaborador_id":"` + colab.String() + `","cliente_id":"` + client.String() + `","data_entrega":"2026-10-20","horario_previsto":"09:30","produtos":[{"nome":"Gás","quantidade":2}]}`

	rec := serve(CreateRoute(svc, testLogger()), asAdmin(newRequest(http.MethodPost, "/routes", body, nil)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, colab, svc.created.ColaboradorID)
	require.Equal(t, client, svc.created.ClienteID)
	require.Equal(t, "2026-10-20", svc.created.DataEntrega.String())
	require.Equal(t, "09:30", *svc.created.HorarioPrevisto)
	require.JSONEq(t, `[{"nome":"Gás","quantidade":2}]`, string(svc.created.Produtos))
	require.NotNil(t, svc.actor)
	require.Equal(t, "admin", svc.actor.Subject)
}

func TestCreateRouteDefaultsProducts(t *testing.T) {
	svc := &stubRoutes{}
	body := `{"colaborador_id":"` + uuid.NewString() + `","cliente_id":"` + uuid.NewString() + `","data_entrega":"2026-10-20"}`

	rec := serve(CreateRoute(svc, testLogger()), newRequest(http.MethodPost, "/routes", body, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "[]", string(svc.created.Produtos))
	require.Nil(t, svc.created.HorarioPrevisto)
}

func TestCreateRouteValidation(t *testing.T) {
	colab, client := uuid.NewString(), uuid.NewString()
	cases := map[string]string{
		"bad date":       `{"colaborador_id":"` + colab + `","cliente_id":"` + client + `","data_entrega":"20/10/2026"}`,
		"bad time":       `{"colaborador_id":"` + colab + `","cliente_id":"` + client + `","data_entrega":"2026-10-20","horario_previsto":"25:00"}`,
		"bad uuid":       `{"colaborador_id":"x","cliente_id":"` + client + `","data_entrega":"2026-10-20"}`,
		"products shape": `{"colaborador_id":"` + colab + `","cliente_id":"` + client + `","data_entrega":"2026-10-20","produtos":{"a":1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(CreateRoute(&stubRoutes{}, testLogger()), newRequest(http.MethodPost, "/routes", body, nil))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateRoutePassesStatus(t *testing.T) {
	svc := &stubRoutes{}
	id := uuid.New()
	req := newRequest(http.MethodPut, "/routes/"+id.String(), `{"status":" delivered ","observacoes":"portão azul"}`, map[string]string{"id": id.String()})

	rec := serve(UpdateRoute(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "delivered", *svc.updated.Status)
	require.Equal(t, "portão azul", *svc.updated.Observacoes)
	require.Nil(t, svc.updated.ColaboradorID)
	require.Nil(t, svc.updated.Produtos)
}

func TestRecentRoutesLimit(t *testing.T) {
	svc := &stubRoutes{}

	rec := serve(RecentRoutes(svc, testLogger()), newRequest(http.MethodGet, "/routes/recent", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, svc.recentLimit)

	rec = serve(RecentRoutes(svc, testLogger()), newRequest(http.MethodGet, "/routes/recent?limit=0", "", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteAnalyticsPeriod(t *testing.T) {
	svc := &stubRoutes{}

	rec := serve(RouteAnalytics(svc, testLogger()), newRequest(http.MethodGet, "/routes/analytics?period=weekly", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.PeriodWeekly, svc.period)

	rec = serve(RouteAnalytics(svc, testLogger()), newRequest(http.MethodGet, "/routes/analytics?period=yearly", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.PeriodAll, svc.period)
}

func TestExportRouteAnalytics(t *testing.T) {
	svc := &stubRoutes{}

	rec := serve(ExportRouteAnalytics(svc, testLogger()), newRequest(http.MethodGet, "/routes/analytics/export?period=monthly", "", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "route-analytics-monthly.xlsx")
	require.Equal(t, "PK", rec.Body.String())
}
