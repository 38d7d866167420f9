package status

import (
	"testing"

	"github.com/foguel/delivery-backend/pkg/enums"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestResolveEmptyRouteIsPending(t *testing.T) {
	if got := Resolve(Route{}); got != enums.RouteStatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestResolveDeliveredFlag(t *testing.T) {
	if got := Resolve(Route{Entregue: boolPtr(true)}); got != enums.RouteStatusDelivered {
		t.Fatalf("expected delivered, got %s", got)
	}
}

func TestResolveDeliveredWinsOverOtherColumns(t *testing.T) {
	route := Route{
		Status:           strPtr("pendente"),
		Entregue:         boolPtr(true),
		HorarioReal:      strPtr("10:00:00"),
		MotivoNaoEntrega: strPtr("stale reason"),
	}
	if got := Resolve(route); got != enums.RouteStatusDelivered {
		t.Fatalf("expected delivered, got %s", got)
	}
}

func TestResolveFailedNeedsReason(t *testing.T) {
	route := Route{Entregue: boolPtr(false), MotivoNaoEntrega: strPtr("client absent")}
	if got := Resolve(route); got != enums.RouteStatusFailed {
		t.Fatalf("expected failed, got %s", got)
	}

	route.MotivoNaoEntrega = strPtr("   ")
	if got := Resolve(route); got != enums.RouteStatusPending {
		t.Fatalf("blank reason should not count, got %s", got)
	}
}

func TestResolveWaitingOnArrival(t *testing.T) {
	cases := []Route{
		{HorarioReal: strPtr("09:15:00")},
		{HorarioChegada: strPtr("09:15:00")},
		{HorarioReal: strPtr("09:15:00"), Entregue: boolPtr(false)},
	}
	for i, route := range cases {
		if got := Resolve(route); got != enums.RouteStatusWaiting {
			t.Fatalf("case %d: expected waiting, got %s", i, got)
		}
	}
}

func TestResolvePersistedStatusWins(t *testing.T) {
	cases := map[string]enums.RouteStatus{
		"en_route":  enums.RouteStatusEnRoute,
		"em_rota":   enums.RouteStatusEnRoute,
		"cancelado": enums.RouteStatusCancelled,
		"CONCLUIDO": enums.RouteStatusDelivered,
		"failed":    enums.RouteStatusFailed,
	}
	for raw, want := range cases {
		route := Route{Status: strPtr(raw), HorarioReal: strPtr("08:00:00")}
		if got := Resolve(route); got != want {
			t.Fatalf("%q: expected %s, got %s", raw, want, got)
		}
	}
}

func TestResolvePersistedStatusBeatsDeliveredFlag(t *testing.T) {
	cases := map[string]enums.RouteStatus{
		"failed":   enums.RouteStatusFailed,
		"en_route": enums.RouteStatusEnRoute,
		"waiting":  enums.RouteStatusWaiting,
	}
	for raw, want := range cases {
		route := Route{Status: strPtr(raw), Entregue: boolPtr(true)}
		if got := Resolve(route); got != want {
			t.Fatalf("%q with entregue=true: expected %s, got %s", raw, want, got)
		}
		if !IsConcluded(route) {
			t.Fatalf("%q with entregue=true should still be concluded", raw)
		}
		if got := Outcome(route); got != enums.RouteStatusDelivered {
			t.Fatalf("%q with entregue=true: expected delivered outcome, got %s", raw, got)
		}
	}
}

func TestResolvePendingPlaceholderFallsThrough(t *testing.T) {
	route := Route{Status: strPtr("pending"), HorarioChegada: strPtr("08:00")}
	if got := Resolve(route); got != enums.RouteStatusWaiting {
		t.Fatalf("expected waiting, got %s", got)
	}
	route = Route{Status: strPtr("garbage"), Entregue: boolPtr(false), MotivoNaoEntrega: strPtr("closed")}
	if got := Resolve(route); got != enums.RouteStatusFailed {
		t.Fatalf("unknown status should fall through, got %s", got)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	status := "pendente"
	route := Route{Status: &status, Entregue: boolPtr(true)}
	_ = Resolve(route)
	if *route.Status != "pendente" || !*route.Entregue {
		t.Fatal("resolve mutated its input")
	}
}

func TestIsConcluded(t *testing.T) {
	cases := []struct {
		route Route
		want  bool
	}{
		{Route{}, false},
		{Route{Entregue: boolPtr(true)}, true},
		{Route{Status: strPtr("entregue")}, true},
		{Route{Status: strPtr("nao_entregue")}, true},
		{Route{Status: strPtr("CONCLUIDO")}, true},
		{Route{Status: strPtr("cancelado")}, true},
		{Route{Status: strPtr("em_espera")}, false},
		{Route{Entregue: boolPtr(false)}, false},
	}
	for i, tc := range cases {
		if got := IsConcluded(tc.route); got != tc.want {
			t.Fatalf("case %d: expected %v got %v", i, tc.want, got)
		}
	}
}

func TestOutcome(t *testing.T) {
	if got := Outcome(Route{Status: strPtr("entregue")}); got != enums.RouteStatusDelivered {
		t.Fatalf("expected delivered, got %s", got)
	}
	if got := Outcome(Route{Entregue: boolPtr(false)}); got != enums.RouteStatusFailed {
		t.Fatalf("expected failed, got %s", got)
	}
}
