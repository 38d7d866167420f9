package enums

import "testing"

func TestParseRouteStatusCanonical(t *testing.T) {
	for _, status := range validRouteStatuses {
		got, err := ParseRouteStatus(string(status))
		if err != nil {
			t.Fatalf("parse %q: %v", status, err)
		}
		if got != status {
			t.Fatalf("expected %q got %q", status, got)
		}
	}
}

func TestParseRouteStatusLegacyLiterals(t *testing.T) {
	cases := map[string]RouteStatus{
		"pendente":     RouteStatusPending,
		"em_rota":      RouteStatusEnRoute,
		"em_espera":    RouteStatusWaiting,
		"entregue":     RouteStatusDelivered,
		"nao_entregue": RouteStatusFailed,
		"cancelado":    RouteStatusCancelled,
		"CONCLUIDO":    RouteStatusDelivered,
		" Entregue ":   RouteStatusDelivered,
	}
	for raw, want := range cases {
		got, err := ParseRouteStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("%q: expected %q got %q", raw, want, got)
		}
	}
}

func TestParseRouteStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "lost", "delivered!"} {
		if _, err := ParseRouteStatus(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRouteStatusIsTerminal(t *testing.T) {
	if RouteStatusWaiting.IsTerminal() || RouteStatusPending.IsTerminal() {
		t.Fatal("open statuses must not be terminal")
	}
	if !RouteStatusCancelled.IsTerminal() || !RouteStatusFailed.IsTerminal() {
		t.Fatal("cancelled and failed are terminal")
	}
}

func TestParseAnalyticsPeriod(t *testing.T) {
	if p, err := ParseAnalyticsPeriod(""); err != nil || p != PeriodAll {
		t.Fatalf("expected PeriodAll for empty input, got %q %v", p, err)
	}
	if p, err := ParseAnalyticsPeriod("Weekly"); err != nil || p != PeriodWeekly {
		t.Fatalf("expected weekly, got %q %v", p, err)
	}
	if _, err := ParseAnalyticsPeriod("yearly"); err == nil {
		t.Fatal("expected error for yearly")
	}
}

func TestParseActivityAction(t *testing.T) {
	if a, err := ParseActivityAction("update"); err != nil || a != ActivityUpdate {
		t.Fatalf("expected UPDATE, got %q %v", a, err)
	}
	if _, err := ParseActivityAction("TRUNCATE"); err == nil {
		t.Fatal("expected error for TRUNCATE")
	}
}

func TestRouteStatusLiterals(t *testing.T) {
	got := RouteStatusLiterals(RouteStatusDelivered)
	want := map[string]bool{"delivered": true, "entregue": true, "ENTREGUE": true, "concluido": true, "CONCLUIDO": true}
	if len(got) != len(want) {
		t.Fatalf("unexpected literals %v", got)
	}
	for _, literal := range got {
		if !want[literal] {
			t.Fatalf("unexpected literal %q in %v", literal, got)
		}
	}
}
