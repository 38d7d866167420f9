package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateScanVariants(t *testing.T) {
	want := Date{Year: 2025, Month: time.March, Day: 7}
	inputs := []any{
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		"2025-03-07",
		[]byte("2025-03-07T00:00:00Z"),
	}
	for _, in := range inputs {
		var got Date
		if err := got.Scan(in); err != nil {
			t.Fatalf("scan %T: %v", in, err)
		}
		if got != want {
			t.Fatalf("scan %T: expected %v got %v", in, want, got)
		}
	}

	var empty Date
	if err := empty.Scan(nil); err != nil || !empty.IsZero() {
		t.Fatalf("nil scan should produce zero date, got %v %v", empty, err)
	}
	if err := empty.Scan(42); err == nil {
		t.Fatal("expected error for int scan")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	var payload struct {
		Day Date `json:"day"`
	}
	if err := json.Unmarshal([]byte(`{"day":"2024-12-31"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"day":"2024-12-31"}` {
		t.Fatalf("unexpected json %s", out)
	}
	if err := json.Unmarshal([]byte(`{"day":"31/12/2024"}`), &payload); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestDateOrderingAndValue(t *testing.T) {
	a := Date{Year: 2025, Month: 1, Day: 9}
	b := Date{Year: 2025, Month: 1, Day: 10}
	if !a.Before(b) || !b.After(a) {
		t.Fatal("expected a before b")
	}
	v, err := a.Value()
	if err != nil || v != "2025-01-09" {
		t.Fatalf("unexpected value %v %v", v, err)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Fatalf("zero date should be NULL, got %v", v)
	}
}

func TestAddressFormat(t *testing.T) {
	addr := Address{Rua: "Rua A", Numero: "10", Bairro: "Centro", Cidade: "Santos", CEP: "11000-000"}
	if got := addr.Format(); got != "Rua A, 10 - Centro, Santos - CEP 11000-000" {
		t.Fatalf("unexpected address %q", got)
	}
}
