package narration

import (
	"encoding/json"
	"strconv"
	"strings"
)

// bag is a decoded before/after image. Values keep their JSON types so that a
// column holding the wrong type reads as absent instead of failing.
type bag map[string]any

func decodeBag(raw json.RawMessage) bag {
	if len(raw) == 0 {
		return bag{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return bag{}
	}
	return out
}

func (b bag) str(key string) *string {
	v, ok := b[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// id accepts string and numeric identifiers.
func (b bag) id(key string) string {
	switch v := b[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (b bag) boolean(key string) *bool {
	v, ok := b[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// RouteSnapshot is the subset of a routes row the narrator reads.
type RouteSnapshot struct {
	ColaboradorID    string
	ClienteID        string
	Status           *string
	Entregue         *bool
	HorarioReal      *string
	HorarioChegada   *string
	MotivoNaoEntrega *string
}

// ProductSnapshot is the subset of a products row the narrator reads.
type ProductSnapshot struct {
	Nome *string
}

// CollaboratorSnapshot is the subset of a collaborators row the narrator reads.
type CollaboratorSnapshot struct {
	Nome *string
}

func routeSnapshot(raw json.RawMessage) RouteSnapshot {
	b := decodeBag(raw)
	return RouteSnapshot{
		ColaboradorID:    b.id("colaborador_id"),
		ClienteID:        b.id("cliente_id"),
		Status:           b.str("status"),
		Entregue:         b.boolean("entregue"),
		HorarioReal:      b.str("horario_real"),
		HorarioChegada:   b.str("horario_chegada"),
		MotivoNaoEntrega: b.str("motivo_nao_entrega"),
	}
}

func productSnapshot(raw json.RawMessage) ProductSnapshot {
	return ProductSnapshot{Nome: decodeBag(raw).str("nome")}
}

func collaboratorSnapshot(raw json.RawMessage) CollaboratorSnapshot {
	return CollaboratorSnapshot{Nome: decodeBag(raw).str("nome")}
}
