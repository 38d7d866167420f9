package payloads

import (
	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/enums"
)

// RouteSnapshot carries the scheduling columns of a route.
type RouteSnapshot struct {
	RouteID       uuid.UUID         `json:"route_id"`
	ColaboradorID uuid.UUID         `json:"colaborador_id"`
	ClienteID     uuid.UUID         `json:"cliente_id"`
	DataEntrega   string            `json:"data_entrega"`
	Sequence      int               `json:"sequence"`
	Status        enums.RouteStatus `json:"status"`
}

// RouteCreatedEvent is emitted when a route is scheduled.
type RouteCreatedEvent struct {
	RouteSnapshot
}

// RouteUpdatedEvent is emitted when an admin edits a route.
type RouteUpdatedEvent struct {
	RouteSnapshot
	Changed []string `json:"changed"`
}

// RouteDeletedEvent is emitted when a route is removed.
type RouteDeletedEvent struct {
	RouteID       uuid.UUID `json:"route_id"`
	ColaboradorID uuid.UUID `json:"colaborador_id"`
	DataEntrega   string    `json:"data_entrega"`
}

// RouteStatusChangedEvent is emitted by every delivery action that moves a route.
type RouteStatusChangedEvent struct {
	RouteID          uuid.UUID         `json:"route_id"`
	ColaboradorID    uuid.UUID         `json:"colaborador_id"`
	Action           string            `json:"action"`
	From             enums.RouteStatus `json:"from"`
	To               enums.RouteStatus `json:"to"`
	Entregue         *bool             `json:"entregue,omitempty"`
	QuemRecebeu      *string           `json:"quem_recebeu,omitempty"`
	MotivoNaoEntrega *string           `json:"motivo_nao_entrega,omitempty"`
	TempoTotalEspera *int              `json:"tempo_total_espera,omitempty"`
	At               string            `json:"at"`
}

// RouteWaitUpdatedEvent is emitted when the collaborator reports waiting time.
type RouteWaitUpdatedEvent struct {
	RouteID          uuid.UUID `json:"route_id"`
	ColaboradorID    uuid.UUID `json:"colaborador_id"`
	TempoTotalEspera int       `json:"tempo_total_espera"`
}
