package routes

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/types"
)

// Fallback labels for routes whose related rows are gone.
const (
	NoDriver      = "No driver"
	UnknownClient = "Unknown client"
	notAvailable  = "N/A"
)

// CreateInput holds the validated payload to schedule a route.
type CreateInput struct {
	ColaboradorID   uuid.UUID
	ClienteID       uuid.UUID
	DataEntrega     types.Date
	HorarioPrevisto *string
	Produtos        json.RawMessage
	Observacoes     *string
}

// UpdateInput holds optional edits. Nil fields are left untouched.
type UpdateInput struct {
	ColaboradorID   *uuid.UUID
	ClienteID       *uuid.UUID
	DataEntrega     *types.Date
	HorarioPrevisto *string
	Produtos        json.RawMessage
	Observacoes     *string
	Status          *string
}

// CollaboratorRef is the embedded driver block of a route.
type CollaboratorRef struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CPF  string    `json:"cpf"`
}

// ClientRef is the embedded client block of a route.
type ClientRef struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CNPJ string    `json:"cnpj"`
	types.Address
}

// RouteDTO is the full admin view of a route.
type RouteDTO struct {
	ID               uuid.UUID         `json:"id"`
	ColaboradorID    uuid.UUID         `json:"colaborador_id"`
	ClienteID        uuid.UUID         `json:"cliente_id"`
	DataEntrega      types.Date        `json:"data_entrega"`
	HorarioPrevisto  *string           `json:"horario_previsto"`
	Sequence         int               `json:"sequence"`
	Produtos         json.RawMessage   `json:"produtos"`
	Observacoes      *string           `json:"observacoes"`
	Status           enums.RouteStatus `json:"status"`
	Entregue         *bool             `json:"entregue"`
	HorarioReal      *string           `json:"horario_real"`
	HorarioChegada   *string           `json:"horario_chegada"`
	HorarioSaida     *string           `json:"horario_saida"`
	QuemRecebeu      *string           `json:"quem_recebeu"`
	MotivoNaoEntrega *string           `json:"motivo_nao_entrega"`
	TempoTotalEspera *int              `json:"tempo_total_espera"`
	TempoEspera      *string           `json:"tempo_espera"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Cliente          *ClientRef        `json:"cliente,omitempty"`
	Colaborador      *CollaboratorRef  `json:"colaborador,omitempty"`
}

// ListItem is one row of the admin route board.
type ListItem struct {
	RouteDTO
	MotoristaNome string `json:"motorista_nome"`
	ClienteNome   string `json:"cliente_nome"`
	Cidade        string `json:"cidade"`
	ItemsCount    int    `json:"items_count"`
}

// Board splits routes into the to-do list and the history.
type Board struct {
	Future  []ListItem `json:"future"`
	History []ListItem `json:"history"`
}

// RecentItem is a finished route for the dashboard widget.
type RecentItem struct {
	ID     uuid.UUID         `json:"id"`
	Client string            `json:"client"`
	Date   types.Date        `json:"date"`
	Status enums.RouteStatus `json:"status"`
}

// Analytics item outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AnalyticsItem is one route in a report.
type AnalyticsItem struct {
	ID     uuid.UUID  `json:"id"`
	Date   types.Date `json:"date"`
	Client string     `json:"client"`
	Driver string     `json:"driver"`
	Status string     `json:"status"`
}

// AnalyticsReport summarizes routes scheduled since the period start.
type AnalyticsReport struct {
	Period    enums.AnalyticsPeriod `json:"period"`
	From      *types.Date           `json:"from,omitempty"`
	Total     int                   `json:"total"`
	Delivered int                   `json:"delivered"`
	Failed    int                   `json:"failed"`
	Items     []AnalyticsItem       `json:"items"`
}

// FromModel maps a route row, with whatever relations were preloaded.
func FromModel(m models.Route) RouteDTO {
	produtos := m.Produtos
	if len(produtos) == 0 {
		produtos = json.RawMessage("[]")
	}
	dto := RouteDTO{
		ID:               m.ID,
		ColaboradorID:    m.ColaboradorID,
		ClienteID:        m.ClienteID,
		DataEntrega:      m.DataEntrega,
		HorarioPrevisto:  m.HorarioPrevisto,
		Sequence:         m.Sequence,
		Produtos:         produtos,
		Observacoes:      m.Observacoes,
		Status:           m.ResolvedStatus(),
		Entregue:         m.Entregue,
		HorarioReal:      m.HorarioReal,
		HorarioChegada:   m.HorarioChegada,
		HorarioSaida:     m.HorarioSaida,
		QuemRecebeu:      m.QuemRecebeu,
		MotivoNaoEntrega: m.MotivoNaoEntrega,
		TempoTotalEspera: m.TempoTotalEspera,
		TempoEspera:      m.TempoEspera,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.Cliente != nil {
		dto.Cliente = &ClientRef{ID: m.Cliente.ID, Nome: m.Cliente.Nome, CNPJ: m.Cliente.CNPJ, Address: m.Cliente.Address()}
	}
	if m.Colaborador != nil {
		dto.Colaborador = &CollaboratorRef{ID: m.Colaborador.ID, Nome: m.Colaborador.Nome, CPF: m.Colaborador.CPF}
	}
	return dto
}

func toListItem(m models.Route) ListItem {
	item := ListItem{
		MotoristaNome: NoDriver,
		ClienteNome:   UnknownClient,
		ItemsCount:    m.ItemCount(),
	}
	if m.Colaborador != nil && m.Colaborador.Nome != "" {
		item.MotoristaNome = m.Colaborador.Nome
	}
	if m.Cliente != nil {
		if m.Cliente.Nome != "" {
			item.ClienteNome = m.Cliente.Nome
		}
		item.Cidade = m.Cliente.Cidade
	}
	m.Colaborador, m.Cliente = nil, nil
	item.RouteDTO = FromModel(m)
	return item
}
