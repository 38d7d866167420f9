package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/status"
	"github.com/foguel/delivery-backend/pkg/types"
)

// Route is one scheduled delivery stop for a collaborator on a given day.
// Time-of-day columns hold HH:MM:SS text.
type Route struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ColaboradorID    uuid.UUID         `gorm:"column:colaborador_id;type:uuid;not null;index:ix_routes_collaborator_day,priority:1"`
	ClienteID        uuid.UUID         `gorm:"column:cliente_id;type:uuid;not null"`
	DataEntrega      types.Date        `gorm:"column:data_entrega;type:date;not null;index:ix_routes_collaborator_day,priority:2"`
	HorarioPrevisto  *string           `gorm:"column:horario_previsto;type:text"`
	Sequence         int               `gorm:"column:sequence;not null;default:1"`
	Produtos         json.RawMessage   `gorm:"column:produtos;type:jsonb"`
	Observacoes      *string           `gorm:"column:observacoes;type:text"`
	Status           enums.RouteStatus `gorm:"column:status;type:text;not null;default:pending"`
	Entregue         *bool             `gorm:"column:entregue"`
	HorarioReal      *string           `gorm:"column:horario_real;type:text"`
	HorarioChegada   *string           `gorm:"column:horario_chegada;type:text"`
	HorarioSaida     *string           `gorm:"column:horario_saida;type:text"`
	QuemRecebeu      *string           `gorm:"column:quem_recebeu;type:text"`
	MotivoNaoEntrega *string           `gorm:"column:motivo_nao_entrega;type:text"`
	TempoTotalEspera *int              `gorm:"column:tempo_total_espera"`
	TempoEspera      *string           `gorm:"column:tempo_espera;type:text"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Colaborador *Collaborator `gorm:"foreignKey:ColaboradorID;references:ID"`
	Cliente     *Client       `gorm:"foreignKey:ClienteID;references:ID"`
}

func (Route) TableName() string { return "routes" }

// StatusInput projects the columns the status resolver reads.
func (r Route) StatusInput() status.Route {
	var persisted *string
	if r.Status != "" {
		raw := string(r.Status)
		persisted = &raw
	}
	return status.Route{
		Status:           persisted,
		Entregue:         r.Entregue,
		HorarioReal:      r.HorarioReal,
		HorarioChegada:   r.HorarioChegada,
		MotivoNaoEntrega: r.MotivoNaoEntrega,
	}
}

// ResolvedStatus is the display status of the route.
func (r Route) ResolvedStatus() enums.RouteStatus {
	return status.Resolve(r.StatusInput())
}

// ItemCount returns the number of entries in the produtos array.
func (r Route) ItemCount() int {
	if len(r.Produtos) == 0 {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r.Produtos, &items); err != nil {
		return 0
	}
	return len(items)
}
