package deliveries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/types"
)

const unknownClient = "Client not found"

// TodayItem is one stop on the collaborator's list for the day.
type TodayItem struct {
	ID               uuid.UUID         `json:"id"`
	Cliente          string            `json:"cliente"`
	Endereco         types.Address     `json:"endereco"`
	HorarioPrevisto  *string           `json:"horario_previsto"`
	Status           enums.RouteStatus `json:"status"`
	Entregue         *bool             `json:"entregue"`
	Produtos         json.RawMessage   `json:"produtos"`
	Observacoes      *string           `json:"observacoes"`
	Sequence         int               `json:"sequence"`
	QuemRecebeu      *string           `json:"quem_recebeu"`
	MotivoNaoEntrega *string           `json:"motivo_nao_entrega"`
	HorarioReal      *string           `json:"horario_real"`
}

// Details is the single-stop screen of the collaborator app.
type Details struct {
	ID                uuid.UUID         `json:"id"`
	Cliente           string            `json:"cliente"`
	Endereco          string            `json:"endereco"`
	EnderecoDetalhado types.Address     `json:"endereco_detalhado"`
	HorarioPrevisto   *string           `json:"horario_previsto"`
	Status            enums.RouteStatus `json:"status"`
	Entregue          *bool             `json:"entregue"`
	Produtos          json.RawMessage   `json:"produtos"`
	Observacoes       *string           `json:"observacoes"`
	QuemRecebeu       *string           `json:"quem_recebeu"`
	MotivoNaoEntrega  *string           `json:"motivo_nao_entrega"`
	HorarioReal       *string           `json:"horario_real"`
	TempoEspera       *string           `json:"tempo_espera"`
	CreatedAt         time.Time         `json:"created_at"`
	Sequence          int               `json:"sequence"`
}

// SuccessInput finishes a delivery that reached the client.
type SuccessInput struct {
	QuemRecebeu         string
	Observacoes         *string
	TempoEsperaSegundos *int
}

// FailureInput finishes a delivery that could not be completed.
type FailureInput struct {
	MotivoNaoEntrega    string
	Observacoes         *string
	TempoEsperaSegundos *int
}

// ActionResult is returned by every state-changing action.
type ActionResult struct {
	Message        string          `json:"message"`
	HorarioChegada *string         `json:"horario_chegada,omitempty"`
	HorarioReal    *string         `json:"horario_real,omitempty"`
	Rota           routes.RouteDTO `json:"rota"`
}

// WaitingResult is returned by the waiting time update.
type WaitingResult struct {
	Message          string          `json:"message"`
	TempoTotalEspera int             `json:"tempo_total_espera"`
	Rota             routes.RouteDTO `json:"rota"`
}

// Stats summarizes a collaborator's day.
type Stats struct {
	Total                    int     `json:"total"`
	Entregues                int     `json:"entregues"`
	NaoEntregues             int     `json:"nao_entregues"`
	EmEspera                 int     `json:"em_espera"`
	Pendentes                int     `json:"pendentes"`
	TempoMedioEsperaSegundos int     `json:"tempo_medio_espera_segundos"`
	Progresso                float64 `json:"progresso"`
}
