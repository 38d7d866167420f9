package deliveries

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/outbox"
	"github.com/foguel/delivery-backend/pkg/outbox/payloads"
	"github.com/foguel/delivery-backend/pkg/types"
)

const entity = "route"

// Delivery actions, as recorded in outbox events.
const (
	ActionArrival       = "arrival"
	ActionCancelArrival = "cancel_arrival"
	ActionFinishSuccess = "finish_success"
	ActionFinishFailure = "finish_failure"
)

// Service exposes the collaborator app operations. A collaborator actor may
// only touch its own routes; a nil or admin actor is unrestricted.
type Service interface {
	Today(ctx context.Context, actor *outbox.ActorRef, colaboradorID uuid.UUID) ([]TodayItem, error)
	Details(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*Details, error)
	Arrival(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*ActionResult, error)
	CancelArrival(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*ActionResult, error)
	FinishSuccess(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input SuccessInput) (*ActionResult, error)
	FinishFailure(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input FailureInput) (*ActionResult, error)
	UpdateWaiting(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, seconds int) (*WaitingResult, error)
	Stats(ctx context.Context, actor *outbox.ActorRef, colaboradorID uuid.UUID) (*Stats, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the delivery service.
type ServiceParams struct {
	Repository *Repository
	DB         txRunner
	Outbox     outbox.Emitter
	Location   *time.Location
	Now        func() time.Time
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outbox.Emitter
	loc    *time.Location
	now    func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repository, tx: params.DB, outbox: params.Outbox, loc: loc, now: now}, nil
}

func (s *service) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *service) Today(ctx context.Context, actor *outbox.ActorRef, colaboradorID uuid.UUID) ([]TodayItem, error) {
	if err := authorize(actor, colaboradorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForCollaboratorOn(ctx, colaboradorID, types.DateOf(s.localNow()))
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	out := make([]TodayItem, 0, len(rows))
	for _, row := range rows {
		item := TodayItem{
			ID:               row.ID,
			Cliente:          unknownClient,
			HorarioPrevisto:  row.HorarioPrevisto,
			Status:           row.ResolvedStatus(),
			Entregue:         row.Entregue,
			Produtos:         produtosOrEmpty(row.Produtos),
			Observacoes:      row.Observacoes,
			Sequence:         row.Sequence,
			QuemRecebeu:      row.QuemRecebeu,
			MotivoNaoEntrega: row.MotivoNaoEntrega,
			HorarioReal:      row.HorarioReal,
		}
		if row.Cliente != nil {
			item.Cliente = row.Cliente.Nome
			item.Endereco = row.Cliente.Address()
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *service) Details(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*Details, error) {
	row, err := s.repo.FindWithClient(ctx, id)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	if err := authorize(actor, row.ColaboradorID); err != nil {
		return nil, err
	}
	details := &Details{
		ID:               row.ID,
		Cliente:          unknownClient,
		HorarioPrevisto:  row.HorarioPrevisto,
		Status:           row.ResolvedStatus(),
		Entregue:         row.Entregue,
		Produtos:         produtosOrEmpty(row.Produtos),
		Observacoes:      row.Observacoes,
		QuemRecebeu:      row.QuemRecebeu,
		MotivoNaoEntrega: row.MotivoNaoEntrega,
		HorarioReal:      row.HorarioReal,
		TempoEspera:      row.TempoEspera,
		CreatedAt:        row.CreatedAt,
		Sequence:         row.Sequence,
	}
	if row.Cliente != nil {
		details.Cliente = row.Cliente.Nome
		details.EnderecoDetalhado = row.Cliente.Address()
		details.Endereco = details.EnderecoDetalhado.Format()
	}
	return details, nil
}

func (s *service) Arrival(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*ActionResult, error) {
	clock := s.localNow().Format(time.TimeOnly)
	route, err := s.transition(ctx, actor, id, ActionArrival, func(m *models.Route) error {
		m.HorarioReal = &clock
		m.HorarioChegada = &clock
		m.Status = enums.RouteStatusWaiting
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{
		Message:        "Arrival registered",
		HorarioChegada: &clock,
		HorarioReal:    &clock,
		Rota:           routes.FromModel(*route),
	}, nil
}

func (s *service) CancelArrival(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) (*ActionResult, error) {
	route, err := s.transition(ctx, actor, id, ActionCancelArrival, func(m *models.Route) error {
		m.HorarioReal = nil
		m.HorarioChegada = nil
		m.TempoEspera = nil
		m.TempoTotalEspera = nil
		m.Status = enums.RouteStatusPending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "Arrival cancelled", Rota: routes.FromModel(*route)}, nil
}

func (s *service) FinishSuccess(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input SuccessInput) (*ActionResult, error) {
	receiver := strings.TrimSpace(input.QuemRecebeu)
	if receiver == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quem_recebeu is required")
	}
	if err := validateSeconds(input.TempoEsperaSegundos); err != nil {
		return nil, err
	}
	clock := s.localNow().Format(time.TimeOnly)
	delivered := true
	route, err := s.transition(ctx, actor, id, ActionFinishSuccess, func(m *models.Route) error {
		m.Entregue = &delivered
		m.QuemRecebeu = &receiver
		m.MotivoNaoEntrega = nil
		m.Observacoes = optionalText(input.Observacoes)
		m.HorarioSaida = &clock
		applyWaiting(m, input.TempoEsperaSegundos)
		m.Status = enums.RouteStatusDelivered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "Delivery completed", Rota: routes.FromModel(*route)}, nil
}

func (s *service) FinishFailure(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input FailureInput) (*ActionResult, error) {
	reason := strings.TrimSpace(input.MotivoNaoEntrega)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "motivo_nao_entrega is required")
	}
	if err := validateSeconds(input.TempoEsperaSegundos); err != nil {
		return nil, err
	}
	clock := s.localNow().Format(time.TimeOnly)
	delivered := false
	route, err := s.transition(ctx, actor, id, ActionFinishFailure, func(m *models.Route) error {
		m.Entregue = &delivered
		m.MotivoNaoEntrega = &reason
		m.QuemRecebeu = nil
		m.Observacoes = optionalText(input.Observacoes)
		m.HorarioSaida = &clock
		applyWaiting(m, input.TempoEsperaSegundos)
		m.Status = enums.RouteStatusFailed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "Failed delivery registered", Rota: routes.FromModel(*route)}, nil
}

func (s *service) UpdateWaiting(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, seconds int) (*WaitingResult, error) {
	if seconds < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tempo_espera_segundos must be greater than or equal to 0")
	}
	var updated *models.Route
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		m, err := txRepo.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, m.ColaboradorID); err != nil {
			return err
		}
		m.TempoTotalEspera = &seconds
		if err := txRepo.Save(ctx, m); err != nil {
			return err
		}
		updated = m
		return s.emit(ctx, tx, actor, enums.EventRouteWaitUpdated, m.ID, payloads.RouteWaitUpdatedEvent{
			RouteID:          m.ID,
			ColaboradorID:    m.ColaboradorID,
			TempoTotalEspera: seconds,
		})
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return &WaitingResult{Message: "Waiting time updated", TempoTotalEspera: seconds, Rota: routes.FromModel(*updated)}, nil
}

func (s *service) Stats(ctx context.Context, actor *outbox.ActorRef, colaboradorID uuid.UUID) (*Stats, error) {
	if err := authorize(actor, colaboradorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForCollaboratorOn(ctx, colaboradorID, types.DateOf(s.localNow()))
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return summarize(rows), nil
}

// summarize counts the day from the raw outcome columns.
func summarize(rows []models.Route) *Stats {
	stats := &Stats{Total: len(rows)}
	waitSum, waitCount := 0, 0
	for _, row := range rows {
		delivered := row.Entregue != nil && *row.Entregue
		notDelivered := row.Entregue != nil && !*row.Entregue
		hasReason := present(row.MotivoNaoEntrega)
		arrived := present(row.HorarioReal)
		switch {
		case delivered:
			stats.Entregues++
		case notDelivered && hasReason:
			stats.NaoEntregues++
		case hasReason:
		case arrived:
			stats.EmEspera++
		default:
			stats.Pendentes++
		}
		if row.TempoTotalEspera != nil && *row.TempoTotalEspera != 0 {
			waitSum += *row.TempoTotalEspera
			waitCount++
		}
	}
	if waitCount > 0 {
		stats.TempoMedioEsperaSegundos = int(math.Round(float64(waitSum) / float64(waitCount)))
	}
	if stats.Total > 0 {
		stats.Progresso = float64(stats.Entregues+stats.NaoEntregues) / float64(stats.Total) * 100
	}
	return stats
}

// transition applies mutate to the locked route and queues a status change
// event in the same transaction.
func (s *service) transition(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, action string, mutate func(*models.Route) error) (*models.Route, error) {
	var updated *models.Route
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		m, err := txRepo.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, m.ColaboradorID); err != nil {
			return err
		}
		from := m.ResolvedStatus()
		if err := mutate(m); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, m); err != nil {
			return err
		}
		updated = m
		return s.emit(ctx, tx, actor, enums.EventRouteStatusChanged, m.ID, payloads.RouteStatusChangedEvent{
			RouteID:          m.ID,
			ColaboradorID:    m.ColaboradorID,
			Action:           action,
			From:             from,
			To:               m.ResolvedStatus(),
			Entregue:         m.Entregue,
			QuemRecebeu:      m.QuemRecebeu,
			MotivoNaoEntrega: m.MotivoNaoEntrega,
			TempoTotalEspera: m.TempoTotalEspera,
			At:               s.localNow().Format(time.RFC3339),
		})
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return updated, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor *outbox.ActorRef, eventType enums.OutboxEventType, routeID uuid.UUID, data any) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateRoute,
		AggregateID:   routeID,
		Actor:         actor,
		Data:          data,
		OccurredAt:    s.now(),
	})
}

func authorize(actor *outbox.ActorRef, owner uuid.UUID) error {
	if actor == nil || actor.Role != string(enums.RoleCollaborator) {
		return nil
	}
	if actor.Subject != owner.String() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "route belongs to another collaborator")
	}
	return nil
}

// applyWaiting records the waiting time. tempo_espera is only rewritten for a
// positive duration.
func applyWaiting(m *models.Route, seconds *int) {
	total := 0
	if seconds != nil {
		total = *seconds
	}
	m.TempoTotalEspera = &total
	if total > 0 {
		formatted := FormatDuration(total)
		m.TempoEspera = &formatted
	}
}

// FormatDuration renders seconds as H:MM:SS.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func validateSeconds(seconds *int) error {
	if seconds != nil && *seconds < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tempo_espera_segundos must be greater than or equal to 0")
	}
	return nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

func produtosOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}
