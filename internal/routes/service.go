package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/outbox"
	"github.com/foguel/delivery-backend/pkg/outbox/payloads"
	"github.com/foguel/delivery-backend/pkg/status"
	"github.com/foguel/delivery-backend/pkg/types"
)

const (
	entity = "route"

	DefaultRecentLimit = 4
	MaxRecentLimit     = 50
)

// Service exposes admin route management and reporting.
type Service interface {
	Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*RouteDTO, error)
	Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*RouteDTO, error)
	Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error
	Board(ctx context.Context) (*Board, error)
	Get(ctx context.Context, id uuid.UUID) (*RouteDTO, error)
	Recent(ctx context.Context, limit int) ([]RecentItem, error)
	Analytics(ctx context.Context, period enums.AnalyticsPeriod) (*AnalyticsReport, error)
	ExportAnalytics(ctx context.Context, period enums.AnalyticsPeriod) ([]byte, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the route service.
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

// NewService constructs the route service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("route repository required")
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

func (s *service) today() types.Date {
	return types.DateOf(s.now().In(s.loc))
}

func (s *service) Create(ctx context.Context, actor *outbox.ActorRef, input CreateInput) (*RouteDTO, error) {
	if input.ColaboradorID == uuid.Nil || input.ClienteID == uuid.Nil || input.DataEntrega.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "colaborador_id, cliente_id and data_entrega are required")
	}
	produtos, err := normalizeProdutos(input.Produtos)
	if err != nil {
		return nil, err
	}
	horario, err := normalizeClock(input.HorarioPrevisto)
	if err != nil {
		return nil, err
	}

	m := &models.Route{
		ColaboradorID:   input.ColaboradorID,
		ClienteID:       input.ClienteID,
		DataEntrega:     input.DataEntrega,
		HorarioPrevisto: horario,
		Produtos:        produtos,
		Observacoes:     optionalText(input.Observacoes),
		Status:          enums.RouteStatusPending,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.LockCollaborator(ctx, m.ColaboradorID); err != nil {
			return db.MapError(err, "collaborator")
		}
		if err := txRepo.ClientExists(ctx, m.ClienteID); err != nil {
			return db.MapError(err, "client")
		}
		next, err := txRepo.NextSequence(ctx, m.ColaboradorID, m.DataEntrega)
		if err != nil {
			return err
		}
		m.Sequence = next
		if err := txRepo.Create(ctx, m); err != nil {
			return err
		}
		return s.emit(ctx, tx, actor, enums.EventRouteCreated, m.ID, payloads.RouteCreatedEvent{RouteSnapshot: snapshot(*m)})
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID, input UpdateInput) (*RouteDTO, error) {
	var updated *models.Route
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		m, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		changed, reschedule, err := applyUpdate(m, input)
		if err != nil {
			return err
		}
		if len(changed) == 0 {
			updated = m
			return nil
		}
		if input.ClienteID != nil {
			if err := txRepo.ClientExists(ctx, m.ClienteID); err != nil {
				return db.MapError(err, "client")
			}
		}
		if reschedule {
			if err := txRepo.LockCollaborator(ctx, m.ColaboradorID); err != nil {
				return db.MapError(err, "collaborator")
			}
			next, err := txRepo.NextSequence(ctx, m.ColaboradorID, m.DataEntrega)
			if err != nil {
				return err
			}
			m.Sequence = next
			changed = append(changed, "sequence")
		}
		if err := txRepo.Save(ctx, m); err != nil {
			return err
		}
		updated = m
		return s.emit(ctx, tx, actor, enums.EventRouteUpdated, m.ID, payloads.RouteUpdatedEvent{
			RouteSnapshot: snapshot(*m),
			Changed:       changed,
		})
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*updated)
	return &dto, nil
}

// applyUpdate copies the provided fields onto m and lists the changed columns.
// reschedule is set when the route moved to another collaborator or day.
func applyUpdate(m *models.Route, input UpdateInput) (changed []string, reschedule bool, err error) {
	if input.ColaboradorID != nil && *input.ColaboradorID != m.ColaboradorID {
		m.ColaboradorID = *input.ColaboradorID
		changed = append(changed, "colaborador_id")
		reschedule = true
	}
	if input.ClienteID != nil && *input.ClienteID != m.ClienteID {
		m.ClienteID = *input.ClienteID
		changed = append(changed, "cliente_id")
	}
	if input.DataEntrega != nil && !input.DataEntrega.IsZero() && *input.DataEntrega != m.DataEntrega {
		m.DataEntrega = *input.DataEntrega
		changed = append(changed, "data_entrega")
		reschedule = true
	}
	if input.HorarioPrevisto != nil {
		horario, err := normalizeClock(input.HorarioPrevisto)
		if err != nil {
			return nil, false, err
		}
		m.HorarioPrevisto = horario
		changed = append(changed, "horario_previsto")
	}
	if input.Produtos != nil {
		produtos, err := normalizeProdutos(input.Produtos)
		if err != nil {
			return nil, false, err
		}
		m.Produtos = produtos
		changed = append(changed, "produtos")
	}
	if input.Observacoes != nil {
		m.Observacoes = optionalText(input.Observacoes)
		changed = append(changed, "observacoes")
	}
	if input.Status != nil {
		parsed, err := enums.ParseRouteStatus(*input.Status)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]string{"status": *input.Status})
		}
		if parsed != m.Status {
			m.Status = parsed
			changed = append(changed, "status")
		}
	}
	return changed, reschedule, nil
}

func (s *service) Delete(ctx context.Context, actor *outbox.ActorRef, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		m, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.emit(ctx, tx, actor, enums.EventRouteDeleted, id, payloads.RouteDeletedEvent{
			RouteID:       id,
			ColaboradorID: m.ColaboradorID,
			DataEntrega:   m.DataEntrega.String(),
		})
	})
	return db.MapError(err, entity)
}

func (s *service) Board(ctx context.Context) (*Board, error) {
	rows, err := s.repo.ListWithRelations(ctx)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	today := s.today()
	board := &Board{Future: []ListItem{}, History: []ListItem{}}
	for _, row := range rows {
		item := toListItem(row)
		if !row.DataEntrega.Before(today) && !status.IsConcluded(row.StatusInput()) {
			board.Future = append(board.Future, item)
			continue
		}
		board.History = append(board.History, item)
	}
	sort.SliceStable(board.Future, func(i, j int) bool {
		return board.Future[i].DataEntrega.Before(board.Future[j].DataEntrega)
	})
	return board, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RouteDTO, error) {
	m, err := s.repo.FindWithRelations(ctx, id)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]RecentItem, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	rows, err := s.repo.ListFinished(ctx, limit)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	out := make([]RecentItem, 0, len(rows))
	for _, row := range rows {
		client := UnknownClient
		if row.Cliente != nil && row.Cliente.Nome != "" {
			client = row.Cliente.Nome
		}
		out = append(out, RecentItem{
			ID:     row.ID,
			Client: client,
			Date:   row.DataEntrega,
			Status: status.Outcome(row.StatusInput()),
		})
	}
	return out, nil
}

func (s *service) Analytics(ctx context.Context, period enums.AnalyticsPeriod) (*AnalyticsReport, error) {
	if !period.IsValid() {
		period = enums.PeriodAll
	}
	from := s.periodStart(period)
	rows, err := s.repo.ListSince(ctx, from)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	report := &AnalyticsReport{Period: period, From: from, Total: len(rows), Items: make([]AnalyticsItem, 0, len(rows))}
	for _, row := range rows {
		input := row.StatusInput()
		resolved := status.Resolve(input)
		delivered := (input.Entregue != nil && *input.Entregue) || resolved == enums.RouteStatusDelivered
		outcome := OutcomeFailure
		switch {
		case delivered:
			report.Delivered++
			outcome = OutcomeSuccess
		case resolved == enums.RouteStatusFailed:
			report.Failed++
		}
		item := AnalyticsItem{ID: row.ID, Date: row.DataEntrega, Client: notAvailable, Driver: notAvailable, Status: outcome}
		if row.Cliente != nil && row.Cliente.Nome != "" {
			item.Client = row.Cliente.Nome
		}
		if row.Colaborador != nil && row.Colaborador.Nome != "" {
			item.Driver = row.Colaborador.Nome
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}

// periodStart returns the first calendar day covered by period, nil for all.
func (s *service) periodStart(period enums.AnalyticsPeriod) *types.Date {
	now := s.now().In(s.loc)
	var from types.Date
	switch period {
	case enums.PeriodDaily:
		from = types.DateOf(now)
	case enums.PeriodWeekly:
		from = types.DateOf(now.AddDate(0, 0, -7))
	case enums.PeriodMonthly:
		from = types.DateOf(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc))
	default:
		return nil
	}
	return &from
}

func (s *service) ExportAnalytics(ctx context.Context, period enums.AnalyticsPeriod) ([]byte, error) {
	report, err := s.Analytics(ctx, period)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteAnalyticsWorkbook(&buf, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render analytics workbook")
	}
	return buf.Bytes(), nil
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

func snapshot(m models.Route) payloads.RouteSnapshot {
	return payloads.RouteSnapshot{
		RouteID:       m.ID,
		ColaboradorID: m.ColaboradorID,
		ClienteID:     m.ClienteID,
		DataEntrega:   m.DataEntrega.String(),
		Sequence:      m.Sequence,
		Status:        m.ResolvedStatus(),
	}
}

// normalizeProdutos accepts a JSON array, defaulting to an empty one.
func normalizeProdutos(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("[]"), nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "produtos must be a JSON array")
	}
	return json.RawMessage(trimmed), nil
}

// normalizeClock turns HH:MM or HH:MM:SS into HH:MM:SS. Blank clears the value.
func normalizeClock(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	layout := time.TimeOnly
	if len(trimmed) == len("15:04") {
		layout = "15:04"
	}
	parsed, err := time.Parse(layout, trimmed)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "horario_previsto must be HH:MM or HH:MM:SS")
	}
	out := parsed.Format(time.TimeOnly)
	return &out, nil
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
