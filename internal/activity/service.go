package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/narration"
	"github.com/foguel/delivery-backend/pkg/types"
)

const (
	DefaultFeedLimit = 5
	MaxFeedLimit     = 50
)

// NameLookup resolves ids to display names in one query.
type NameLookup interface {
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[string]string, error)
}

// DashboardStats counts today's routes by resolved status.
type DashboardStats struct {
	TotalEntregas int `json:"totalEntregas"`
	Concluidas    int `json:"concluidas"`
	Pendentes     int `json:"pendentes"`
	Ocorrencias   int `json:"ocorrencias"`
}

// Service renders the activity feed and the dashboard counters.
type Service interface {
	Feed(ctx context.Context, limit int) ([]narration.Entry, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// ServiceParams wires the activity service.
type ServiceParams struct {
	Repository    *Repository
	Collaborators NameLookup
	Clients       NameLookup
	Logger        *logger.Logger
	Location      *time.Location
	FeedLimit     int
	Now           func() time.Time
}

type service struct {
	repo          *Repository
	collaborators NameLookup
	clients       NameLookup
	logg          *logger.Logger
	narrator      *narration.Narrator
	loc           *time.Location
	feedLimit     int
	now           func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if params.Collaborators == nil || params.Clients == nil {
		return nil, fmt.Errorf("name lookups required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	limit := params.FeedLimit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &service{
		repo:          params.Repository,
		collaborators: params.Collaborators,
		clients:       params.Clients,
		logg:          params.Logger,
		narrator:      narration.New(loc).WithClock(now),
		loc:           loc,
		feedLimit:     limit,
		now:           now,
	}, nil
}

func (s *service) Feed(ctx context.Context, limit int) ([]narration.Entry, error) {
	if limit <= 0 {
		limit = s.feedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	rows, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, db.MapError(err, "activity")
	}
	records := make([]narration.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}

	collabIDs, clientIDs := narration.ReferencedIDs(records)
	names := narration.Names{
		Collaborators: s.lookup(ctx, s.collaborators, collabIDs),
		Clients:       s.lookup(ctx, s.clients, clientIDs),
	}
	return s.narrator.NarrateAll(records, names), nil
}

// lookup resolves the parseable ids. A failed lookup degrades to fallback
// names instead of failing the feed.
func (s *service) lookup(ctx context.Context, source NameLookup, raw []string) map[string]string {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		if id, err := uuid.Parse(value); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[string]string{}
	}
	names, err := source.NamesByIDs(ctx, ids)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "activity name lookup failed")
		}
		return map[string]string{}
	}
	return names
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	rows, err := s.repo.RoutesOn(ctx, types.DateOf(s.now().In(s.loc)))
	if err != nil {
		return nil, db.MapError(err, "route")
	}
	stats := &DashboardStats{TotalEntregas: len(rows)}
	for _, row := range rows {
		switch row.ResolvedStatus() {
		case enums.RouteStatusDelivered:
			stats.Concluidas++
		case enums.RouteStatusFailed:
			stats.Ocorrencias++
		default:
			stats.Pendentes++
		}
	}
	return stats, nil
}

func (s *service) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, db.MapError(err, "activity")
	}
	return deleted, nil
}

func toRecord(row models.Activity) narration.Record {
	action, err := enums.ParseActivityAction(row.Action)
	if err != nil {
		action = enums.ActivityAction(row.Action)
	}
	return narration.Record{
		ID:        strconv.FormatInt(row.Idx, 10),
		TableName: row.Table,
		Action:    action,
		OldData:   row.OldData,
		NewData:   row.NewData,
		ChangedAt: row.ChangedAt,
	}
}
