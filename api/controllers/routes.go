package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/api/middleware"
	"github.com/foguel/delivery-backend/api/responses"
	"github.com/foguel/delivery-backend/api/validators"
	routesvc "github.com/foguel/delivery-backend/internal/routes"
	"github.com/foguel/delivery-backend/pkg/enums"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/logger"
	"github.com/foguel/delivery-backend/pkg/types"
)

const (
	defaultRecentLimit = 4
	maxRecentLimit     = 50
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type createRouteRequest struct {
	ColaboradorID   string          `json:"colaborador_id" validate:"required,uuid"`
	ClienteID       string          `json:"cliente_id" validate:"required,uuid"`
	DataEntrega     string          `json:"data_entrega" validate:"required,ymd"`
	HorarioPrevisto *string         `json:"horario_previsto" validate:"omitempty,hms"`
	Produtos        json.RawMessage `json:"produtos"`
	Observacoes     *string         `json:"observacoes" validate:"omitempty,max=1000"`
}

type updateRouteRequest struct {
	ColaboradorID   *string         `json:"colaborador_id" validate:"omitempty,uuid"`
	ClienteID       *string         `json:"cliente_id" validate:"omitempty,uuid"`
	DataEntrega     *string         `json:"data_entrega" validate:"omitempty,ymd"`
	HorarioPrevisto *string         `json:"horario_previsto" validate:"omitempty,hms"`
	Produtos        json.RawMessage `json:"produtos"`
	Observacoes     *string         `json:"observacoes" validate:"omitempty,max=1000"`
	Status          *string         `json:"status"`
}

func (p createRouteRequest) toInput() (routesvc.CreateInput, error) {
	produtos, err := productsArray(p.Produtos)
	if err != nil {
		return routesvc.CreateInput{}, err
	}
	date, err := types.ParseDate(p.DataEntrega)
	if err != nil {
		return routesvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid data_entrega")
	}
	return routesvc.CreateInput{
		ColaboradorID:   uuid.MustParse(p.ColaboradorID),
		ClienteID:       uuid.MustParse(p.ClienteID),
		DataEntrega:     date,
		HorarioPrevisto: trimmedPtr(p.HorarioPrevisto),
		Produtos:        produtos,
		Observacoes:     validators.SanitizeTextPtr(p.Observacoes, validators.MaxNotesLen),
	}, nil
}

func (p updateRouteRequest) toInput() (routesvc.UpdateInput, error) {
	var input routesvc.UpdateInput
	if len(p.Produtos) > 0 {
		produtos, err := productsArray(p.Produtos)
		if err != nil {
			return input, err
		}
		input.Produtos = produtos
	}
	if p.ColaboradorID != nil {
		id := uuid.MustParse(*p.ColaboradorID)
		input.ColaboradorID = &id
	}
	if p.ClienteID != nil {
		id := uuid.MustParse(*p.ClienteID)
		input.ClienteID = &id
	}
	if p.DataEntrega != nil {
		date, err := types.ParseDate(*p.DataEntrega)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid data_entrega")
		}
		input.DataEntrega = &date
	}
	input.HorarioPrevisto = trimmedPtr(p.HorarioPrevisto)
	input.Observacoes = validators.SanitizeTextPtr(p.Observacoes, validators.MaxNotesLen)
	input.Status = trimmedPtr(p.Status)
	return input, nil
}

// productsArray accepts a missing or null list as empty and rejects anything
// that is not a JSON array.
func productsArray(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage("[]"), nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"produtos": "must be an array"})
	}
	return json.RawMessage(trimmed), nil
}

func CreateRoute(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		var payload createRouteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		route, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, route)
	}
}

func UpdateRoute(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRouteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		route, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, route)
	}
}

func DeleteRoute(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, messageResponse{Message: "Route deleted"})
	}
}

// RouteBoard lists every route split into upcoming work and history.
func RouteBoard(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		board, err := svc.Board(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, board)
	}
}

func GetRoute(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		route, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, route)
	}
}

func RecentRoutes(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultRecentLimit, 1, maxRecentLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// analyticsPeriod treats a missing or unknown period as no lower bound.
func analyticsPeriod(r *http.Request) enums.AnalyticsPeriod {
	period, err := enums.ParseAnalyticsPeriod(r.URL.Query().Get("period"))
	if err != nil {
		return enums.PeriodAll
	}
	return period
}

func RouteAnalytics(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		report, err := svc.Analytics(r.Context(), analyticsPeriod(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ExportRouteAnalytics streams the analytics report as an XLSX attachment.
func ExportRouteAnalytics(svc routesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("route"))
			return
		}

		period := analyticsPeriod(r)
		body, err := svc.ExportAnalytics(r.Context(), period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="route-analytics-%s.xlsx"`, period))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil && logg != nil {
			logg.Warn(r.Context(), "analytics.export_write_failed")
		}
	}
}
