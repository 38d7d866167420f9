package controllers

import (
	"net/http"

	"github.com/foguel/delivery-backend/api/middleware"
	"github.com/foguel/delivery-backend/api/responses"
	"github.com/foguel/delivery-backend/api/validators"
	deliverysvc "github.com/foguel/delivery-backend/internal/deliveries"
	"github.com/foguel/delivery-backend/pkg/logger"
)

type finishSuccessRequest struct {
	QuemRecebeu         string  `json:"quem_recebeu" validate:"required,max=160"`
	Observacoes         *string `json:"observacoes" validate:"omitempty,max=1000"`
	TempoEsperaSegundos *int    `json:"tempo_espera_segundos" validate:"omitempty,gte=0"`
}

type finishFailureRequest struct {
	MotivoNaoEntrega    string  `json:"motivo_nao_entrega" validate:"required,max=500"`
	Observacoes         *string `json:"observacoes" validate:"omitempty,max=1000"`
	TempoEsperaSegundos *int    `json:"tempo_espera_segundos" validate:"omitempty,gte=0"`
}

type updateWaitingRequest struct {
	TempoEsperaSegundos *int `json:"tempo_espera_segundos" validate:"required,gte=0"`
}

// TodayDeliveries lists a collaborator's stops for today in visiting order.
func TodayDeliveries(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		colaboradorID, err := uuidParam(r, "colaborador_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Today(r.Context(), middleware.ActorFromContext(r.Context()), colaboradorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func DeliveryDetails(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		details, err := svc.Details(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, details)
	}
}

func RegisterArrival(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Arrival(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func CancelArrival(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CancelArrival(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func FinishDeliverySuccess(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload finishSuccessRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FinishSuccess(r.Context(), middleware.ActorFromContext(r.Context()), id, deliverysvc.SuccessInput{
			QuemRecebeu:         validators.SanitizeText(payload.QuemRecebeu, validators.MaxReceiverLen),
			Observacoes:         validators.SanitizeTextPtr(payload.Observacoes, validators.MaxNotesLen),
			TempoEsperaSegundos: payload.TempoEsperaSegundos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func FinishDeliveryFailure(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload finishFailureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.FinishFailure(r.Context(), middleware.ActorFromContext(r.Context()), id, deliverysvc.FailureInput{
			MotivoNaoEntrega:    validators.SanitizeText(payload.MotivoNaoEntrega, validators.MaxReasonLen),
			Observacoes:         validators.SanitizeTextPtr(payload.Observacoes, validators.MaxNotesLen),
			TempoEsperaSegundos: payload.TempoEsperaSegundos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func UpdateWaiting(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateWaitingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateWaiting(r.Context(), middleware.ActorFromContext(r.Context()), id, *payload.TempoEsperaSegundos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func DeliveryStats(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("delivery"))
			return
		}

		colaboradorID, err := uuidParam(r, "colaborador_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), middleware.ActorFromContext(r.Context()), colaboradorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
