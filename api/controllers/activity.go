package controllers

import (
	"net/http"

	"github.com/foguel/delivery-backend/api/responses"
	"github.com/foguel/delivery-backend/api/validators"
	activitysvc "github.com/foguel/delivery-backend/internal/activity"
	"github.com/foguel/delivery-backend/pkg/logger"
)

// ActivityFeed narrates the most recent change log entries.
func ActivityFeed(svc activitysvc.Service, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	if defaultLimit <= 0 || defaultLimit > activitysvc.MaxFeedLimit {
		defaultLimit = activitysvc.DefaultFeedLimit
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("activity"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, activitysvc.MaxFeedLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Feed(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

func DashboardStats(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("activity"))
			return
		}

		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
