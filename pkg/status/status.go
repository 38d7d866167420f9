// Package status derives the display status of a delivery route from its raw
// columns. Every listing and detail endpoint goes through Resolve so the
// authority policy is applied once: a persisted status wins unless it is empty
// or still the "pending" placeholder, in which case the outcome columns decide.
package status

import (
	"strings"

	"github.com/foguel/delivery-backend/pkg/enums"
)

// Route carries the raw columns the resolver looks at. All fields are optional.
type Route struct {
	Status           *string
	Entregue         *bool
	HorarioReal      *string
	HorarioChegada   *string
	MotivoNaoEntrega *string
}

// Resolve returns the canonical status of a route. It never fails: a route
// with every field absent is pending. A persisted status other than pending
// beats the entregue flag.
func Resolve(route Route) enums.RouteStatus {
	if persisted, ok := persistedStatus(route); ok && persisted != enums.RouteStatusPending {
		return persisted
	}
	switch {
	case isTrue(route.Entregue):
		return enums.RouteStatusDelivered
	case isFalse(route.Entregue) && present(route.MotivoNaoEntrega):
		return enums.RouteStatusFailed
	case HasArrived(route) && !isTrue(route.Entregue):
		return enums.RouteStatusWaiting
	}
	return enums.RouteStatusPending
}

// IsConcluded reports whether a route left the to-do list: delivered by flag,
// or persisted as delivered, failed or cancelled.
func IsConcluded(route Route) bool {
	if isTrue(route.Entregue) {
		return true
	}
	persisted, ok := persistedStatus(route)
	return ok && persisted.IsTerminal()
}

// Outcome collapses a finished route into delivered or failed.
func Outcome(route Route) enums.RouteStatus {
	if isTrue(route.Entregue) || Resolve(route) == enums.RouteStatusDelivered {
		return enums.RouteStatusDelivered
	}
	return enums.RouteStatusFailed
}

// HasArrived reports whether either arrival column is filled.
func HasArrived(route Route) bool {
	return present(route.HorarioReal) || present(route.HorarioChegada)
}

func persistedStatus(route Route) (enums.RouteStatus, bool) {
	if route.Status == nil {
		return "", false
	}
	parsed, err := enums.ParseRouteStatus(*route.Status)
	if err != nil {
		return "", false
	}
	return parsed, true
}

func isTrue(v *bool) bool  { return v != nil && *v }
func isFalse(v *bool) bool { return v != nil && !*v }

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
