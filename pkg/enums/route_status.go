package enums

import (
	"fmt"
	"strings"
)

// RouteStatus is the display-facing delivery state of a route.
type RouteStatus string

const (
	RouteStatusPending   RouteStatus = "pending"
	RouteStatusEnRoute   RouteStatus = "en_route"
	RouteStatusWaiting   RouteStatus = "waiting"
	RouteStatusDelivered RouteStatus = "delivered"
	RouteStatusFailed    RouteStatus = "failed"
	RouteStatusCancelled RouteStatus = "cancelled"
)

var validRouteStatuses = []RouteStatus{
	RouteStatusPending,
	RouteStatusEnRoute,
	RouteStatusWaiting,
	RouteStatusDelivered,
	RouteStatusFailed,
	RouteStatusCancelled,
}

// legacyRouteStatuses maps literals written by the first generation of the
// driver app onto the canonical set.
var legacyRouteStatuses = map[string]RouteStatus{
	"pendente":     RouteStatusPending,
	"em_rota":      RouteStatusEnRoute,
	"em_espera":    RouteStatusWaiting,
	"entregue":     RouteStatusDelivered,
	"nao_entregue": RouteStatusFailed,
	"cancelado":    RouteStatusCancelled,
	"concluido":    RouteStatusDelivered,
}

// String implements fmt.Stringer.
func (s RouteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a canonical RouteStatus.
func (s RouteStatus) IsValid() bool {
	for _, candidate := range validRouteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the route reached an outcome.
func (s RouteStatus) IsTerminal() bool {
	switch s {
	case RouteStatusDelivered, RouteStatusFailed, RouteStatusCancelled:
		return true
	}
	return false
}

// ParseRouteStatus converts raw input into a RouteStatus. Legacy literals are
// accepted case-insensitively.
func ParseRouteStatus(value string) (RouteStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRouteStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if legacy, ok := legacyRouteStatuses[normalized]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("invalid route status %q", value)
}

// RouteStatusLiterals lists every stored spelling of the given statuses:
// the canonical value plus legacy literals in lower and upper case. Used to
// filter on the raw status column.
func RouteStatusLiterals(statuses ...RouteStatus) []string {
	var out []string
	for _, s := range statuses {
		out = append(out, string(s))
		for legacy, canonical := range legacyRouteStatuses {
			if canonical == s {
				out = append(out, legacy, strings.ToUpper(legacy))
			}
		}
	}
	return out
}
