package enums

import "fmt"

// OutboxAggregateType identifies the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateRoute OutboxAggregateType = "route"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateRoute,
}

// IsValid reports whether the value matches a known aggregate.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType names the domain event carried by an outbox row.
type OutboxEventType string

const (
	EventRouteCreated       OutboxEventType = "route.created"
	EventRouteUpdated       OutboxEventType = "route.updated"
	EventRouteDeleted       OutboxEventType = "route.deleted"
	EventRouteStatusChanged OutboxEventType = "route.status_changed"
	EventRouteWaitUpdated   OutboxEventType = "route.wait_updated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventRouteCreated,
	EventRouteUpdated,
	EventRouteDeleted,
	EventRouteStatusChanged,
	EventRouteWaitUpdated,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
