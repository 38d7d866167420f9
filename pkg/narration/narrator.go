// Package narration turns change-log rows into activity feed sentences.
package narration

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/status"
)

// Severity tags an entry for the feed UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

const (
	fallbackText         = "System update"
	fallbackCollaborator = "Collaborator"
	fallbackClient       = "Client"
	fallbackReason       = "not informed"
)

// Record is one row of the activities change log.
type Record struct {
	ID        string
	TableName string
	Action    enums.ActivityAction
	OldData   json.RawMessage
	NewData   json.RawMessage
	ChangedAt time.Time
}

// Names resolves referenced ids to display names.
type Names struct {
	Collaborators map[string]string
	Clients       map[string]string
}

// Entry is the rendered feed item.
type Entry struct {
	ID           string   `json:"id"`
	Severity     Severity `json:"severity"`
	Text         string   `json:"text"`
	RelativeTime string   `json:"relativeTime"`
}

type table int

const (
	tableUnknown table = iota
	tableRoutes
	tableProducts
	tableCollaborators
)

var tableAliases = map[string]table{
	"routes":        tableRoutes,
	"rotas":         tableRoutes,
	"products":      tableProducts,
	"produtos":      tableProducts,
	"collaborators": tableCollaborators,
	"colaboradores": tableCollaborators,
}

func lookupTable(name string) table {
	return tableAliases[strings.ToLower(strings.TrimSpace(name))]
}

// Narrator renders records relative to a clock and a display time zone.
type Narrator struct {
	now func() time.Time
	loc *time.Location
}

// New builds a narrator. A nil loc renders dates in UTC.
func New(loc *time.Location) *Narrator {
	if loc == nil {
		loc = time.UTC
	}
	return &Narrator{now: time.Now, loc: loc}
}

// WithClock returns a copy of the narrator reading time from now.
func (n *Narrator) WithClock(now func() time.Time) *Narrator {
	return &Narrator{now: now, loc: n.loc}
}

// Narrate renders one record. It never fails; anything it cannot interpret
// becomes the generic "System update" row.
func (n *Narrator) Narrate(record Record, names Names) Entry {
	text, severity := Describe(record, names)
	return Entry{
		ID:           record.ID,
		Severity:     severity,
		Text:         text,
		RelativeTime: RelativeTime(n.now(), record.ChangedAt, n.loc),
	}
}

// NarrateAll renders records in order.
func (n *Narrator) NarrateAll(records []Record, names Names) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, n.Narrate(record, names))
	}
	return entries
}

// Describe computes the sentence and severity of a record.
func Describe(record Record, names Names) (string, Severity) {
	switch lookupTable(record.TableName) {
	case tableRoutes:
		return describeRoute(record, names)
	case tableProducts:
		return describeProduct(record)
	case tableCollaborators:
		return describeCollaborator(record)
	}
	return fallbackText, SeverityInfo
}

func describeRoute(record Record, names Names) (string, Severity) {
	before := routeSnapshot(record.OldData)
	after := routeSnapshot(record.NewData)
	collaborator := resolveName(names.Collaborators, firstNonEmpty(after.ColaboradorID, before.ColaboradorID), fallbackCollaborator)
	client := resolveName(names.Clients, firstNonEmpty(after.ClienteID, before.ClienteID), fallbackClient)

	switch record.Action {
	case enums.ActivityInsert:
		return fmt.Sprintf("New route created for %s", client), SeverityInfo
	case enums.ActivityUpdate:
	default:
		return fallbackText, SeverityInfo
	}

	oldStatus, oldKnown := parseStatus(before.Status)
	newStatus, newKnown := parseStatus(after.Status)

	switch {
	case !arrived(before) && arrived(after):
		return fmt.Sprintf("%s arrived at delivery site", collaborator), SeverityInfo
	case !isTrue(before.Entregue) && isTrue(after.Entregue):
		return fmt.Sprintf("%s completed delivery for %s", collaborator, client), SeveritySuccess
	case newKnown && newStatus == enums.RouteStatusFailed && !(oldKnown && oldStatus == enums.RouteStatusFailed):
		reason := fallbackReason
		if after.MotivoNaoEntrega != nil && strings.TrimSpace(*after.MotivoNaoEntrega) != "" {
			reason = strings.TrimSpace(*after.MotivoNaoEntrega)
		}
		return fmt.Sprintf("%s did not deliver. Reason: %s", collaborator, reason), SeverityWarning
	case oldKnown && newKnown && oldStatus == enums.RouteStatusPending && newStatus == enums.RouteStatusEnRoute:
		return fmt.Sprintf("%s started the route", collaborator), SeverityInfo
	case statusChanged(before.Status, after.Status):
		label := strings.ReplaceAll(strings.TrimSpace(*after.Status), "_", " ")
		return fmt.Sprintf("Route status changed to: %s", label), SeverityInfo
	}
	return fallbackText, SeverityInfo
}

func describeProduct(record Record) (string, Severity) {
	name := productSnapshot(record.NewData).Nome
	if name == nil && record.Action == enums.ActivityUpdate {
		name = productSnapshot(record.OldData).Nome
	}
	if name == nil || strings.TrimSpace(*name) == "" {
		return fallbackText, SeverityInfo
	}
	switch record.Action {
	case enums.ActivityInsert:
		return fmt.Sprintf("New product created: %s", *name), SeverityInfo
	case enums.ActivityUpdate:
		return fmt.Sprintf("Product \"%s\" was updated", *name), SeverityInfo
	}
	return fallbackText, SeverityInfo
}

func describeCollaborator(record Record) (string, Severity) {
	if record.Action != enums.ActivityInsert {
		return fallbackText, SeverityInfo
	}
	name := collaboratorSnapshot(record.NewData).Nome
	if name == nil || strings.TrimSpace(*name) == "" {
		return fallbackText, SeverityInfo
	}
	return fmt.Sprintf("New collaborator registered: %s", *name), SeverityInfo
}

// ReferencedIDs collects the collaborator and client ids a batch of records
// points at, for a single name lookup round trip.
func ReferencedIDs(records []Record) (collaboratorIDs, clientIDs []string) {
	seenCollab := map[string]struct{}{}
	seenClient := map[string]struct{}{}
	for _, record := range records {
		if lookupTable(record.TableName) != tableRoutes {
			continue
		}
		before := routeSnapshot(record.OldData)
		after := routeSnapshot(record.NewData)
		if id := firstNonEmpty(after.ColaboradorID, before.ColaboradorID); id != "" {
			if _, ok := seenCollab[id]; !ok {
				seenCollab[id] = struct{}{}
				collaboratorIDs = append(collaboratorIDs, id)
			}
		}
		if id := firstNonEmpty(after.ClienteID, before.ClienteID); id != "" {
			if _, ok := seenClient[id]; !ok {
				seenClient[id] = struct{}{}
				clientIDs = append(clientIDs, id)
			}
		}
	}
	return collaboratorIDs, clientIDs
}

func arrived(s RouteSnapshot) bool {
	return status.HasArrived(status.Route{HorarioReal: s.HorarioReal, HorarioChegada: s.HorarioChegada})
}

func parseStatus(raw *string) (enums.RouteStatus, bool) {
	if raw == nil {
		return "", false
	}
	parsed, err := enums.ParseRouteStatus(*raw)
	if err != nil {
		return "", false
	}
	return parsed, true
}

// statusChanged compares canonical values when both sides parse and the raw
// text otherwise. An absent new status never counts as a change.
func statusChanged(before, after *string) bool {
	if after == nil || strings.TrimSpace(*after) == "" {
		return false
	}
	if before == nil {
		return true
	}
	oldStatus, oldOK := parseStatus(before)
	newStatus, newOK := parseStatus(after)
	if oldOK && newOK {
		return oldStatus != newStatus
	}
	return strings.TrimSpace(*before) != strings.TrimSpace(*after)
}

func resolveName(lookup map[string]string, id, fallback string) string {
	if id == "" {
		return fallback
	}
	if name, ok := lookup[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTrue(v *bool) bool { return v != nil && *v }
