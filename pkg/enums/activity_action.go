package enums

import (
	"fmt"
	"strings"
)

// ActivityAction is the DML verb captured by the activity triggers.
type ActivityAction string

const (
	ActivityInsert ActivityAction = "INSERT"
	ActivityUpdate ActivityAction = "UPDATE"
	ActivityDelete ActivityAction = "DELETE"
)

var validActivityActions = []ActivityAction{
	ActivityInsert,
	ActivityUpdate,
	ActivityDelete,
}

func (a ActivityAction) String() string {
	return string(a)
}

func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	normalized := ActivityAction(strings.ToUpper(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
