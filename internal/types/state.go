package types

import (
	"encoding/json"
	"fmt"
)

// MonitorState is the closed set of health states a monitor can report.
// Any state may follow any other; transitions are not restricted.
type MonitorState string

const (
	StateNormal      MonitorState = "Normal"
	StateWarning     MonitorState = "Warning"
	StateCritical    MonitorState = "Critical"
	StateMissingData MonitorState = "Missing Data"
)

var AllStates = []MonitorState{
	StateNormal,
	StateWarning,
	StateCritical,
	StateMissingData,
}

func (s MonitorState) Valid() bool {
	switch s {
	case StateNormal, StateWarning, StateCritical, StateMissingData:
		return true
	}
	return false
}

func (s MonitorState) String() string {
	return string(s)
}

// UnmarshalJSON rejects values outside the enumeration so an invalid state
// never reaches the store.
func (s *MonitorState) UnmarshalJSON(data []byte) error {
	var raw string

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	state := MonitorState(raw)

	if !state.Valid() {
		return fmt.Errorf("invalid monitor state: %q", raw)
	}

	*s = state
	return nil
}
