package messages

import (
	"encoding/json"
	"fmt"
)

func SerializeStatus(s *Status) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize status: %v", err)
	}
	return b, nil
}

func DeserializeStatus(b []byte) (*Status, error) {
	s := &Status{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to deserialize status: %v", err)
	}
	return s, nil
}

func SerializeTimerEvent(e *TimerEvent) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize timer event: %v", err)
	}
	return b, nil
}

func DeserializeTimerEvent(b []byte) (*TimerEvent, error) {
	e := &TimerEvent{}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, fmt.Errorf("failed to deserialize timer event: %v", err)
	}
	return e, nil
}
