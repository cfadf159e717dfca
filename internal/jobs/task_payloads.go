package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeNightlySweep = "attendance:nightly_sweep"

// SweepPayload carries the day being swept. Empty means "today" as of
// handler execution.
type SweepPayload struct {
	Day string `json:"day"`
}

func NewNightlySweepTask(day string) (*asynq.Task, error) {
	payload, err := json.Marshal(SweepPayload{Day: day})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNightlySweep, payload), nil
}
