package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces dead-letter queues, e.g. "dlq:jobs:email".
const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with enough context to diagnose and replay it.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failedAt"`
}

// SendToDLQ parks an unprocessable job. Failures here are only logged —
// there is nowhere further to escalate.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload []byte, reason string, attempts int) {
	entry := DLQEntry{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Error:    reason,
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode DLQ entry")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to push DLQ entry")
	}
}
