package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-assistant/internal/config"
	"github.com/stemsi/exstem-assistant/internal/protocol"
)

// auditPayload is the queued form of one observed answer.
type auditPayload struct {
	ClientID   string `json:"client_id"`
	QIndex     int    `json:"q_index"`
	Answer     string `json:"answer"`
	AnsweredBy string `json:"answered_by"`
	ObservedAt int64  `json:"observed_at"`
}

// AuditQueue publishes observed answers onto the Redis audit queue. It
// implements reconcile.AuditSink. Failures are logged and dropped; the audit
// trail must never stall reconciliation.
type AuditQueue struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAuditQueue creates an AuditQueue.
func NewAuditQueue(rdb *redis.Client, log zerolog.Logger) *AuditQueue {
	return &AuditQueue{
		rdb: rdb,
		log: log.With().Str("component", "audit_queue").Logger(),
	}
}

// RecordAnswer enqueues one processedAnswer for persistence.
func (q *AuditQueue) RecordAnswer(ev protocol.ProcessedAnswer) {
	payload, _ := json.Marshal(auditPayload{
		ClientID:   ev.ClientID,
		QIndex:     ev.QIndex,
		Answer:     ev.Answer,
		AnsweredBy: ev.AnsweredBy,
		ObservedAt: time.Now().Unix(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := q.rdb.RPush(ctx, config.WorkerKey.AuditAnswersQueue, payload).Err(); err != nil {
		q.log.Error().Err(err).
			Str("client_id", ev.ClientID).
			Msg("Failed to enqueue audit record")
	}
}
