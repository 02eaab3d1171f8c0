package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeping-web/internal/config"
)

func TestHandleToleratesZeroBatchSize(t *testing.T) {
	// A missing BATCH_SIZE must fall back to flushing every document, not
	// divide by zero.
	h := &PostingTaskHandler{cfg: &config.Config{BatchSize: 0}}

	// An unknown source skips each document without touching the database,
	// so the chunked progress path still runs.
	payload, err := json.Marshal(PostBatchPayload{
		ScopeID:   "s1",
		Source:    "Mystery",
		DocIDs:    []string{"d1", "d2"},
		BatchCode: "batch-1",
	})
	require.NoError(t, err)

	err = h.Handle(context.Background(), asynq.NewTask(TypeLedgerPostBatch, payload))
	assert.NoError(t, err)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	h := &PostingTaskHandler{cfg: &config.Config{BatchSize: 500}}

	err := h.Handle(context.Background(), asynq.NewTask(TypeLedgerPostBatch, []byte("{not json")))
	assert.Error(t, err)
}
