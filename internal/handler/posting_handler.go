package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/utils"
	"bookkeeping-web/internal/worker"
)

// PostingHandler schedules background batch posting and exposes its
// progress. The actual ledger work happens in the worker process.
type PostingHandler struct {
	asynqClient *asynq.Client
	redisClient *redis.Client
}

func NewPostingHandler(asynqClient *asynq.Client, redisClient *redis.Client) *PostingHandler {
	return &PostingHandler{
		asynqClient: asynqClient,
		redisClient: redisClient,
	}
}

type postBatchRequest struct {
	Source string   `json:"source"`
	DocIDs []string `json:"doc_ids"`
}

func (h *PostingHandler) EnqueueBatch(c *fiber.Ctx) error {
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background jobs are not available", nil)
	}

	var req postBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if len(req.DocIDs) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "At least one document ID is required", nil)
	}
	switch req.Source {
	case models.SourceBankTransaction, models.SourceJournalEntry, models.SourceSalesInvoice, models.SourcePurchaseBill:
	default:
		return utils.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown source %q", req.Source), nil)
	}

	batchCode := uuid.New().String()
	payload, err := json.Marshal(worker.PostBatchPayload{
		ScopeID:   getScopeID(c),
		Source:    req.Source,
		DocIDs:    req.DocIDs,
		BatchCode: batchCode,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build batch job", err)
	}

	info, err := h.asynqClient.Enqueue(asynq.NewTask(worker.TypeLedgerPostBatch, payload))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to enqueue batch job", err)
	}

	return utils.SuccessResponse(c, "Batch posting scheduled", fiber.Map{
		"batch_code": batchCode,
		"task_id":    info.ID,
		"queue":      info.Queue,
		"requested":  len(req.DocIDs),
	})
}

func (h *PostingHandler) GetBatchProgress(c *fiber.Ctx) error {
	if h.redisClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Progress tracking is not available", nil)
	}

	batchCode := c.Params("batch_code")
	raw, err := h.redisClient.Get(c.Context(), worker.BatchProgressKey(batchCode)).Result()
	if err == redis.Nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Batch not found", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read batch progress", err)
	}

	var progress worker.BatchProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to decode batch progress", err)
	}

	return utils.SuccessResponse(c, "Batch progress retrieved successfully", progress)
}
