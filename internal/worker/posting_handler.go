package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
)

// progressTTL bounds how long finished batch progress lingers in Redis.
const progressTTL = 24 * time.Hour

type PostingTaskHandler struct {
	redis       *redis.Client
	cfg         *config.Config
	engine      *service.PostingEngine
	bankRepo    *repository.BankRepository
	journalRepo *repository.JournalRepository
	invoiceRepo *repository.InvoiceRepository
}

func NewPostingTaskHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *PostingTaskHandler {
	ledgerRepo := repository.NewLedgerRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	contactRepo := repository.NewContactRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	engine := service.NewPostingEngine(ledgerRepo, accountRepo, contactRepo, documentRepo, cfg.ARAccount, cfg.APAccount)

	return &PostingTaskHandler{
		redis:       redisClient,
		cfg:         cfg,
		engine:      engine,
		bankRepo:    repository.NewBankRepository(db),
		journalRepo: repository.NewJournalRepository(db),
		invoiceRepo: repository.NewInvoiceRepository(db),
	}
}

func (h *PostingTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload PostBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Starting batch posting %s: %d %s document(s)", payload.BatchCode, len(payload.DocIDs), payload.Source)

	progress := BatchProgress{
		BatchCode: payload.BatchCode,
		Status:    "processing",
		Requested: len(payload.DocIDs),
		Skipped:   map[string]string{},
	}
	h.saveProgress(ctx, &progress)

	// Progress is flushed to Redis once per chunk rather than per document;
	// large imports would otherwise hammer Redis with thousands of writes.
	chunk := h.cfg.BatchSize
	if chunk < 1 {
		chunk = 1
	}

	for _, docID := range payload.DocIDs {
		doc, err := h.loadDocument(payload.ScopeID, payload.Source, docID)
		if err != nil {
			progress.Skipped[docID] = err.Error()
		} else if _, err := h.engine.PostDocument(payload.ScopeID, doc); err != nil {
			progress.Skipped[docID] = err.Error()
		} else {
			progress.PostedCount++
		}

		progress.Processed++
		if progress.Processed%chunk == 0 {
			h.saveProgress(ctx, &progress)
		}
	}

	progress.Status = "completed"
	h.saveProgress(ctx, &progress)

	log.Printf("Batch posting %s completed. Posted: %d, Skipped: %d",
		payload.BatchCode, progress.PostedCount, len(progress.Skipped))

	return nil
}

func (h *PostingTaskHandler) loadDocument(scopeID, source, docID string) (models.SourceDocument, error) {
	switch source {
	case models.SourceBankTransaction:
		txn, err := h.bankRepo.FindByDocID(scopeID, docID)
		if err != nil {
			return nil, err
		}
		return *txn, nil
	case models.SourceJournalEntry:
		set, err := h.journalRepo.FindSet(scopeID, docID)
		if err != nil {
			return nil, err
		}
		return *set, nil
	case models.SourceSalesInvoice:
		inv, err := h.invoiceRepo.FindInvoiceByDocID(scopeID, docID)
		if err != nil {
			return nil, err
		}
		return *inv, nil
	case models.SourcePurchaseBill:
		bill, err := h.invoiceRepo.FindBillByDocID(scopeID, docID)
		if err != nil {
			return nil, err
		}
		return *bill, nil
	}
	return nil, fmt.Errorf("unknown source %q", source)
}

func (h *PostingTaskHandler) saveProgress(ctx context.Context, progress *BatchProgress) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(progress)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, BatchProgressKey(progress.BatchCode), data, progressTTL).Err(); err != nil {
		log.Printf("Failed to update batch progress %s: %v", progress.BatchCode, err)
	}
}
