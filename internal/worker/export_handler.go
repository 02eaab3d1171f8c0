package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
)

type ExportTaskHandler struct {
	cfg          *config.Config
	reportEngine *service.ReportEngine
	excelService *service.ExcelService
}

func NewExportTaskHandler(db *sqlx.DB, cfg *config.Config) *ExportTaskHandler {
	ledgerRepo := repository.NewLedgerRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	return &ExportTaskHandler{
		cfg:          cfg,
		reportEngine: service.NewReportEngine(ledgerRepo, accountRepo),
		excelService: service.NewExcelService(),
	}
}

func (h *ExportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ReportExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Exporting %s report %s to %s", payload.Request.ReportType, payload.Request.Start, payload.FileName)

	result, err := h.reportEngine.GenerateReport(payload.Request)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	outputPath := filepath.Join(h.cfg.ExportPath, payload.FileName)
	if err := h.excelService.ExportReport(result, outputPath); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	log.Printf("Report export %s completed", payload.FileName)
	return nil
}
