package handler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
	"bookkeeping-web/internal/worker"
)

type ReportHandler struct {
	reportEngine *service.ReportEngine
	excelService *service.ExcelService
	asynqClient  *asynq.Client
	cfg          *config.Config
}

func NewReportHandler(reportEngine *service.ReportEngine, asynqClient *asynq.Client, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportEngine: reportEngine,
		excelService: service.NewExcelService(),
		asynqClient:  asynqClient,
		cfg:          cfg,
	}
}

func (h *ReportHandler) reportRequestFromQuery(c *fiber.Ctx) models.ReportRequest {
	granularity := c.Query("granularity")
	if granularity == "" {
		granularity = models.GranularitySummary
	}
	return models.ReportRequest{
		ScopeID:     getScopeID(c),
		ReportType:  c.Query("report_type"),
		Start:       c.Query("start"),
		End:         c.Query("end"),
		Granularity: granularity,
	}
}

// GenerateReport builds a P&L or balance sheet over the requested range.
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	req := h.reportRequestFromQuery(c)
	if req.ReportType == "" || req.Start == "" || req.End == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "report_type, start and end are required", nil)
	}

	result, err := h.reportEngine.GenerateReport(req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to generate report", err)
	}

	return utils.SuccessResponse(c, "Report generated successfully", result)
}

// ExportReport generates the report and streams it as an Excel download.
func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	req := h.reportRequestFromQuery(c)
	if req.ReportType == "" || req.Start == "" || req.End == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "report_type, start and end are required", nil)
	}

	result, err := h.reportEngine.GenerateReport(req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to generate report", err)
	}

	fileName := fmt.Sprintf("%s_%s_%s.xlsx", req.ReportType, req.Start, time.Now().Format("20060102_150405"))
	filePath := filepath.Join(h.cfg.ExportPath, fileName)

	if err := h.excelService.ExportReport(result, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export report", err)
	}

	return c.Download(filePath, fileName)
}

// EnqueueExport schedules a report export as a background job. Useful for
// long ranges where the synchronous export would hold the request open.
func (h *ReportHandler) EnqueueExport(c *fiber.Ctx) error {
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background jobs are not available", nil)
	}

	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ScopeID == "" {
		req.ScopeID = getScopeID(c)
	}
	if req.Granularity == "" {
		req.Granularity = models.GranularitySummary
	}
	if req.ReportType == "" || req.Start == "" || req.End == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "report_type, start and end are required", nil)
	}

	fileName := fmt.Sprintf("%s_%s_%s.xlsx", req.ReportType, req.Start, time.Now().Format("20060102_150405"))
	payload, err := json.Marshal(worker.ReportExportPayload{
		Request:  req,
		FileName: fileName,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build export job", err)
	}

	info, err := h.asynqClient.Enqueue(asynq.NewTask(worker.TypeReportExport, payload))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to enqueue export job", err)
	}

	return utils.SuccessResponse(c, "Report export scheduled", fiber.Map{
		"task_id":      info.ID,
		"queue":        info.Queue,
		"file_name":    fileName,
		"download_url": fmt.Sprintf("%s/api/v1/reports/export/%s", h.cfg.AppURL, fileName),
	})
}

// DownloadExport fetches a previously exported report file.
func (h *ReportHandler) DownloadExport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if !isValidFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	filePath := filepath.Join(h.cfg.ExportPath, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Export file not found", err)
	}

	return c.Download(filePath, filename)
}
