package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type JournalHandler struct {
	journalRepo  *repository.JournalRepository
	engine       *service.PostingEngine
	excelService *service.ExcelService
	cfg          *config.Config
}

func NewJournalHandler(journalRepo *repository.JournalRepository, engine *service.PostingEngine, cfg *config.Config) *JournalHandler {
	return &JournalHandler{
		journalRepo:  journalRepo,
		engine:       engine,
		excelService: service.NewExcelService(),
		cfg:          cfg,
	}
}

func (h *JournalHandler) GetSets(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	sets, total, err := h.journalRepo.FindSets(getScopeID(c), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve journal entries", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Journal entries retrieved successfully", fiber.Map{
		"journal_sets": sets,
		"pagination":   pagination,
	}, pagination)
}

func (h *JournalHandler) GetSet(c *fiber.Ctx) error {
	set, err := h.journalRepo.FindSet(getScopeID(c), c.Params("set_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Journal entry not found", err)
	}

	return utils.SuccessResponse(c, "Journal entry retrieved successfully", set)
}

func (h *JournalHandler) CreateSet(c *fiber.Ctx) error {
	var req struct {
		JournalSetID string                      `json:"journal_set_id"`
		Lines        []models.JournalLineRequest `json:"lines"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	setID := req.JournalSetID
	if setID == "" {
		setID = uuid.New().String()
	}

	scopeID := getScopeID(c)
	lines := make([]models.JournalEntryLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		lines = append(lines, models.JournalEntryLine{
			ScopeID:          scopeID,
			JournalSetID:     setID,
			Date:             lr.Date,
			Description:      lr.Description,
			GLAccount:        lr.GLAccount,
			VendorOrCustomer: lr.VendorOrCustomer,
			DebitAmount:      lr.DebitAmount,
			CreditAmount:     lr.CreditAmount,
		})
	}

	if errs := service.ValidateJournalLines(lines); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Journal entry failed validation",
			"errors":  errs,
		})
	}

	if err := h.journalRepo.CreateSet(lines); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create journal entry", err)
	}

	return utils.SuccessResponse(c, "Journal entry created successfully", fiber.Map{
		"journal_set_id": setID,
		"line_count":     len(lines),
	})
}

func (h *JournalHandler) DeleteSet(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	setID := c.Params("set_id")

	set, err := h.journalRepo.FindSet(scopeID, setID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Journal entry not found", err)
	}
	if set.IsLedgerApproved {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Posted journal entries cannot be deleted; unpost first", nil)
	}

	if err := h.journalRepo.DeleteSet(scopeID, setID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete journal entry", err)
	}

	return utils.SuccessResponse(c, "Journal entry deleted successfully", nil)
}

func (h *JournalHandler) PostSet(c *fiber.Ctx) error {
	scopeID := getScopeID(c)

	set, err := h.journalRepo.FindSet(scopeID, c.Params("set_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Journal entry not found", err)
	}

	postings, err := h.engine.PostDocument(scopeID, *set)
	if err != nil {
		return postingErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Journal entry posted to ledger", fiber.Map{
		"journal_set_id": set.JournalSetID,
		"postings":       postings,
	})
}

func (h *JournalHandler) UnpostSet(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	setID := c.Params("set_id")

	if err := h.engine.Unpost(scopeID, models.SourceJournalEntry, setID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to unpost journal entry", err)
	}

	return utils.SuccessResponse(c, "Journal entry removed from ledger", fiber.Map{
		"journal_set_id": setID,
	})
}

func (h *JournalHandler) DownloadTemplate(c *fiber.Ctx) error {
	fileName := "journal_import_template.xlsx"
	filePath := filepath.Join(h.cfg.ExportPath, fileName)

	if err := h.excelService.GenerateJournalTemplate(filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(filePath, fileName)
}

// ImportJournal uploads a journal spreadsheet, validates each set, and
// stores the valid ones unposted. Sets that fail balance validation are
// reported and skipped; they never reach the ledger.
func (h *JournalHandler) ImportJournal(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}

	tempPath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("journal_import_%d%s", time.Now().Unix(), ext))
	if err := c.SaveFile(file, tempPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}
	defer os.Remove(tempPath)

	result, err := h.excelService.ParseJournalWithValidation(tempPath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file: "+err.Error(), err)
	}

	scopeID := getScopeID(c)
	importedSetIDs := make([]string, 0, len(result.ValidSets))
	for _, set := range result.ValidSets {
		// Imported set ids are file-local; remint them so repeated imports
		// of the same file do not collide.
		setID := uuid.New().String()
		for i := range set.Lines {
			set.Lines[i].ScopeID = scopeID
			set.Lines[i].JournalSetID = setID
		}
		if err := h.journalRepo.CreateSet(set.Lines); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store imported journal entries", err)
		}
		importedSetIDs = append(importedSetIDs, setID)
	}

	status := fiber.StatusOK
	message := "All journal entries imported successfully"
	if len(result.SetErrors) > 0 || len(result.ValidationErrors) > 0 {
		status = fiber.StatusPartialContent
		message = fmt.Sprintf("Import completed: %d sets imported, %d sets rejected", len(importedSetIDs), len(result.SetErrors))
		if len(importedSetIDs) == 0 {
			status = fiber.StatusBadRequest
			message = "No valid journal entries found in the file"
		}
	}

	if len(result.ValidationErrors) > 0 {
		reportPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("journal_import_errors_%s.xlsx", time.Now().Format("20060102_150405")))
		if err := h.excelService.GenerateImportErrorReport(result.ValidationErrors, result.TotalRows, result.ValidCount, result.ErrorCount, reportPath); err == nil {
			result.ErrorReportPath = reportPath
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"success":           status != fiber.StatusBadRequest,
		"message":           message,
		"imported_set_ids":  importedSetIDs,
		"total_rows":        result.TotalRows,
		"valid_count":       result.ValidCount,
		"error_count":       result.ErrorCount,
		"set_errors":        result.SetErrors,
		"errors":            getFirstNErrors(result.ValidationErrors, 10),
		"error_report_path": result.ErrorReportPath,
	})
}
