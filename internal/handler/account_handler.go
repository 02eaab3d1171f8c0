package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type AccountHandler struct {
	accountRepo  *repository.AccountRepository
	excelService *service.ExcelService
	cfg          *config.Config
}

func NewAccountHandler(accountRepo *repository.AccountRepository, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		accountRepo:  accountRepo,
		excelService: service.NewExcelService(),
		cfg:          cfg,
	}
}

func (h *AccountHandler) GetAccounts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	accounts, total, err := h.accountRepo.FindAll(getScopeID(c), params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve accounts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"accounts":   accounts,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Accounts retrieved successfully", responseData, pagination)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	account, err := h.accountRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", err)
	}

	return utils.SuccessResponse(c, "Account retrieved successfully", account)
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	// Validation
	if req.GLAccount == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Account name is required", nil)
	}
	if req.Type != "" && !models.IsValidAccountType(req.Type) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Account type must be one of: %v", models.AccountTypes), nil)
	}

	fs := req.FS
	if fs == "" {
		fs = models.DefaultFS(req.Type)
	}

	account := &models.Account{
		ScopeID:       getScopeID(c),
		GLAccount:     req.GLAccount,
		SubType:       req.SubType,
		Type:          req.Type,
		FS:            fs,
		AccountNumber: req.AccountNumber,
	}

	if err := h.accountRepo.Create(account); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account", err)
	}

	return utils.SuccessResponse(c, "Account created successfully", account)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	var req models.AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.GLAccount == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Account name is required", nil)
	}
	if req.Type != "" && !models.IsValidAccountType(req.Type) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Account type must be one of: %v", models.AccountTypes), nil)
	}

	account, err := h.accountRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Account not found", err)
	}

	account.GLAccount = req.GLAccount
	account.SubType = req.SubType
	account.Type = req.Type
	account.FS = req.FS
	if account.FS == "" {
		account.FS = models.DefaultFS(req.Type)
	}
	account.AccountNumber = req.AccountNumber

	if err := h.accountRepo.Update(account); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update account", err)
	}

	return utils.SuccessResponse(c, "Account updated successfully", account)
}

func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account ID", err)
	}

	if err := h.accountRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete account", err)
	}

	return utils.SuccessResponse(c, "Account deleted successfully", nil)
}

func (h *AccountHandler) ExportAccounts(c *fiber.Ctx) error {
	accounts, err := h.accountRepo.ListByScope(getScopeID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve accounts", err)
	}

	exportFileName := fmt.Sprintf("accounts_export_%s.xlsx", time.Now().Format("20060102_150405"))
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportAccounts(accounts, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export accounts", err)
	}

	return c.Download(exportPath, exportFileName)
}

func (h *AccountHandler) ImportAccounts(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}

	tempPath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("import_%d%s", time.Now().Unix(), ext))
	if err := c.SaveFile(file, tempPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}
	defer os.Remove(tempPath)

	result, err := h.excelService.ParseAccountsWithValidation(tempPath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file: "+err.Error(), err)
	}

	scopeID := getScopeID(c)
	for i := range result.ValidAccounts {
		result.ValidAccounts[i].ScopeID = scopeID
	}

	if result.ValidCount == 0 {
		if len(result.ValidationErrors) > 0 {
			result.ErrorReportPath = h.writeErrorReport(result)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":           false,
			"message":           "No valid accounts found in the file",
			"total_rows":        result.TotalRows,
			"valid_count":       result.ValidCount,
			"error_count":       result.ErrorCount,
			"errors":            result.ValidationErrors,
			"error_report_path": result.ErrorReportPath,
		})
	}

	if err := h.accountRepo.BulkUpsert(result.ValidAccounts); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to import accounts: "+err.Error(), err)
	}

	if len(result.ValidationErrors) > 0 {
		result.ErrorReportPath = h.writeErrorReport(result)
		return c.Status(fiber.StatusPartialContent).JSON(fiber.Map{
			"success":           true,
			"message":           fmt.Sprintf("Import completed with %d errors. %d accounts imported successfully.", result.ErrorCount, result.ValidCount),
			"total_rows":        result.TotalRows,
			"valid_count":       result.ValidCount,
			"error_count":       result.ErrorCount,
			"errors":            getFirstNErrors(result.ValidationErrors, 10),
			"error_report_path": result.ErrorReportPath,
			"total_imported":    result.ValidCount,
		})
	}

	return utils.SuccessResponse(c, "All accounts imported successfully", fiber.Map{
		"total_rows":     result.TotalRows,
		"valid_count":    result.ValidCount,
		"error_count":    result.ErrorCount,
		"total_imported": result.ValidCount,
	})
}

func (h *AccountHandler) writeErrorReport(result *models.AccountImportResult) string {
	reportPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("account_import_errors_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := h.excelService.GenerateImportErrorReport(result.ValidationErrors, result.TotalRows, result.ValidCount, result.ErrorCount, reportPath); err != nil {
		return ""
	}
	return reportPath
}

// DownloadErrorReport downloads a previously generated error report file
func (h *AccountHandler) DownloadErrorReport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Filename is required", nil)
	}

	if !isValidFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	filePath := filepath.Join(h.cfg.ExportPath, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", err)
	}

	return c.Download(filePath, filename)
}
