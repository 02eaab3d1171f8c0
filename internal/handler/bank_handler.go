package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type BankHandler struct {
	bankRepo *repository.BankRepository
	engine   *service.PostingEngine
}

func NewBankHandler(bankRepo *repository.BankRepository, engine *service.PostingEngine) *BankHandler {
	return &BankHandler{
		bankRepo: bankRepo,
		engine:   engine,
	}
}

func (h *BankHandler) GetTransactions(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	txns, total, err := h.bankRepo.FindAll(getScopeID(c), params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve bank transactions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Bank transactions retrieved successfully", fiber.Map{
		"transactions": txns,
		"pagination":   pagination,
	}, pagination)
}

func (h *BankHandler) GetTransaction(c *fiber.Ctx) error {
	txn, err := h.bankRepo.FindByDocID(getScopeID(c), c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bank transaction not found", err)
	}

	return utils.SuccessResponse(c, "Bank transaction retrieved successfully", txn)
}

func (h *BankHandler) CreateTransaction(c *fiber.Ctx) error {
	var req models.BankTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Date == "" || req.GLAccount == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date and GL account are required", nil)
	}
	if req.Direction != models.BankMoneyReceived && req.Direction != models.BankMoneyPaid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Direction must be Received or Paid", nil)
	}
	if req.Amount <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Amount must be positive", nil)
	}

	txn := &models.BankTransaction{
		ScopeID:      getScopeID(c),
		DocID:        uuid.New().String(),
		Date:         req.Date,
		Description:  req.Description,
		GLAccount:    req.GLAccount,
		Direction:    req.Direction,
		Amount:       req.Amount,
		Counterparty: req.Counterparty,
	}

	if err := h.bankRepo.Create(txn); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create bank transaction", err)
	}

	return utils.SuccessResponse(c, "Bank transaction created successfully", txn)
}

func (h *BankHandler) UpdateTransaction(c *fiber.Ctx) error {
	txn, err := h.bankRepo.FindByDocID(getScopeID(c), c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bank transaction not found", err)
	}
	if txn.IsLedgerApproved {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Posted transactions cannot be edited; unpost first", nil)
	}

	var req models.BankTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Direction != models.BankMoneyReceived && req.Direction != models.BankMoneyPaid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Direction must be Received or Paid", nil)
	}

	txn.Date = req.Date
	txn.Description = req.Description
	txn.GLAccount = req.GLAccount
	txn.Direction = req.Direction
	txn.Amount = req.Amount
	txn.Counterparty = req.Counterparty

	if err := h.bankRepo.Update(txn); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update bank transaction", err)
	}

	return utils.SuccessResponse(c, "Bank transaction updated successfully", txn)
}

func (h *BankHandler) DeleteTransaction(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	txn, err := h.bankRepo.FindByDocID(scopeID, docID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bank transaction not found", err)
	}
	if txn.IsLedgerApproved {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Posted transactions cannot be deleted; unpost first", nil)
	}

	if err := h.bankRepo.Delete(scopeID, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete bank transaction", err)
	}

	return utils.SuccessResponse(c, "Bank transaction deleted successfully", nil)
}

func (h *BankHandler) PostTransaction(c *fiber.Ctx) error {
	scopeID := getScopeID(c)

	txn, err := h.bankRepo.FindByDocID(scopeID, c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bank transaction not found", err)
	}

	postings, err := h.engine.PostDocument(scopeID, *txn)
	if err != nil {
		return postingErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Bank transaction posted to ledger", fiber.Map{
		"doc_id":   txn.DocID,
		"postings": postings,
	})
}

func (h *BankHandler) UnpostTransaction(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	if err := h.engine.Unpost(scopeID, models.SourceBankTransaction, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to unpost bank transaction", err)
	}

	return utils.SuccessResponse(c, "Bank transaction removed from ledger", fiber.Map{
		"doc_id": docID,
	})
}
