package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

type InvoiceHandler struct {
	invoiceRepo *repository.InvoiceRepository
	engine      *service.PostingEngine
}

func NewInvoiceHandler(invoiceRepo *repository.InvoiceRepository, engine *service.PostingEngine) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceRepo: invoiceRepo,
		engine:      engine,
	}
}

// buildLineItems computes line amounts from quantity and unit price. Amounts
// are derived server-side so posting validation cannot be bypassed by a
// mismatched request body.
func buildLineItems(docID string, reqs []models.LineItemRequest) ([]models.LineItem, float64) {
	items := make([]models.LineItem, 0, len(reqs))
	var total float64
	for _, lr := range reqs {
		amount := lr.Quantity * lr.UnitPrice
		items = append(items, models.LineItem{
			DocID:       docID,
			Description: lr.Description,
			GLAccount:   lr.GLAccount,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			Amount:      amount,
		})
		total += amount
	}
	return items, total
}

func validateInvoiceRequest(req *models.InvoiceRequest) string {
	if req.Party == "" {
		return "Party is required"
	}
	if req.Date == "" {
		return "Date is required"
	}
	if len(req.LineItems) == 0 {
		return "At least one line item is required"
	}
	for _, li := range req.LineItems {
		if li.GLAccount == "" {
			return "Every line item needs a GL account"
		}
		if li.Quantity <= 0 || li.UnitPrice <= 0 {
			return "Line item quantity and unit price must be positive"
		}
	}
	return ""
}

func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	invoices, total, err := h.invoiceRepo.FindInvoices(getScopeID(c), params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve invoices", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Invoices retrieved successfully", fiber.Map{
		"invoices":   invoices,
		"pagination": pagination,
	}, pagination)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	invoice, err := h.invoiceRepo.FindInvoiceByDocID(getScopeID(c), c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", err)
	}

	return utils.SuccessResponse(c, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req models.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if msg := validateInvoiceRequest(&req); msg != "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	docID := uuid.New().String()
	items, total := buildLineItems(docID, req.LineItems)

	invoice := &models.SalesInvoice{
		ScopeID:       getScopeID(c),
		DocID:         docID,
		InvoiceNumber: req.Number,
		Customer:      req.Party,
		Date:          req.Date,
		DueDate:       req.DueDate,
		TotalAmount:   total,
		PaymentStatus: models.PaymentStatusUnpaid,
		LineItems:     items,
	}

	if err := h.invoiceRepo.CreateInvoice(invoice); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create invoice", err)
	}

	return utils.SuccessResponse(c, "Invoice created successfully", invoice)
}

func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	invoice, err := h.invoiceRepo.FindInvoiceByDocID(scopeID, docID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", err)
	}
	if invoice.IsLedgerApproved {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Posted invoices cannot be deleted; unpost first", nil)
	}

	if err := h.invoiceRepo.DeleteInvoice(scopeID, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete invoice", err)
	}

	return utils.SuccessResponse(c, "Invoice deleted successfully", nil)
}

func (h *InvoiceHandler) PostInvoice(c *fiber.Ctx) error {
	scopeID := getScopeID(c)

	invoice, err := h.invoiceRepo.FindInvoiceByDocID(scopeID, c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", err)
	}

	postings, err := h.engine.PostDocument(scopeID, *invoice)
	if err != nil {
		return postingErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Invoice posted to ledger", fiber.Map{
		"doc_id":   invoice.DocID,
		"postings": postings,
	})
}

func (h *InvoiceHandler) UnpostInvoice(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	if err := h.engine.Unpost(scopeID, models.SourceSalesInvoice, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to unpost invoice", err)
	}

	// Unposting deletes the payment postings too, so the status rolls back.
	if err := h.invoiceRepo.UpdateInvoicePaymentStatus(scopeID, docID, models.PaymentStatusUnpaid); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reset payment status", err)
	}

	return utils.SuccessResponse(c, "Invoice removed from ledger", fiber.Map{
		"doc_id": docID,
	})
}

func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	scopeID := getScopeID(c)

	invoice, err := h.invoiceRepo.FindInvoiceByDocID(scopeID, c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", err)
	}

	var req models.InvoicePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Date == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Payment date is required", nil)
	}
	if req.DepositAccount == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Deposit account is required", nil)
	}

	postings, status, err := h.engine.RecordInvoicePayment(scopeID, *invoice, req)
	if err != nil {
		return postingErrorResponse(c, err)
	}

	if err := h.invoiceRepo.UpdateInvoicePaymentStatus(scopeID, invoice.DocID, status); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update payment status", err)
	}

	return utils.SuccessResponse(c, "Payment recorded", fiber.Map{
		"doc_id":         invoice.DocID,
		"payment_status": status,
		"postings":       postings,
	})
}

func (h *InvoiceHandler) GetBills(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	bills, total, err := h.invoiceRepo.FindBills(getScopeID(c), params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve bills", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Bills retrieved successfully", fiber.Map{
		"bills":      bills,
		"pagination": pagination,
	}, pagination)
}

func (h *InvoiceHandler) GetBill(c *fiber.Ctx) error {
	bill, err := h.invoiceRepo.FindBillByDocID(getScopeID(c), c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bill not found", err)
	}

	return utils.SuccessResponse(c, "Bill retrieved successfully", bill)
}

func (h *InvoiceHandler) CreateBill(c *fiber.Ctx) error {
	var req models.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if msg := validateInvoiceRequest(&req); msg != "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	docID := uuid.New().String()
	items, total := buildLineItems(docID, req.LineItems)

	bill := &models.PurchaseBill{
		ScopeID:       getScopeID(c),
		DocID:         docID,
		BillNumber:    req.Number,
		Vendor:        req.Party,
		Date:          req.Date,
		DueDate:       req.DueDate,
		TotalAmount:   total,
		PaymentStatus: models.PaymentStatusUnpaid,
		LineItems:     items,
	}

	if err := h.invoiceRepo.CreateBill(bill); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create bill", err)
	}

	return utils.SuccessResponse(c, "Bill created successfully", bill)
}

func (h *InvoiceHandler) DeleteBill(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	bill, err := h.invoiceRepo.FindBillByDocID(scopeID, docID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bill not found", err)
	}
	if bill.IsLedgerApproved {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Posted bills cannot be deleted; unpost first", nil)
	}

	if err := h.invoiceRepo.DeleteBill(scopeID, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete bill", err)
	}

	return utils.SuccessResponse(c, "Bill deleted successfully", nil)
}

func (h *InvoiceHandler) PostBill(c *fiber.Ctx) error {
	scopeID := getScopeID(c)

	bill, err := h.invoiceRepo.FindBillByDocID(scopeID, c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Bill not found", err)
	}

	postings, err := h.engine.PostDocument(scopeID, *bill)
	if err != nil {
		return postingErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Bill posted to ledger", fiber.Map{
		"doc_id":   bill.DocID,
		"postings": postings,
	})
}

func (h *InvoiceHandler) UnpostBill(c *fiber.Ctx) error {
	scopeID := getScopeID(c)
	docID := c.Params("doc_id")

	if err := h.engine.Unpost(scopeID, models.SourcePurchaseBill, docID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to unpost bill", err)
	}

	return utils.SuccessResponse(c, "Bill removed from ledger", fiber.Map{
		"doc_id": docID,
	})
}
