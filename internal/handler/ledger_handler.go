package handler

import (
	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/utils"
)

type LedgerHandler struct {
	ledgerRepo *repository.LedgerRepository
}

func NewLedgerHandler(ledgerRepo *repository.LedgerRepository) *LedgerHandler {
	return &LedgerHandler{ledgerRepo: ledgerRepo}
}

// GetPostings browses the ledger with optional date and account filters.
func (h *LedgerHandler) GetPostings(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	query := models.LedgerQuery{
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		GLAccount: c.Query("gl_account"),
	}

	postings, total, err := h.ledgerRepo.FindPaginated(getScopeID(c), query, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve ledger postings", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Ledger postings retrieved successfully", fiber.Map{
		"postings":   postings,
		"pagination": pagination,
	}, pagination)
}

// GetPostingsBySource returns the ledger rows one source document produced.
func (h *LedgerHandler) GetPostingsBySource(c *fiber.Ctx) error {
	postings, err := h.ledgerRepo.FindBySource(getScopeID(c), c.Params("doc_id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve ledger postings", err)
	}

	return utils.SuccessResponse(c, "Ledger postings retrieved successfully", fiber.Map{
		"source_doc_id": c.Params("doc_id"),
		"postings":      postings,
	})
}
