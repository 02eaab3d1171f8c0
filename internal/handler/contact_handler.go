package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/utils"
)

type ContactHandler struct {
	contactRepo *repository.ContactRepository
}

func NewContactHandler(contactRepo *repository.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

func (h *ContactHandler) GetContacts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	contacts, total, err := h.contactRepo.FindAll(getScopeID(c), params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve contacts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Contacts retrieved successfully", fiber.Map{
		"contacts":   contacts,
		"pagination": pagination,
	}, pagination)
}

func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var req models.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contact name is required", nil)
	}
	if req.Type != models.ContactCustomer && req.Type != models.ContactVendor {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contact type must be Customer or Vendor", nil)
	}

	contact := &models.Contact{
		ScopeID: getScopeID(c),
		Name:    req.Name,
		Type:    req.Type,
		Email:   req.Email,
		Phone:   req.Phone,
	}

	if err := h.contactRepo.Create(contact); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create contact", err)
	}

	return utils.SuccessResponse(c, "Contact created successfully", contact)
}

func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", err)
	}

	var req models.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contact name is required", nil)
	}

	contact := &models.Contact{
		ID:      id,
		ScopeID: getScopeID(c),
		Name:    req.Name,
		Type:    req.Type,
		Email:   req.Email,
		Phone:   req.Phone,
	}

	if err := h.contactRepo.Update(contact); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update contact", err)
	}

	return utils.SuccessResponse(c, "Contact updated successfully", contact)
}

func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", err)
	}

	if err := h.contactRepo.Delete(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact", err)
	}

	return utils.SuccessResponse(c, "Contact deleted successfully", nil)
}
