package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookkeeping-web/internal/models"
	"bookkeeping-web/internal/service"
	"bookkeeping-web/internal/utils"
)

// getScopeID extracts the tenant scope from the request. Every ledger row and
// document is partitioned by this value.
func getScopeID(c *fiber.Ctx) string {
	if scope := c.Query("scope_id"); scope != "" {
		return scope
	}
	return "default"
}

func isValidFilename(filename string) bool {
	if len(filename) == 0 || len(filename) > 255 {
		return false
	}

	dangerousChars := []string{"..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range dangerousChars {
		if strings.Contains(filename, char) {
			return false
		}
	}

	return true
}

// postingErrorResponse maps posting engine failures onto HTTP statuses.
// Validation problems are the caller's to fix; anything else is a server
// fault.
func postingErrorResponse(c *fiber.Ctx, err error) error {
	var alreadyPosted *service.AlreadyPostedError
	var unresolved *service.UnresolvedAccountError
	var imbalance *service.ImbalanceError
	var validation *service.ValidationError

	switch {
	case errors.As(err, &alreadyPosted):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Document is already posted", err)
	case errors.As(err, &unresolved), errors.As(err, &imbalance), errors.As(err, &validation):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Document failed posting validation", err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to post document", err)
	}
}

// getFirstNErrors limits validation error lists in responses; the full list
// goes into the downloadable error report.
func getFirstNErrors(errors []models.RowValidationError, n int) []models.RowValidationError {
	if len(errors) <= n {
		return errors
	}
	return errors[:n]
}
