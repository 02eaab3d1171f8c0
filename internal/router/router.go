package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/config"
)

func Setup(app *fiber.App, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redisClient, cfg)
}

func setupWebRoutes(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	// Master data pages
	router.Get("/accounts", func(c *fiber.Ctx) error {
		return c.Render("master/accounts", fiber.Map{
			"Title": "Chart of Accounts",
		})
	})

	router.Get("/contacts", func(c *fiber.Ctx) error {
		return c.Render("master/contacts", fiber.Map{
			"Title": "Contacts",
		})
	})

	// Document pages
	router.Get("/bank-transactions", func(c *fiber.Ctx) error {
		return c.Render("documents/bank", fiber.Map{
			"Title": "Bank Transactions",
		})
	})

	router.Get("/journal-entries", func(c *fiber.Ctx) error {
		return c.Render("documents/journal", fiber.Map{
			"Title": "Journal Entries",
		})
	})

	router.Get("/invoices", func(c *fiber.Ctx) error {
		return c.Render("documents/invoices", fiber.Map{
			"Title": "Sales Invoices",
		})
	})

	router.Get("/bills", func(c *fiber.Ctx) error {
		return c.Render("documents/bills", fiber.Map{
			"Title": "Purchase Bills",
		})
	})

	// Ledger and reports
	router.Get("/ledger", func(c *fiber.Ctx) error {
		return c.Render("ledger/index", fiber.Map{
			"Title": "General Ledger",
		})
	})

	router.Get("/reports", func(c *fiber.Ctx) error {
		return c.Render("reports/index", fiber.Map{
			"Title": "Financial Reports",
		})
	})
}
