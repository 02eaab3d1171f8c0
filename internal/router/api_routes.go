package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/config"
	"bookkeeping-web/internal/handler"
	"bookkeeping-web/internal/repository"
	"bookkeeping-web/internal/service"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bankRepo := repository.NewBankRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	contactRepo := repository.NewContactRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	postingEngine := service.NewPostingEngine(ledgerRepo, accountRepo, contactRepo, documentRepo, cfg.ARAccount, cfg.APAccount)
	reportEngine := service.NewReportEngine(ledgerRepo, accountRepo)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountRepo, cfg)
	bankHandler := handler.NewBankHandler(bankRepo, postingEngine)
	journalHandler := handler.NewJournalHandler(journalRepo, postingEngine, cfg)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, postingEngine)
	contactHandler := handler.NewContactHandler(contactRepo)
	ledgerHandler := handler.NewLedgerHandler(ledgerRepo)
	reportHandler := handler.NewReportHandler(reportEngine, asynqClient, cfg)
	postingHandler := handler.NewPostingHandler(asynqClient, redisClient)

	// Chart of accounts routes
	accounts := router.Group("/accounts")
	accounts.Get("/", accountHandler.GetAccounts)
	accounts.Get("/export", accountHandler.ExportAccounts)
	accounts.Post("/import", accountHandler.ImportAccounts)
	accounts.Get("/error-report/:filename", accountHandler.DownloadErrorReport)
	accounts.Get("/:id", accountHandler.GetAccount)
	accounts.Post("/", accountHandler.CreateAccount)
	accounts.Put("/:id", accountHandler.UpdateAccount)
	accounts.Delete("/:id", accountHandler.DeleteAccount)

	// Contact routes
	contacts := router.Group("/contacts")
	contacts.Get("/", contactHandler.GetContacts)
	contacts.Post("/", contactHandler.CreateContact)
	contacts.Put("/:id", contactHandler.UpdateContact)
	contacts.Delete("/:id", contactHandler.DeleteContact)

	// Bank transaction routes
	bank := router.Group("/bank-transactions")
	bank.Get("/", bankHandler.GetTransactions)
	bank.Get("/:doc_id", bankHandler.GetTransaction)
	bank.Post("/", bankHandler.CreateTransaction)
	bank.Put("/:doc_id", bankHandler.UpdateTransaction)
	bank.Delete("/:doc_id", bankHandler.DeleteTransaction)
	bank.Post("/:doc_id/post", bankHandler.PostTransaction)
	bank.Post("/:doc_id/unpost", bankHandler.UnpostTransaction)

	// Journal entry routes
	journal := router.Group("/journal-entries")
	journal.Get("/", journalHandler.GetSets)
	journal.Get("/template", journalHandler.DownloadTemplate)
	journal.Post("/import", journalHandler.ImportJournal)
	journal.Get("/:set_id", journalHandler.GetSet)
	journal.Post("/", journalHandler.CreateSet)
	journal.Delete("/:set_id", journalHandler.DeleteSet)
	journal.Post("/:set_id/post", journalHandler.PostSet)
	journal.Post("/:set_id/unpost", journalHandler.UnpostSet)

	// Sales invoice routes
	invoices := router.Group("/invoices")
	invoices.Get("/", invoiceHandler.GetInvoices)
	invoices.Get("/:doc_id", invoiceHandler.GetInvoice)
	invoices.Post("/", invoiceHandler.CreateInvoice)
	invoices.Delete("/:doc_id", invoiceHandler.DeleteInvoice)
	invoices.Post("/:doc_id/post", invoiceHandler.PostInvoice)
	invoices.Post("/:doc_id/unpost", invoiceHandler.UnpostInvoice)
	invoices.Post("/:doc_id/payments", invoiceHandler.RecordPayment)

	// Purchase bill routes
	bills := router.Group("/bills")
	bills.Get("/", invoiceHandler.GetBills)
	bills.Get("/:doc_id", invoiceHandler.GetBill)
	bills.Post("/", invoiceHandler.CreateBill)
	bills.Delete("/:doc_id", invoiceHandler.DeleteBill)
	bills.Post("/:doc_id/post", invoiceHandler.PostBill)
	bills.Post("/:doc_id/unpost", invoiceHandler.UnpostBill)

	// Ledger routes
	ledger := router.Group("/ledger")
	ledger.Get("/", ledgerHandler.GetPostings)
	ledger.Get("/source/:doc_id", ledgerHandler.GetPostingsBySource)

	// Report routes
	reports := router.Group("/reports")
	reports.Get("/", reportHandler.GenerateReport)
	reports.Get("/export", reportHandler.ExportReport)
	reports.Post("/export", reportHandler.EnqueueExport)
	reports.Get("/export/:filename", reportHandler.DownloadExport)

	// Background batch posting routes
	posting := router.Group("/posting")
	posting.Post("/batch", postingHandler.EnqueueBatch)
	posting.Get("/batch/:batch_code", postingHandler.GetBatchProgress)
}
