package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/config"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	postingHandler := NewPostingTaskHandler(db, redisClient, cfg)
	exportHandler := NewExportTaskHandler(db, cfg)

	mux.HandleFunc(TypeLedgerPostBatch, postingHandler.Handle)
	mux.HandleFunc(TypeReportExport, exportHandler.Handle)
}
