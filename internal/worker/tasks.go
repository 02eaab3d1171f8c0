package worker

import (
	"fmt"

	"bookkeeping-web/internal/models"
)

// Task type names registered on the asynq mux.
const (
	TypeLedgerPostBatch = "ledger:post_batch"
	TypeReportExport    = "report:export"
)

// PostBatchPayload asks the worker to post a batch of documents of one
// source type. Documents are independent: a failing document is skipped
// with a reason, the rest still post.
type PostBatchPayload struct {
	ScopeID   string   `json:"scope_id"`
	Source    string   `json:"source"`
	DocIDs    []string `json:"doc_ids"`
	BatchCode string   `json:"batch_code"`
}

// ReportExportPayload asks the worker to generate a financial statement and
// write it to the export directory under FileName.
type ReportExportPayload struct {
	Request  models.ReportRequest `json:"request"`
	FileName string               `json:"file_name"`
}

// BatchProgress is the JSON document stored in Redis while a batch posting
// job runs.
type BatchProgress struct {
	BatchCode   string            `json:"batch_code"`
	Status      string            `json:"status"`
	Requested   int               `json:"requested"`
	Processed   int               `json:"processed"`
	PostedCount int               `json:"posted_count"`
	Skipped     map[string]string `json:"skipped,omitempty"` // doc id -> reason
}

func BatchProgressKey(batchCode string) string {
	return fmt.Sprintf("posting:batch:%s", batchCode)
}
