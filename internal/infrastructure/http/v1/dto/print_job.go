package dto

// EnqueuePrintJobRequest is the payload for queueing a receipt print.
type EnqueuePrintJobRequest struct {
	TransactionID int64 `json:"transactionId"`
}
