package response

import "theater-booking-api/internal/infra/archivestore"

// Result is the structured outcome every archival endpoint returns; failures
// are reported here rather than thrown past the subsystem boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func OK() Result {
	return Result{Success: true}
}

func Failed(msg string) Result {
	return Result{Success: false, Error: msg}
}

type HistoryResponse struct {
	Success bool                  `json:"success"`
	Records []archivestore.Record `json:"records"`
}

func FromRecords(records []archivestore.Record) HistoryResponse {
	if records == nil {
		records = []archivestore.Record{}
	}
	return HistoryResponse{Success: true, Records: records}
}
