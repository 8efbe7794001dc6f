package importer

import "fmt"

// BatchSummary counts the outcome of a URL-list import.
// TotalURLs always equals SuccessCount + ErrorCount once the batch finishes.
type BatchSummary struct {
	TotalURLs    int `json:"totalUrls"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// Message renders the user-facing completion message.
func (b BatchSummary) Message() string {
	return fmt.Sprintf("処理が完了しました。%d件中、%d件のレシピを追加しました。", b.TotalURLs, b.SuccessCount)
}
