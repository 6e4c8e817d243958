package domain

// Spreadsheet is a Google Sheets file visible to the caller's Google account.
type Spreadsheet struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
}
