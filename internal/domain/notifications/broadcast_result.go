package notifications

// BroadcastResult summarizes one SendAllToPM run.
type BroadcastResult struct {
	BatchID string `json:"batch_id,omitempty"`
	Fetched int    `json:"fetched"`
	New     int    `json:"new"`
	Sent    int    `json:"sent"`
	Cursor  string `json:"cursor,omitempty"`
}

// Preview is a formatted notification that has not been sent yet.
type Preview struct {
	NotificationID string `json:"notification_id"`
	IssueID        string `json:"issue_id"`
	Message        string `json:"message"`
}
