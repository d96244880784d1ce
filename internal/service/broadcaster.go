package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToReport(reportID string, msgType string, payload interface{})
}

// Message types pushed to report subscribers
const (
	MsgFollowupAdded = "followup_added"
)

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToReport(string, string, interface{}) {}
