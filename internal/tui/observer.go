package tui

// ProgressObserver adapts upload progress callbacks to a channel for Bubble Tea
type ProgressObserver struct {
	ch chan<- UploadProgressMsg
}

// NewProgressObserver creates a new channel-based observer
func NewProgressObserver(ch chan<- UploadProgressMsg) *ProgressObserver {
	return &ProgressObserver{ch: ch}
}

// OnProgress sends progress to the channel, dropping it if the UI is behind
func (o *ProgressObserver) OnProgress(sent, total int64) {
	select {
	case o.ch <- UploadProgressMsg{Sent: sent, Total: total}:
	default:
	}
}
