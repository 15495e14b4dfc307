package domain

// SelectedFile is the single file currently validated and held for
// extraction. It is never mutated after staging, only replaced wholesale
// by a new selection.
type SelectedFile struct {
	Name     string
	Size     int64
	MIMEType string
	Data     []byte
}

// WorkflowState is the extraction workflow's process-wide state. It is
// owned exclusively by the workflow controller; every other component
// reads derived projections only.
type WorkflowState string

const (
	StateIdle         WorkflowState = "idle"
	StateFileStaged   WorkflowState = "file_staged"
	StateExtracting   WorkflowState = "extracting"
	StateResultsReady WorkflowState = "results_ready"
	StateError        WorkflowState = "error"
)

// String returns the state name.
func (s WorkflowState) String() string {
	return string(s)
}

// NotificationKind classifies a status message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)
