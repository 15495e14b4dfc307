package domain

import "context"

// ExtractionService defines the interface for the remote product-extraction
// service. Extract returns the decoded service response whether or not the
// service declared success; an error is returned only when no interpretable
// response was obtained.
type ExtractionService interface {
	Extract(ctx context.Context, file *SelectedFile) (*ExtractionResult, error)
	FetchStored(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id int) (*Product, error)
}

// Notifier defines the interface for surfacing transient status messages.
type Notifier interface {
	Notify(message string, kind NotificationKind)
	Clear()
}
