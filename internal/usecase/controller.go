package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/leafletlens/client/internal/domain"
	"github.com/leafletlens/client/internal/intake"
)

// Status messages surfaced through the notifier.
const (
	msgNotAnImage       = "Please select an image file"
	msgExtractedFmt     = "Successfully extracted %d products!"
	msgExtractionFailed = "Failed to extract products"
	msgNetworkError     = "Network error: Please ensure the server is running"
)

// Controller owns the extraction workflow state and drives the request
// lifecycle. All other components read derived projections through its
// accessors; none mutate state directly.
type Controller struct {
	service  domain.ExtractionService
	notifier domain.Notifier

	mutex          sync.Mutex
	state          domain.WorkflowState
	stagedFile     *domain.SelectedFile
	products       []domain.Product
	resultsVisible bool
	listeners      []func(domain.WorkflowState)
}

// NewController creates a workflow controller in the Idle state.
func NewController(service domain.ExtractionService, notifier domain.Notifier) *Controller {
	return &Controller{
		service:  service,
		notifier: notifier,
		state:    domain.StateIdle,
	}
}

// Stage validates a candidate file and holds it for extraction. A failed
// validation notifies and leaves any previously staged file untouched.
// Staging during an in-flight request replaces the file but must not
// leave the Extracting state: that state is the mutual-exclusion guard
// keeping at most one request outstanding.
func (c *Controller) Stage(candidate intake.Candidate) error {
	file, err := intake.Stage(candidate)
	if err != nil {
		c.notifier.Notify(msgNotAnImage, domain.NotifyError)
		return err
	}

	c.mutex.Lock()
	c.stagedFile = file
	if c.state != domain.StateExtracting {
		c.state = domain.StateFileStaged
	}
	c.mutex.Unlock()

	c.notifier.Clear()
	c.fireStateChange()
	log.Printf("[workflow] Staged %s", intake.SelectionLabel(file))
	return nil
}

// RequestExtraction uploads the staged file and applies the outcome.
// Preconditions: a file is staged and no extraction is in flight. The
// trigger is re-enabled after every outcome, including failure.
func (c *Controller) RequestExtraction(ctx context.Context) error {
	c.mutex.Lock()
	if c.stagedFile == nil {
		c.mutex.Unlock()
		return domain.ErrNoFileStaged
	}
	if c.state == domain.StateExtracting {
		c.mutex.Unlock()
		return domain.ErrExtractionInFlight
	}
	file := c.stagedFile
	c.state = domain.StateExtracting
	c.mutex.Unlock()

	c.notifier.Clear()
	c.fireStateChange()

	// The request runs to completion once issued; there is no
	// cancellation primitive beyond the context deadline.
	result, err := c.service.Extract(ctx, file)
	if err != nil {
		c.setState(domain.StateError)
		c.notifier.Notify(msgNetworkError, domain.NotifyError)
		log.Printf("[workflow] Extraction transport failure: %v", err)
		return err
	}

	if !result.Success {
		c.setState(domain.StateError)
		message := result.Error
		if message == "" {
			message = msgExtractionFailed
		}
		c.notifier.Notify(message, domain.NotifyError)
		log.Printf("[workflow] Extraction failed: %s", message)
		return fmt.Errorf("%w: %s", domain.ErrExtractionFailed, message)
	}

	c.mutex.Lock()
	c.products = result.Products
	c.resultsVisible = true
	c.state = domain.StateResultsReady
	c.mutex.Unlock()

	// Notify with the server-supplied count; rendering follows the
	// actual collection length.
	c.notifier.Notify(fmt.Sprintf(msgExtractedFmt, result.TotalProducts), domain.NotifySuccess)
	c.fireStateChange()
	log.Printf("[workflow] Extraction succeeded: %d products", len(result.Products))
	return nil
}

// LoadExisting primes the collection from a previous session's results,
// if the service still holds any. Failure or an empty result is not a
// user-visible condition: no notification, no state transition.
func (c *Controller) LoadExisting(ctx context.Context) {
	products, err := c.service.FetchStored(ctx)
	if err != nil || len(products) == 0 {
		log.Printf("[workflow] No existing products to load")
		return
	}

	c.mutex.Lock()
	c.products = products
	c.resultsVisible = true
	c.mutex.Unlock()

	c.fireStateChange()
	log.Printf("[workflow] Primed %d existing products", len(products))
}

// Subscribe registers a callback fired after every state or collection
// change. Callbacks run outside the controller lock.
func (c *Controller) Subscribe(fn func(domain.WorkflowState)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current workflow state.
func (c *Controller) State() domain.WorkflowState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Products returns a copy of the current result collection.
func (c *Controller) Products() []domain.Product {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	return products
}

// ProductAt returns the product at the given zero-based index. When no
// collection has been loaded yet, a deep link can still land here, so it
// falls back to the service's stored copy before giving up.
func (c *Controller) ProductAt(ctx context.Context, index int) (*domain.Product, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
	}

	c.mutex.Lock()
	count := len(c.products)
	if index < count {
		product := c.products[index]
		c.mutex.Unlock()
		return &product, nil
	}
	c.mutex.Unlock()

	if count == 0 {
		return c.service.FetchProduct(ctx, index)
	}
	return nil, fmt.Errorf("%w: %d of %d", domain.ErrIndexOutOfRange, index, count)
}

// StagedFile returns the currently staged file, or nil.
func (c *Controller) StagedFile() *domain.SelectedFile {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stagedFile
}

// TriggerEnabled reports whether an extraction may be requested: a file
// is staged and no request is in flight.
func (c *Controller) TriggerEnabled() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stagedFile != nil && c.state != domain.StateExtracting
}

// ResultsVisible reports whether the results surface should be shown.
func (c *Controller) ResultsVisible() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.resultsVisible
}

func (c *Controller) setState(state domain.WorkflowState) {
	c.mutex.Lock()
	c.state = state
	c.mutex.Unlock()
	c.fireStateChange()
}

func (c *Controller) fireStateChange() {
	c.mutex.Lock()
	state := c.state
	listeners := make([]func(domain.WorkflowState), len(c.listeners))
	copy(listeners, c.listeners)
	c.mutex.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
