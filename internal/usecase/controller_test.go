package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leafletlens/client/internal/domain"
	"github.com/leafletlens/client/internal/intake"
)

// fakeService is a scriptable domain.ExtractionService.
type fakeService struct {
	extractResult *domain.ExtractionResult
	extractErr    error
	storedResult  []domain.Product
	storedErr     error
	detailResult  *domain.Product

	// when set, Extract blocks until released
	gate chan struct{}

	mutex        sync.Mutex
	extractCalls int
}

func (f *fakeService) Extract(ctx context.Context, file *domain.SelectedFile) (*domain.ExtractionResult, error) {
	f.mutex.Lock()
	f.extractCalls++
	f.mutex.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	return f.extractResult, f.extractErr
}

func (f *fakeService) calls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.extractCalls
}

func (f *fakeService) FetchStored(ctx context.Context) ([]domain.Product, error) {
	return f.storedResult, f.storedErr
}

func (f *fakeService) FetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	if f.detailResult == nil {
		return nil, domain.ErrIndexOutOfRange
	}
	return f.detailResult, nil
}

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	mutex    sync.Mutex
	messages []string
	kinds    []domain.NotificationKind
	cleared  int
}

func (r *recordingNotifier) Notify(message string, kind domain.NotificationKind) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, message)
	r.kinds = append(r.kinds, kind)
}

func (r *recordingNotifier) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.cleared++
}

func (r *recordingNotifier) last() (string, domain.NotificationKind, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if len(r.messages) == 0 {
		return "", "", false
	}
	return r.messages[len(r.messages)-1], r.kinds[len(r.kinds)-1], true
}

func pngCandidate() intake.Candidate {
	return intake.Candidate{
		Name:     "leaflet.png",
		Size:     12288,
		MIMEType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
	}
}

func TestStage(t *testing.T) {
	t.Run("transitions Idle to FileStaged and enables the trigger", func(t *testing.T) {
		notifier := &recordingNotifier{}
		c := NewController(&fakeService{}, notifier)

		if c.TriggerEnabled() {
			t.Fatal("trigger enabled before any file staged")
		}

		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if c.State() != domain.StateFileStaged {
			t.Errorf("State = %v, want FileStaged", c.State())
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not enabled after staging")
		}
		if notifier.cleared != 1 {
			t.Errorf("status cleared %d times, want 1", notifier.cleared)
		}
	})

	t.Run("rejects a non-image and keeps the trigger disabled", func(t *testing.T) {
		notifier := &recordingNotifier{}
		c := NewController(&fakeService{}, notifier)

		err := c.Stage(intake.Candidate{Name: "report.pdf", MIMEType: "application/pdf"})
		if !errors.Is(err, domain.ErrNotAnImage) {
			t.Fatalf("error = %v, want ErrNotAnImage", err)
		}

		if c.TriggerEnabled() {
			t.Error("trigger enabled after failed staging")
		}
		msg, kind, ok := notifier.last()
		if !ok || msg != "Please select an image file" || kind != domain.NotifyError {
			t.Errorf("notification = %q/%v, want error %q", msg, kind, "Please select an image file")
		}
	})

	t.Run("failed staging leaves the prior file untouched", func(t *testing.T) {
		c := NewController(&fakeService{}, &recordingNotifier{})

		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.Stage(intake.Candidate{Name: "notes.txt", MIMEType: "text/plain"}); err == nil {
			t.Fatal("expected validation error")
		}

		file := c.StagedFile()
		if file == nil || file.Name != "leaflet.png" {
			t.Errorf("StagedFile = %+v, want the previously staged leaflet.png", file)
		}
		if !c.TriggerEnabled() {
			t.Error("trigger lost after rejected replacement")
		}
	})

	t.Run("drop and pick origins validate identically", func(t *testing.T) {
		// Staging has a single entry point; the delivery layer feeds both
		// origins through it, so the same candidate yields the same result.
		picked := NewController(&fakeService{}, &recordingNotifier{})
		dropped := NewController(&fakeService{}, &recordingNotifier{})

		errPick := picked.Stage(pngCandidate())
		errDrop := dropped.Stage(pngCandidate())
		if (errPick == nil) != (errDrop == nil) {
			t.Errorf("outcomes differ: pick=%v drop=%v", errPick, errDrop)
		}
	})
}

func TestRequestExtraction(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a staged file", func(t *testing.T) {
		c := NewController(&fakeService{}, &recordingNotifier{})
		if err := c.RequestExtraction(ctx); !errors.Is(err, domain.ErrNoFileStaged) {
			t.Errorf("error = %v, want ErrNoFileStaged", err)
		}
	})

	t.Run("happy path", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{
			extractResult: &domain.ExtractionResult{
				Success: true,
				Products: []domain.Product{
					{ProductName: "Milk", Price: "$3.99", Unit: "1L", Category: "Dairy"},
				},
				TotalProducts: 1,
			},
		}
		c := NewController(service, notifier)
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		if err := c.RequestExtraction(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if c.State() != domain.StateResultsReady {
			t.Errorf("State = %v, want ResultsReady", c.State())
		}
		if got := len(c.Products()); got != 1 {
			t.Errorf("len(Products) = %d, want 1", got)
		}
		if !c.ResultsVisible() {
			t.Error("results not visible after success")
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not re-enabled after success")
		}
		msg, kind, _ := notifier.last()
		if msg != "Successfully extracted 1 products!" || kind != domain.NotifySuccess {
			t.Errorf("notification = %q/%v", msg, kind)
		}
	})

	t.Run("server-reported failure uses the service message", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{
			extractResult: &domain.ExtractionResult{Success: false, Error: "unreadable image"},
		}
		c := NewController(service, notifier)
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		err := c.RequestExtraction(ctx)
		if !errors.Is(err, domain.ErrExtractionFailed) {
			t.Fatalf("error = %v, want ErrExtractionFailed", err)
		}

		if c.State() != domain.StateError {
			t.Errorf("State = %v, want Error", c.State())
		}
		if got := len(c.Products()); got != 0 {
			t.Errorf("len(Products) = %d, want 0", got)
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not re-enabled after failure")
		}
		msg, kind, _ := notifier.last()
		if msg != "unreadable image" || kind != domain.NotifyError {
			t.Errorf("notification = %q/%v, want error %q", msg, kind, "unreadable image")
		}
	})

	t.Run("server failure without message falls back to generic text", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{extractResult: &domain.ExtractionResult{Success: false}}
		c := NewController(service, notifier)
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		c.RequestExtraction(ctx)

		msg, _, _ := notifier.last()
		if msg != "Failed to extract products" {
			t.Errorf("notification = %q, want generic fallback", msg)
		}
	})

	t.Run("transport failure notifies connectivity message", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{extractErr: fmt.Errorf("%w: connection refused", domain.ErrServiceUnreachable)}
		c := NewController(service, notifier)
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		err := c.RequestExtraction(ctx)
		if !errors.Is(err, domain.ErrServiceUnreachable) {
			t.Fatalf("error = %v, want ErrServiceUnreachable", err)
		}

		if c.State() != domain.StateError {
			t.Errorf("State = %v, want Error", c.State())
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not re-enabled after transport failure")
		}
		msg, kind, _ := notifier.last()
		if msg != "Network error: Please ensure the server is running" || kind != domain.NotifyError {
			t.Errorf("notification = %q/%v", msg, kind)
		}
	})

	t.Run("rejects a duplicate request while in flight", func(t *testing.T) {
		gate := make(chan struct{})
		service := &fakeService{
			gate:          gate,
			extractResult: &domain.ExtractionResult{Success: true, TotalProducts: 0},
		}
		c := NewController(service, &recordingNotifier{})
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		done := make(chan error, 1)
		go func() { done <- c.RequestExtraction(ctx) }()

		// Wait for the first request to claim the Extracting state.
		for c.State() != domain.StateExtracting {
			time.Sleep(time.Millisecond)
		}

		if c.TriggerEnabled() {
			t.Error("trigger enabled while extraction in flight")
		}
		if err := c.RequestExtraction(ctx); !errors.Is(err, domain.ErrExtractionInFlight) {
			t.Errorf("error = %v, want ErrExtractionInFlight", err)
		}

		close(gate)
		if err := <-done; err != nil {
			t.Fatalf("first request failed: %v", err)
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not re-enabled after first request finished")
		}
	})

	t.Run("re-staging during flight cannot re-enable the trigger", func(t *testing.T) {
		gate := make(chan struct{})
		service := &fakeService{
			gate:          gate,
			extractResult: &domain.ExtractionResult{Success: true, TotalProducts: 0},
		}
		c := NewController(service, &recordingNotifier{})
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}

		done := make(chan error, 1)
		go func() { done <- c.RequestExtraction(ctx) }()

		for c.State() != domain.StateExtracting {
			time.Sleep(time.Millisecond)
		}

		// Replacing the staged file while a request is outstanding must
		// not clobber the Extracting state that guards the trigger.
		replacement := pngCandidate()
		replacement.Name = "replacement.png"
		if err := c.Stage(replacement); err != nil {
			t.Fatalf("re-staging failed: %v", err)
		}

		if c.State() != domain.StateExtracting {
			t.Errorf("State = %v after re-staging, want Extracting", c.State())
		}
		if c.TriggerEnabled() {
			t.Error("trigger enabled by re-staging while a request is in flight")
		}
		if err := c.RequestExtraction(ctx); !errors.Is(err, domain.ErrExtractionInFlight) {
			t.Errorf("error = %v, want ErrExtractionInFlight", err)
		}

		close(gate)
		if err := <-done; err != nil {
			t.Fatalf("first request failed: %v", err)
		}

		if got := service.calls(); got != 1 {
			t.Errorf("outstanding extract calls = %d, want 1", got)
		}
		if file := c.StagedFile(); file == nil || file.Name != "replacement.png" {
			t.Errorf("StagedFile = %+v, want the replacement", file)
		}
		if !c.TriggerEnabled() {
			t.Error("trigger not re-enabled after the request finished")
		}
	})

	t.Run("a re-extraction replaces the collection wholesale", func(t *testing.T) {
		service := &fakeService{
			extractResult: &domain.ExtractionResult{
				Success: true,
				Products: []domain.Product{
					{ProductName: "Milk", Price: "$3.99", Unit: "1L", Category: "Dairy"},
					{ProductName: "Bread", Price: "$2.49", Unit: "500g", Category: "Bakery"},
				},
				TotalProducts: 2,
			},
		}
		c := NewController(service, &recordingNotifier{})
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}
		if err := c.RequestExtraction(ctx); err != nil {
			t.Fatal(err)
		}

		service.extractResult = &domain.ExtractionResult{
			Success:       true,
			Products:      []domain.Product{{ProductName: "Eggs", Price: "$4.99", Unit: "12pk", Category: "Dairy"}},
			TotalProducts: 1,
		}
		if err := c.RequestExtraction(ctx); err != nil {
			t.Fatal(err)
		}

		products := c.Products()
		if len(products) != 1 || products[0].ProductName != "Eggs" {
			t.Errorf("Products = %+v, want the replacement collection", products)
		}
	})

	t.Run("rendering follows the actual collection length, not total_products", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{
			extractResult: &domain.ExtractionResult{
				Success: true,
				Products: []domain.Product{
					{ProductName: "Milk", Price: "$3.99", Unit: "1L", Category: "Dairy"},
					{ProductName: "Bread", Price: "$2.49", Unit: "500g", Category: "Bakery"},
				},
				TotalProducts: 5, // inconsistent server-side count
			},
		}
		c := NewController(service, notifier)
		if err := c.Stage(pngCandidate()); err != nil {
			t.Fatal(err)
		}
		if err := c.RequestExtraction(ctx); err != nil {
			t.Fatal(err)
		}

		if got := len(c.Products()); got != 2 {
			t.Errorf("len(Products) = %d, want 2", got)
		}
		msg, _, _ := notifier.last()
		if msg != "Successfully extracted 5 products!" {
			t.Errorf("notification = %q, want the server-supplied count", msg)
		}
	})
}

func TestLoadExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("primes the collection without notifying", func(t *testing.T) {
		notifier := &recordingNotifier{}
		service := &fakeService{
			storedResult: []domain.Product{
				{ProductName: "Bread", Price: "$2.49", Unit: "500g", Category: "Bakery"},
			},
		}
		c := NewController(service, notifier)

		c.LoadExisting(ctx)

		if got := len(c.Products()); got != 1 {
			t.Errorf("len(Products) = %d, want 1", got)
		}
		if !c.ResultsVisible() {
			t.Error("results not visible after preload")
		}
		if c.State() != domain.StateIdle {
			t.Errorf("State = %v, want Idle (no transition through Extracting)", c.State())
		}
		if len(notifier.messages) != 0 {
			t.Errorf("notifications emitted: %v, want none", notifier.messages)
		}
	})

	t.Run("empty preload is silently ignored", func(t *testing.T) {
		notifier := &recordingNotifier{}
		c := NewController(&fakeService{storedErr: domain.ErrNoProducts}, notifier)

		c.LoadExisting(ctx)

		if c.ResultsVisible() {
			t.Error("results visible after empty preload")
		}
		if c.State() != domain.StateIdle {
			t.Errorf("State = %v, want Idle", c.State())
		}
		if len(notifier.messages) != 0 {
			t.Errorf("notifications emitted: %v, want none", notifier.messages)
		}
	})

	t.Run("transport failure during preload is silent", func(t *testing.T) {
		notifier := &recordingNotifier{}
		c := NewController(&fakeService{storedErr: domain.ErrServiceUnreachable}, notifier)

		c.LoadExisting(ctx)

		if len(notifier.messages) != 0 {
			t.Errorf("notifications emitted: %v, want none", notifier.messages)
		}
	})
}

func TestProductAt(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from the current collection", func(t *testing.T) {
		service := &fakeService{
			storedResult: []domain.Product{
				{ProductName: "Milk", Price: "$3.99", Unit: "1L", Category: "Dairy"},
				{ProductName: "Bread", Price: "$2.49", Unit: "500g", Category: "Bakery"},
			},
		}
		c := NewController(service, &recordingNotifier{})
		c.LoadExisting(ctx)

		product, err := c.ProductAt(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.ProductName != "Bread" {
			t.Errorf("ProductName = %q, want Bread", product.ProductName)
		}
	})

	t.Run("falls back to the service when nothing is loaded", func(t *testing.T) {
		service := &fakeService{
			detailResult: &domain.Product{ProductName: "Eggs", Price: "$4.99", Unit: "12pk", Category: "Dairy"},
		}
		c := NewController(service, &recordingNotifier{})

		product, err := c.ProductAt(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.ProductName != "Eggs" {
			t.Errorf("ProductName = %q, want Eggs", product.ProductName)
		}
	})

	t.Run("out of range of a loaded collection is an error", func(t *testing.T) {
		service := &fakeService{
			storedResult: []domain.Product{
				{ProductName: "Milk", Price: "$3.99", Unit: "1L", Category: "Dairy"},
			},
			detailResult: &domain.Product{ProductName: "Ghost"},
		}
		c := NewController(service, &recordingNotifier{})
		c.LoadExisting(ctx)

		// A loaded collection is authoritative; no service fallback
		if _, err := c.ProductAt(ctx, 5); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Errorf("error = %v, want ErrIndexOutOfRange", err)
		}
	})

	t.Run("rejects negative indexes outright", func(t *testing.T) {
		c := NewController(&fakeService{detailResult: &domain.Product{ProductName: "Ghost"}}, &recordingNotifier{})

		if _, err := c.ProductAt(ctx, -1); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Errorf("error = %v, want ErrIndexOutOfRange", err)
		}
	})
}

func TestSubscribe(t *testing.T) {
	service := &fakeService{
		extractResult: &domain.ExtractionResult{Success: true, TotalProducts: 0},
	}
	c := NewController(service, &recordingNotifier{})

	var mutex sync.Mutex
	var seen []domain.WorkflowState
	c.Subscribe(func(s domain.WorkflowState) {
		mutex.Lock()
		seen = append(seen, s)
		mutex.Unlock()
	})

	if err := c.Stage(pngCandidate()); err != nil {
		t.Fatal(err)
	}
	if err := c.RequestExtraction(context.Background()); err != nil {
		t.Fatal(err)
	}

	mutex.Lock()
	defer mutex.Unlock()
	want := []domain.WorkflowState{domain.StateFileStaged, domain.StateExtracting, domain.StateResultsReady}
	if len(seen) != len(want) {
		t.Fatalf("observed states %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("state[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}
