// internal/wizard/wizard.go
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// Step is the wizard position. It only moves forward through transitions,
// backward through Back (floor Connect) or to Idle through Cancel.
type Step int

const (
	StepIdle Step = iota
	StepConnect
	StepMetadataPreview
	StepItemsPreview
	StepFinalizing
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepConnect:
		return "connect"
	case StepMetadataPreview:
		return "metadata_preview"
	case StepItemsPreview:
		return "items_preview"
	case StepFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

var (
	ErrBusy              = errors.New("another wizard request is still in flight")
	ErrInvalidTransition = errors.New("transition not allowed from the current step")
)

// Persister is the slice of the store gateway the wizard needs to finalize.
type Persister interface {
	CreateStore(ctx context.Context, draft models.StoreDraft, ownerID uuid.UUID) (*models.Store, error)
}

// pagedItems accumulates one kind's pages. A failed page fetch leaves the
// already collected items untouched.
type pagedItems struct {
	Products    []models.ProductDraft
	Collections []string
	Cursor      string
	HasNextPage bool
	Loaded      bool
}

// PagedState is the JSON snapshot of one accumulated item kind.
type PagedState struct {
	Products    []models.ProductDraft `json:"products,omitempty"`
	Collections []string              `json:"collections,omitempty"`
	HasNextPage bool                  `json:"has_next_page"`
	Loaded      bool                  `json:"loaded"`
}

// State is a copy of the wizard's observable state.
type State struct {
	Source      string                          `json:"source"`
	Step        Step                            `json:"step"`
	StepName    string                          `json:"step_name"`
	TotalSteps  int                             `json:"total_steps"`
	Metadata    *sources.ShopMetadata           `json:"metadata,omitempty"`
	Items       map[sources.ItemKind]PagedState `json:"items"`
	IsFetching  bool                            `json:"is_fetching"`
	ImportError string                          `json:"import_error,omitempty"`
}

// Wizard drives one import flow for one source. All mutation goes through the
// transition methods; fetches run with the lock released and re-validate the
// generation before applying results, so a response landing after Cancel is
// dropped instead of resurrecting discarded state.
type Wizard struct {
	mu       sync.Mutex
	source   sources.Source
	pageSize int

	step        Step
	creds       sources.Credentials
	metadata    *sources.ShopMetadata
	items       map[sources.ItemKind]*pagedItems
	isFetching  bool
	importError string
	generation  uint64
}

func New(source sources.Source, pageSize int) *Wizard {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &Wizard{
		source:   source,
		pageSize: pageSize,
		items:    make(map[sources.ItemKind]*pagedItems),
	}
}

func (w *Wizard) SourceName() string { return w.source.Name() }

// Start connects to the source: Idle -> Connect, then a metadata fetch.
// On success the wizard advances to MetadataPreview; on failure it stays in
// Connect with the error recorded so the user can retry.
func (w *Wizard) Start(ctx context.Context, creds sources.Credentials) error {
	w.mu.Lock()
	if w.isFetching {
		w.mu.Unlock()
		return ErrBusy
	}

	w.resetLocked()
	w.creds = creds
	w.step = StepConnect
	w.isFetching = true
	gen := w.generation
	w.mu.Unlock()

	meta, err := w.source.FetchMetadata(ctx, creds)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		// Cancelled (or restarted) while the request was in flight.
		return nil
	}
	w.isFetching = false

	if err != nil {
		w.importError = humanize(err)
		return err
	}

	w.metadata = meta
	w.importError = ""
	w.step = StepMetadataPreview
	return nil
}

// Next advances MetadataPreview -> ItemsPreview and loads the first page of
// every item kind that is not already loaded. Re-entering after Back does not
// refetch.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	if w.isFetching {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.step != StepMetadataPreview && w.step != StepItemsPreview {
		w.mu.Unlock()
		return ErrInvalidTransition
	}

	w.step = StepItemsPreview
	var pending []sources.ItemKind
	for _, kind := range w.source.Kinds() {
		if acc := w.items[kind]; acc == nil || !acc.Loaded {
			pending = append(pending, kind)
		}
	}
	if len(pending) == 0 {
		w.importError = ""
		w.mu.Unlock()
		return nil
	}

	w.isFetching = true
	gen := w.generation
	creds := w.creds
	w.mu.Unlock()

	// Pages are inherently sequential; kinds are fetched one after another.
	var fetchErr error
	results := make(map[sources.ItemKind]*sources.ItemsPage, len(pending))
	for _, kind := range pending {
		page, err := w.source.FetchItemsPage(ctx, creds, kind, w.pageSize, "")
		if err != nil {
			fetchErr = err
			break
		}
		results[kind] = page
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return nil
	}
	w.isFetching = false

	for kind, page := range results {
		w.applyPageLocked(kind, page)
	}
	if fetchErr != nil {
		w.importError = humanize(fetchErr)
		return fetchErr
	}
	w.importError = ""
	return nil
}

// LoadMore fetches the next page for one kind using the stored cursor.
// Previously accumulated pages survive a failure.
func (w *Wizard) LoadMore(ctx context.Context, kind sources.ItemKind) error {
	w.mu.Lock()
	if w.isFetching {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.step != StepItemsPreview {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	acc := w.items[kind]
	if acc == nil || !acc.Loaded {
		w.mu.Unlock()
		return fmt.Errorf("%s: first page not loaded yet", kind)
	}
	if !acc.HasNextPage {
		w.mu.Unlock()
		return nil
	}

	w.isFetching = true
	gen := w.generation
	creds := w.creds
	cursor := acc.Cursor
	w.mu.Unlock()

	page, err := w.source.FetchItemsPage(ctx, creds, kind, w.pageSize, cursor)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return nil
	}
	w.isFetching = false

	if err != nil {
		w.importError = humanize(err)
		return err
	}
	w.applyPageLocked(kind, page)
	w.importError = ""
	return nil
}

// Finalize persists the accumulated draft. Success resets the wizard to Idle
// and returns the created store; failure re-enters ItemsPreview with the
// preview data intact so the user can retry without refetching.
func (w *Wizard) Finalize(ctx context.Context, ownerID uuid.UUID, persister Persister) (*models.Store, error) {
	w.mu.Lock()
	if w.isFetching {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.step != StepItemsPreview {
		w.mu.Unlock()
		return nil, ErrInvalidTransition
	}

	w.step = StepFinalizing
	w.isFetching = true
	gen := w.generation
	draft := w.source.Normalize(w.metadata, w.accumulatedProducts(), w.accumulatedCollections())
	w.mu.Unlock()

	store, err := persister.CreateStore(ctx, draft, ownerID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return nil, nil
	}
	w.isFetching = false

	if err != nil {
		w.step = StepItemsPreview
		w.importError = humanize(err)
		return nil, err
	}

	w.resetLocked()
	return store, nil
}

// Back steps one position back, never below Connect. The recorded error is
// cleared so the previous step renders clean.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isFetching {
		return ErrBusy
	}
	if w.step <= StepIdle {
		return ErrInvalidTransition
	}
	if w.step > StepConnect {
		w.step--
	}
	w.importError = ""
	return nil
}

// Cancel discards everything, credentials included, and returns to Idle.
// An in-flight request is not aborted; its result is ignored when it lands.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// State returns a snapshot safe to serialize.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := State{
		Source:      w.source.Name(),
		Step:        w.step,
		StepName:    w.step.String(),
		TotalSteps:  w.source.TotalSteps(),
		Metadata:    w.metadata,
		Items:       make(map[sources.ItemKind]PagedState, len(w.items)),
		IsFetching:  w.isFetching,
		ImportError: w.importError,
	}
	for kind, acc := range w.items {
		state.Items[kind] = PagedState{
			Products:    append([]models.ProductDraft(nil), acc.Products...),
			Collections: append([]string(nil), acc.Collections...),
			HasNextPage: acc.HasNextPage,
			Loaded:      acc.Loaded,
		}
	}
	return state
}

func (w *Wizard) resetLocked() {
	w.step = StepIdle
	w.creds = sources.Credentials{}
	w.metadata = nil
	w.items = make(map[sources.ItemKind]*pagedItems)
	w.isFetching = false
	w.importError = ""
	w.generation++
}

func (w *Wizard) applyPageLocked(kind sources.ItemKind, page *sources.ItemsPage) {
	acc := w.items[kind]
	if acc == nil {
		acc = &pagedItems{}
		w.items[kind] = acc
	}
	acc.Products = append(acc.Products, page.Products...)
	acc.Collections = append(acc.Collections, page.Collections...)
	acc.Cursor = page.PageInfo.EndCursor
	acc.HasNextPage = page.PageInfo.HasNextPage
	acc.Loaded = true
}

func (w *Wizard) accumulatedProducts() []models.ProductDraft {
	var products []models.ProductDraft
	for _, kind := range w.source.Kinds() {
		if acc := w.items[kind]; acc != nil {
			products = append(products, acc.Products...)
		}
	}
	return products
}

func (w *Wizard) accumulatedCollections() []string {
	var collections []string
	for _, kind := range w.source.Kinds() {
		if acc := w.items[kind]; acc != nil {
			collections = append(collections, acc.Collections...)
		}
	}
	return collections
}

// humanize flattens a pipeline error into the message shown in importError.
func humanize(err error) string {
	var se *sources.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case sources.ErrKindAuth:
			return "Authentication failed: " + se.Message
		case sources.ErrKindNetwork:
			return "Could not reach the store: " + se.Message
		case sources.ErrKindGraphQL:
			return "The store's API returned an error: " + se.Message
		case sources.ErrKindMalformed:
			return "The store returned an unexpected response: " + se.Message
		}
	}
	return err.Error()
}
