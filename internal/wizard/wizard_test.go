// internal/wizard/wizard_test.go
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// fakeSource is a scriptable strategy. Pages are keyed by (kind, cursor) so
// tests can wire exact pagination sequences.
type fakeSource struct {
	mu sync.Mutex

	name  string
	kinds []sources.ItemKind

	metadata    *sources.ShopMetadata
	metadataErr error
	pages       map[string]*sources.ItemsPage
	pageErr     error

	metadataCalls int
	pageCalls     int

	// blockMetadata, when set, holds FetchMetadata until released.
	blockMetadata chan struct{}
}

func pageKey(kind sources.ItemKind, cursor string) string {
	return string(kind) + "|" + cursor
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		name:     "fake",
		kinds:    []sources.ItemKind{sources.KindProducts},
		metadata: &sources.ShopMetadata{Name: "Fake Shop", Domain: "fake.example.com"},
		pages:    make(map[string]*sources.ItemsPage),
	}
}

func (f *fakeSource) Name() string              { return f.name }
func (f *fakeSource) TotalSteps() int           { return 4 }
func (f *fakeSource) Kinds() []sources.ItemKind { return f.kinds }

func (f *fakeSource) FetchMetadata(ctx context.Context, creds sources.Credentials) (*sources.ShopMetadata, error) {
	f.mu.Lock()
	f.metadataCalls++
	block := f.blockMetadata
	err := f.metadataErr
	meta := f.metadata
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (f *fakeSource) FetchItemsPage(ctx context.Context, creds sources.Credentials, kind sources.ItemKind, pageSize int, cursor string) (*sources.ItemsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pageCalls++
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	page, ok := f.pages[pageKey(kind, cursor)]
	if !ok {
		return nil, sources.NewError(sources.ErrKindGraphQL, fmt.Sprintf("no page scripted for %s cursor %q", kind, cursor))
	}
	return page, nil
}

func (f *fakeSource) Normalize(meta *sources.ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft {
	name := "Fake Shop"
	if meta != nil && meta.Name != "" {
		name = meta.Name
	}
	return models.StoreDraft{
		Name:        name,
		DataSource:  models.DataSourceShopify,
		Products:    products,
		Collections: collections,
	}
}

func productPage(names []string, cursor string, hasNext bool) *sources.ItemsPage {
	page := &sources.ItemsPage{
		PageInfo: sources.PageInfo{HasNextPage: hasNext, EndCursor: cursor},
	}
	for _, n := range names {
		page.Products = append(page.Products, models.ProductDraft{PlatformID: n, Name: n})
	}
	return page
}

// fakePersister records CreateStore calls and can be scripted to fail.
type fakePersister struct {
	err    error
	stores []models.StoreDraft
}

func (p *fakePersister) CreateStore(ctx context.Context, draft models.StoreDraft, ownerID uuid.UUID) (*models.Store, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.stores = append(p.stores, draft)
	return &models.Store{Name: draft.Name, UserID: ownerID}, nil
}

var creds = sources.Credentials{Domain: "fake.example.com", Token: "tok"}

func startedWizard(t *testing.T, src *fakeSource) *Wizard {
	t.Helper()
	w := New(src, 2)
	require.NoError(t, w.Start(context.Background(), creds))
	require.Equal(t, StepMetadataPreview, w.State().Step)
	return w
}

func TestStartAdvancesToMetadataPreview(t *testing.T) {
	src := newFakeSource()
	w := startedWizard(t, src)

	state := w.State()
	assert.Equal(t, "Fake Shop", state.Metadata.Name)
	assert.Empty(t, state.ImportError)
	assert.False(t, state.IsFetching)
}

func TestStartFailureStaysInConnectAndAllowsRetry(t *testing.T) {
	src := newFakeSource()
	src.metadataErr = sources.NewError(sources.ErrKindAuth, "token rejected")

	w := New(src, 2)
	err := w.Start(context.Background(), creds)
	require.Error(t, err)

	state := w.State()
	assert.Equal(t, StepConnect, state.Step)
	assert.Contains(t, state.ImportError, "Authentication failed")
	assert.Contains(t, state.ImportError, "token rejected")

	// Retry with fixed credentials succeeds.
	src.mu.Lock()
	src.metadataErr = nil
	src.mu.Unlock()
	require.NoError(t, w.Start(context.Background(), creds))
	assert.Equal(t, StepMetadataPreview, w.State().Step)
}

func TestNextLoadsFirstPages(t *testing.T) {
	src := newFakeSource()
	src.kinds = []sources.ItemKind{sources.KindProducts, sources.KindCollections}
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1", "p2"}, "c1", true)
	src.pages[pageKey(sources.KindCollections, "")] = &sources.ItemsPage{
		Collections: []string{"Summer"},
		PageInfo:    sources.PageInfo{HasNextPage: false},
	}

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))

	state := w.State()
	assert.Equal(t, StepItemsPreview, state.Step)
	assert.Len(t, state.Items[sources.KindProducts].Products, 2)
	assert.True(t, state.Items[sources.KindProducts].HasNextPage)
	assert.Equal(t, []string{"Summer"}, state.Items[sources.KindCollections].Collections)
}

func TestNextAfterBackDoesNotRefetch(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1"}, "", false)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))
	firstCalls := src.pageCalls

	require.NoError(t, w.Back())
	assert.Equal(t, StepMetadataPreview, w.State().Step)

	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, firstCalls, src.pageCalls)
	assert.Len(t, w.State().Items[sources.KindProducts].Products, 1)
}

func TestLoadMoreAppendsAndFailurePreservesItems(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1", "p2"}, "c1", true)
	src.pages[pageKey(sources.KindProducts, "c1")] = productPage([]string{"p3"}, "c2", true)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))

	require.NoError(t, w.LoadMore(context.Background(), sources.KindProducts))
	assert.Len(t, w.State().Items[sources.KindProducts].Products, 3)

	// The next page fails; accumulated items stay intact.
	src.mu.Lock()
	src.pageErr = sources.NewError(sources.ErrKindNetwork, "connection reset")
	src.mu.Unlock()

	err := w.LoadMore(context.Background(), sources.KindProducts)
	require.Error(t, err)

	state := w.State()
	assert.Len(t, state.Items[sources.KindProducts].Products, 3)
	assert.Contains(t, state.ImportError, "Could not reach the store")
}

func TestLoadMoreIsNoOpWithoutNextPage(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1"}, "", false)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))
	calls := src.pageCalls

	require.NoError(t, w.LoadMore(context.Background(), sources.KindProducts))
	assert.Equal(t, calls, src.pageCalls)
}

func TestBackFloorsAtConnect(t *testing.T) {
	src := newFakeSource()
	w := startedWizard(t, src)

	require.NoError(t, w.Back())
	assert.Equal(t, StepConnect, w.State().Step)

	require.NoError(t, w.Back())
	assert.Equal(t, StepConnect, w.State().Step)
}

func TestBackFromIdleIsInvalid(t *testing.T) {
	w := New(newFakeSource(), 2)
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
}

func TestFinalizeCreatesStoreAndResets(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1", "p2"}, "", false)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))

	persister := &fakePersister{}
	ownerID := uuid.New()
	store, err := w.Finalize(context.Background(), ownerID, persister)
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.Equal(t, "Fake Shop", store.Name)
	assert.Equal(t, ownerID, store.UserID)
	require.Len(t, persister.stores, 1)
	assert.Len(t, persister.stores[0].Products, 2)

	// Success returns the wizard to Idle with nothing retained.
	state := w.State()
	assert.Equal(t, StepIdle, state.Step)
	assert.Nil(t, state.Metadata)
	assert.Empty(t, state.Items)
}

func TestFinalizeFailureKeepsPreviewData(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1"}, "", false)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))

	persister := &fakePersister{err: errors.New("database unavailable")}
	store, err := w.Finalize(context.Background(), uuid.New(), persister)
	require.Error(t, err)
	assert.Nil(t, store)

	state := w.State()
	assert.Equal(t, StepItemsPreview, state.Step)
	assert.Len(t, state.Items[sources.KindProducts].Products, 1)
	assert.Contains(t, state.ImportError, "database unavailable")

	// Retry succeeds without refetching.
	persister.err = nil
	calls := src.pageCalls
	store, err = w.Finalize(context.Background(), uuid.New(), persister)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, calls, src.pageCalls)
}

func TestFinalizeRequiresItemsPreview(t *testing.T) {
	src := newFakeSource()
	w := startedWizard(t, src)

	_, err := w.Finalize(context.Background(), uuid.New(), &fakePersister{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelResetsEverything(t *testing.T) {
	src := newFakeSource()
	src.pages[pageKey(sources.KindProducts, "")] = productPage([]string{"p1"}, "", false)

	w := startedWizard(t, src)
	require.NoError(t, w.Next(context.Background()))

	w.Cancel()

	state := w.State()
	assert.Equal(t, StepIdle, state.Step)
	assert.Nil(t, state.Metadata)
	assert.Empty(t, state.Items)
	assert.Empty(t, state.ImportError)
}

// A metadata response landing after Cancel must not resurrect the wizard.
func TestLateResponseAfterCancelIsDropped(t *testing.T) {
	src := newFakeSource()
	src.blockMetadata = make(chan struct{})

	w := New(src, 2)
	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background(), creds)
	}()

	// Wait for the fetch to be in flight, then cancel.
	require.Eventually(t, func() bool {
		return w.State().IsFetching
	}, time.Second, 5*time.Millisecond)

	w.Cancel()
	close(src.blockMetadata)

	require.NoError(t, <-done)
	state := w.State()
	assert.Equal(t, StepIdle, state.Step)
	assert.Nil(t, state.Metadata)
}

func TestConcurrentRequestsAreRejectedWhileFetching(t *testing.T) {
	src := newFakeSource()
	src.blockMetadata = make(chan struct{})

	w := New(src, 2)
	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background(), creds)
	}()

	require.Eventually(t, func() bool {
		return w.State().IsFetching
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, w.Start(context.Background(), creds), ErrBusy)
	assert.ErrorIs(t, w.Next(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.Back(), ErrBusy)

	close(src.blockMetadata)
	require.NoError(t, <-done)
}

func TestManagerStartCancelsOtherSources(t *testing.T) {
	first := newFakeSource()
	second := newFakeSource()
	second.name = "other"

	m := NewManager(2, first, second)
	userID := uuid.New()

	w1, err := m.Start(context.Background(), userID, "fake", creds)
	require.NoError(t, err)
	assert.Equal(t, StepMetadataPreview, w1.State().Step)

	w2, err := m.Start(context.Background(), userID, "other", creds)
	require.NoError(t, err)
	assert.Equal(t, StepMetadataPreview, w2.State().Step)

	// Starting the second source reset the first.
	assert.Equal(t, StepIdle, w1.State().Step)
}

func TestManagerWizardsAreScopedPerUser(t *testing.T) {
	m := NewManager(2, newFakeSource())

	alice := uuid.New()
	bob := uuid.New()

	wAlice, err := m.Wizard(alice, "fake")
	require.NoError(t, err)
	wBob, err := m.Wizard(bob, "fake")
	require.NoError(t, err)
	assert.NotSame(t, wAlice, wBob)

	again, err := m.Wizard(alice, "fake")
	require.NoError(t, err)
	assert.Same(t, wAlice, again)
}

func TestManagerRejectsUnknownSource(t *testing.T) {
	m := NewManager(2, newFakeSource())
	_, err := m.Wizard(uuid.New(), "etsy")
	assert.Error(t, err)
}

func TestManagerRelease(t *testing.T) {
	m := NewManager(2, newFakeSource())
	userID := uuid.New()

	w, err := m.Wizard(userID, "fake")
	require.NoError(t, err)

	m.Release(userID)

	fresh, err := m.Wizard(userID, "fake")
	require.NoError(t, err)
	assert.NotSame(t, w, fresh)
}
