package search_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenwick/lettings/internal/listing"
	"github.com/tenwick/lettings/internal/predicate"
	"github.com/tenwick/lettings/internal/search"
	"github.com/tenwick/lettings/internal/testutil"
)

var testOrg = uuid.MustParse("11111111-1111-1111-1111-111111111111")

const eventually = 2 * time.Second

type countResult struct {
	n   int
	err error
}

// fakeStore implements search.ListingStore, recording count calls and
// optionally blocking each one on a release channel.
type fakeStore struct {
	mu         sync.Mutex
	total      int
	suburbs    []string
	countCalls []predicate.Predicate
	releases   []chan countResult
	countFn    func(predicate.Predicate) (int, error)
	searchFn   func(predicate.Predicate) ([]listing.Summary, error)
}

func (f *fakeStore) TotalCount(_ context.Context, _ uuid.UUID) (int, error) {
	return f.total, nil
}

func (f *fakeStore) DistinctSuburbs(_ context.Context, _ uuid.UUID) ([]string, error) {
	return f.suburbs, nil
}

func (f *fakeStore) CountListings(_ context.Context, p predicate.Predicate) (int, error) {
	f.mu.Lock()
	f.countCalls = append(f.countCalls, p)
	idx := len(f.countCalls) - 1
	var release chan countResult
	if idx < len(f.releases) {
		release = f.releases[idx]
	}
	fn := f.countFn
	f.mu.Unlock()

	if release != nil {
		r := <-release
		return r.n, r.err
	}
	if fn != nil {
		return fn(p)
	}
	return 0, nil
}

func (f *fakeStore) SearchListings(_ context.Context, p predicate.Predicate) ([]listing.Summary, error) {
	if f.searchFn != nil {
		return f.searchFn(p)
	}
	return nil, nil
}

func (f *fakeStore) countCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.countCalls)
}

// fakeImages implements search.ImageStore.
type fakeImages struct {
	mu    sync.Mutex
	paths map[uuid.UUID]string
	err   error
	calls [][]uuid.UUID
}

func (f *fakeImages) PrimaryImagePaths(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	return f.paths, nil
}

func (f *fakeImages) PublicURL(storagePath string) string {
	return "https://img.test/" + storagePath
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, store *fakeStore, sched *testutil.ManualScheduler, opts ...search.Option) *search.Session {
	t.Helper()
	opts = append([]search.Option{
		search.WithScheduler(sched),
		search.WithLogger(quietLogger()),
	}, opts...)
	s := search.NewSession(store, &fakeImages{}, testOrg, opts...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestStart_EmptyCriteriaMatchesTotalWithoutQuery(t *testing.T) {
	store := &fakeStore{total: 42, suburbs: []string{"Newtown", "Springfield"}}
	s := newTestSession(t, store, testutil.NewManualScheduler())

	matching, loading := s.MatchingCount()
	assert.Equal(t, 42, matching)
	assert.False(t, loading)
	assert.Equal(t, 42, s.TotalAssets())
	assert.Equal(t, []string{"Newtown", "Springfield"}, s.Suburbs())
	assert.Zero(t, store.countCallCount(), "no count query for empty criteria")
}

func TestDebounce_BurstCollapsesIntoOneQuery(t *testing.T) {
	store := &fakeStore{total: 42, countFn: func(predicate.Predicate) (int, error) { return 7, nil }}
	sched := testutil.NewManualScheduler()
	s := newTestSession(t, store, sched)

	// A rapid burst: each change cancels its predecessor's schedule.
	s.ToggleSuburb("Springfield")
	s.TogglePropertyType(listing.TypeHouse)
	s.ToggleBedroom(3)
	s.ToggleAmenity(listing.AmenityGym)
	s.ToggleAmenity(listing.AmenityGym)
	s.ToggleBedroom(2)
	s.SetElevatorRequired(true)
	s.ToggleSuburb("Newtown")
	s.ToggleSuburb("Newtown")
	s.TogglePropertyType(listing.TypeApartment)

	assert.Equal(t, 1, sched.PendingCount(), "one live schedule after the burst")
	assert.Equal(t, 9, sched.CancelledCount())

	sched.Fire()

	require.Eventually(t, func() bool {
		matching, loading := s.MatchingCount()
		return matching == 7 && !loading
	}, eventually, time.Millisecond)
	assert.Equal(t, 1, store.countCallCount(), "the burst produced a single query")
}

func TestStaleCountNeverOverwritesFresher(t *testing.T) {
	releaseA := make(chan countResult, 1)
	releaseB := make(chan countResult, 1)
	store := &fakeStore{total: 42, releases: []chan countResult{releaseA, releaseB}}
	sched := testutil.NewManualScheduler()
	clock := testutil.NewDeterministicClock()
	s := newTestSession(t, store, sched, search.WithClock(clock))

	s.ToggleSuburb("Springfield")
	sched.Fire() // request A in flight, blocked

	require.Eventually(t, func() bool { return store.countCallCount() == 1 }, eventually, time.Millisecond)
	assert.Equal(t, int64(1), clock.Current(), "request A carries generation 1")

	s.ToggleSuburb("Newtown")
	sched.Fire() // request B in flight, blocked

	require.Eventually(t, func() bool { return store.countCallCount() == 2 }, eventually, time.Millisecond)
	assert.Equal(t, int64(2), clock.Current(), "request B carries generation 2")

	// B completes first and wins.
	releaseB <- countResult{n: 5}
	require.Eventually(t, func() bool {
		matching, loading := s.MatchingCount()
		return matching == 5 && !loading
	}, eventually, time.Millisecond)

	// A straggles in afterwards and must be dropped.
	releaseA <- countResult{n: 99}
	assert.Never(t, func() bool {
		matching, _ := s.MatchingCount()
		return matching == 99
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestEmptyCriteria_InvalidatesInFlightCount(t *testing.T) {
	release := make(chan countResult, 1)
	store := &fakeStore{total: 42, releases: []chan countResult{release}}
	sched := testutil.NewManualScheduler()
	clock := testutil.NewDeterministicClock()
	s := newTestSession(t, store, sched, search.WithClock(clock))

	s.ToggleSuburb("Springfield")
	sched.Fire() // request in flight, blocked
	require.Eventually(t, func() bool { return store.countCallCount() == 1 }, eventually, time.Millisecond)
	assert.Equal(t, int64(1), clock.Current())

	// Back to empty: matching snaps to total with no query, and a fresh
	// generation is burned so the in-flight request can never win.
	s.ToggleSuburb("Springfield")
	matching, loading := s.MatchingCount()
	assert.Equal(t, 42, matching)
	assert.False(t, loading)
	assert.Equal(t, int64(2), clock.Current(), "invalidation advances the generation")

	// The in-flight result lands late and must not apply.
	release <- countResult{n: 13}
	assert.Never(t, func() bool {
		matching, _ := s.MatchingCount()
		return matching == 13
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestEmptyCriteria_CancelsPendingSchedule(t *testing.T) {
	store := &fakeStore{total: 42}
	sched := testutil.NewManualScheduler()
	s := newTestSession(t, store, sched)

	s.ToggleSuburb("Springfield")
	s.ToggleSuburb("Springfield")

	assert.Zero(t, sched.PendingCount())
	sched.Fire()
	assert.Zero(t, store.countCallCount())
}

func TestCountFailure_KeepsPreviousCount(t *testing.T) {
	releaseA := make(chan countResult, 1)
	releaseB := make(chan countResult, 1)
	store := &fakeStore{total: 42, releases: []chan countResult{releaseA, releaseB}}
	sched := testutil.NewManualScheduler()
	s := newTestSession(t, store, sched)

	s.ToggleSuburb("Springfield")
	sched.Fire()
	releaseA <- countResult{n: 3}
	require.Eventually(t, func() bool {
		matching, loading := s.MatchingCount()
		return matching == 3 && !loading
	}, eventually, time.Millisecond)

	s.ToggleSuburb("Newtown")
	sched.Fire()
	releaseB <- countResult{err: context.DeadlineExceeded}
	require.Eventually(t, func() bool {
		_, loading := s.MatchingCount()
		return !loading
	}, eventually, time.Millisecond)

	matching, _ := s.MatchingCount()
	assert.Equal(t, 3, matching, "failed refresh keeps the previous count")
}

func TestExecuteSearch_BatchesPrimaryImageLookup(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	store := &fakeStore{
		total: 42,
		searchFn: func(predicate.Predicate) ([]listing.Summary, error) {
			return []listing.Summary{{ID: ids[0]}, {ID: ids[1]}, {ID: ids[2]}}, nil
		},
	}
	images := &fakeImages{paths: map[uuid.UUID]string{
		ids[0]: "a.jpg",
		ids[2]: "c.jpg",
	}}
	s := search.NewSession(store, images, testOrg,
		search.WithScheduler(testutil.NewManualScheduler()),
		search.WithLogger(quietLogger()),
	)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	results, err := s.ExecuteSearch(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "https://img.test/a.jpg", results[0].PrimaryImageURL)
	assert.Empty(t, results[1].PrimaryImageURL, "listing without a primary image")
	assert.Equal(t, "https://img.test/c.jpg", results[2].PrimaryImageURL)

	require.Len(t, images.calls, 1, "one batched lookup, not one per result")
	assert.Equal(t, ids, images.calls[0])
	assert.Equal(t, search.FlowResults, s.Flow())
	assert.True(t, s.HasSearched())
}

func TestExecuteSearch_ImageFailureDegradesGracefully(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{
		total: 42,
		searchFn: func(predicate.Predicate) ([]listing.Summary, error) {
			return []listing.Summary{{ID: id}}, nil
		},
	}
	images := &fakeImages{err: context.DeadlineExceeded}
	s := search.NewSession(store, images, testOrg,
		search.WithScheduler(testutil.NewManualScheduler()),
		search.WithLogger(quietLogger()),
	)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	results, err := s.ExecuteSearch(context.Background())
	require.NoError(t, err, "image failure is advisory")
	require.Len(t, results, 1)
	assert.Empty(t, results[0].PrimaryImageURL)
}

func TestExecuteSearch_QueryFailureYieldsEmptyResults(t *testing.T) {
	store := &fakeStore{
		total: 42,
		searchFn: func(predicate.Predicate) ([]listing.Summary, error) {
			return nil, context.DeadlineExceeded
		},
	}
	s := newTestSession(t, store, testutil.NewManualScheduler())

	results, err := s.ExecuteSearch(context.Background())
	assert.Error(t, err)
	assert.Empty(t, results)
	assert.Empty(t, s.Results())
	assert.Equal(t, search.FlowResults, s.Flow(), "failure presents as zero matches")
}

func TestNewSearch_ResetsToInitialState(t *testing.T) {
	store := &fakeStore{
		total:   42,
		countFn: func(predicate.Predicate) (int, error) { return 7, nil },
		searchFn: func(predicate.Predicate) ([]listing.Summary, error) {
			return []listing.Summary{{ID: uuid.New()}}, nil
		},
	}
	sched := testutil.NewManualScheduler()
	s := newTestSession(t, store, sched)

	s.ToggleSuburb("Springfield")
	s.NextStep()
	s.NextStep()
	sched.Fire()
	require.Eventually(t, func() bool {
		matching, loading := s.MatchingCount()
		return matching == 7 && !loading
	}, eventually, time.Millisecond)
	_, err := s.ExecuteSearch(context.Background())
	require.NoError(t, err)

	s.NewSearch()

	assert.True(t, s.Criteria().Empty())
	assert.False(t, s.HasFilters())
	assert.Zero(t, s.StepIndex())
	assert.Empty(t, s.Results())
	assert.False(t, s.HasSearched())
	assert.Equal(t, search.FlowFiltering, s.Flow())
	matching, loading := s.MatchingCount()
	assert.Equal(t, 42, matching)
	assert.False(t, loading)
}

func TestClose_CancelsPendingDebounce(t *testing.T) {
	store := &fakeStore{total: 42}
	sched := testutil.NewManualScheduler()
	s := search.NewSession(store, &fakeImages{}, testOrg,
		search.WithScheduler(sched),
		search.WithLogger(quietLogger()),
	)
	require.NoError(t, s.Start(context.Background()))

	s.ToggleSuburb("Springfield")
	s.Close()

	assert.Zero(t, sched.PendingCount())
	sched.Fire()
	assert.Zero(t, store.countCallCount(), "no late query after close")
}

func TestStepNavigation_DelegatesToSequencer(t *testing.T) {
	store := &fakeStore{total: 42}
	s := newTestSession(t, store, testutil.NewManualScheduler())

	assert.True(t, s.IsFirstStep())
	first := s.CurrentStep()

	s.NextStep()
	s.NextStep()
	assert.Equal(t, 2, s.StepIndex())

	s.JumpToStep(first)
	assert.Equal(t, first, s.CurrentStep())

	// Forward jumps are not allowed while filtering.
	s.NextStep()
	last := s.StepIndex()
	s.JumpToStep(s.CurrentStep())
	assert.Equal(t, last, s.StepIndex())
}
