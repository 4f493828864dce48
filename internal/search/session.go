package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenwick/lettings/internal/criteria"
	"github.com/tenwick/lettings/internal/listing"
	"github.com/tenwick/lettings/internal/predicate"
	"github.com/tenwick/lettings/internal/wizard"
)

// DefaultDebounce is the quiescence window before a criteria change
// triggers a count request.
const DefaultDebounce = 150 * time.Millisecond

// FlowState is the phase of the overall search flow.
type FlowState int

const (
	// FlowFiltering: the step wizard is active, no results yet.
	FlowFiltering FlowState = iota
	// FlowSearching: the full search execution is in flight.
	FlowSearching
	// FlowResults: a result list is available.
	FlowResults
)

// ListingStore is the session's view of the listing backend.
type ListingStore interface {
	TotalCount(ctx context.Context, orgID uuid.UUID) (int, error)
	DistinctSuburbs(ctx context.Context, orgID uuid.UUID) ([]string, error)
	CountListings(ctx context.Context, p predicate.Predicate) (int, error)
	SearchListings(ctx context.Context, p predicate.Predicate) ([]listing.Summary, error)
}

// ImageStore resolves primary images for search results.
type ImageStore interface {
	PrimaryImagePaths(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID]string, error)
	PublicURL(storagePath string) string
}

// Result is one row of an executed search: the listing projection plus
// its resolved primary image URL ("" when the listing has none).
type Result struct {
	listing.Summary
	PrimaryImageURL string
}

// Session drives one guided search: criteria, step navigation, the
// debounced matching count, and search execution, all scoped to a single
// tenant. All store handles and tenant identity are injected; the
// session holds no ambient globals.
type Session struct {
	listings ListingStore
	images   ImageStore
	org      uuid.UUID

	logger   *slog.Logger
	debounce time.Duration
	sched    Scheduler
	clock    GenerationSource

	mu              sync.Mutex
	ctx             context.Context
	cancel          context.CancelFunc
	criteria        criteria.Criteria
	seq             *wizard.Sequencer
	suburbs         []string
	total           int
	matching        int
	matchingLoading bool
	latest          int64 // generation of the newest issued count request
	pending         CancelFunc
	results         []Result
	flow            FlowState
	hasSearched     bool
	closed          bool
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce overrides the debounce interval for count refreshes.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithScheduler substitutes the debounce scheduler. Used by tests to
// drive the quiescence window deterministically.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithClock substitutes the generation source. Used by tests to assert
// which generation a count request carried.
func WithClock(c GenerationSource) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the logger for advisory failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a search session for one tenant.
func NewSession(listings ListingStore, images ImageStore, orgID uuid.UUID, opts ...Option) *Session {
	s := &Session{
		listings: listings,
		images:   images,
		org:      orgID,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		sched:    TimerScheduler{},
		clock:    NewClock(),
		seq:      wizard.NewSequencer(wizard.SearchSteps, wizard.ModeCreate),
		flow:     FlowFiltering,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx = context.Background()
	return s
}

// Start seeds the session: the distinct suburb list for the first step
// and the tenant-wide total, which also initializes the matching count
// (empty criteria match everything). The context governs every
// asynchronous query the session issues until Close.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.ctx = ctx
	s.cancel = cancel
	s.mu.Unlock()

	suburbs, err := s.listings.DistinctSuburbs(ctx, s.org)
	if err != nil {
		return fmt.Errorf("fetch suburbs: %w", err)
	}
	total, err := s.listings.TotalCount(ctx, s.org)
	if err != nil {
		return fmt.Errorf("fetch total count: %w", err)
	}

	s.mu.Lock()
	s.suburbs = suburbs
	s.total = total
	s.matching = total
	s.mu.Unlock()
	return nil
}

// Close stops the session: the pending debounce timer is cancelled so it
// cannot fire a late update into a dismissed wizard, and in-flight
// queries are cancelled via the session context.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
	s.latest = s.clock.Next()
	if s.cancel != nil {
		s.cancel()
	}
}

/* ------------------------------------------------------------------
   Criteria toggles
------------------------------------------------------------------ */

// ToggleSuburb flips a suburb selection.
func (s *Session) ToggleSuburb(suburb string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.ToggleSuburb(suburb)
	s.criteriaChangedLocked()
}

// TogglePropertyType flips a property-type selection.
func (s *Session) TogglePropertyType(t listing.PropertyType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.TogglePropertyType(t)
	s.criteriaChangedLocked()
}

// ToggleBedroom flips a bedroom-bucket selection.
func (s *Session) ToggleBedroom(bedrooms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.ToggleBedroom(bedrooms)
	s.criteriaChangedLocked()
}

// ToggleAmenity flips an amenity requirement.
func (s *Session) ToggleAmenity(key listing.AmenityKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.ToggleAmenity(key)
	s.criteriaChangedLocked()
}

// SetElevatorRequired sets the elevator requirement.
func (s *Session) SetElevatorRequired(required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.WithElevatorRequired(required)
	s.criteriaChangedLocked()
}

// criteriaChangedLocked maintains the count oracle's single pending
// intent: cancel any scheduled refresh, then either short-circuit (empty
// criteria need no query - matching is the known total) or reschedule.
func (s *Session) criteriaChangedLocked() {
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}

	if s.criteria.Empty() {
		// Invalidate in-flight requests; their criteria no longer exist.
		s.latest = s.clock.Next()
		s.matching = s.total
		s.matchingLoading = false
		return
	}

	s.pending = s.sched.Schedule(s.debounce, s.refreshCount)
}

// refreshCount issues a count request for the criteria as of now,
// stamped with a fresh generation. Only the newest generation may apply
// its result; anything else arrives stale and is dropped. A failed
// request keeps the previous count - the live count is advisory, it
// never blocks the wizard.
func (s *Session) refreshCount() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	gen := s.clock.Next()
	s.latest = gen
	s.matchingLoading = true
	pred := predicate.FromCriteria(s.org, s.criteria)
	ctx := s.ctx
	s.mu.Unlock()

	count, err := s.listings.CountListings(ctx, pred)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.latest {
		return // superseded by a newer request
	}
	s.matchingLoading = false
	if err != nil {
		s.logger.Warn("matching count refresh failed", "org", s.org, "error", err)
		return
	}
	s.matching = count
}

/* ------------------------------------------------------------------
   Step navigation
------------------------------------------------------------------ */

// CurrentStep returns the active wizard step.
func (s *Session) CurrentStep() wizard.StepID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Current()
}

// StepIndex returns the active step index.
func (s *Session) StepIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Index()
}

// IsFirstStep reports whether the wizard is on its first step.
func (s *Session) IsFirstStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.IsFirst()
}

// IsLastStep reports whether the wizard is on its last step.
func (s *Session) IsLastStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.IsLast()
}

// NextStep advances the wizard.
func (s *Session) NextStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Next()
}

// PreviousStep moves the wizard back.
func (s *Session) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Previous()
}

// SkipStep advances past the current step without selecting anything.
func (s *Session) SkipStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.Skip()
}

// JumpToStep revisits an already-completed step.
func (s *Session) JumpToStep(step wizard.StepID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.JumpTo(step)
}

/* ------------------------------------------------------------------
   Execution
------------------------------------------------------------------ */

// ExecuteSearch runs the full query for the current criteria, resolves
// primary images in one batched lookup, and atomically replaces the
// result list. A query failure yields an empty result list - to the
// user indistinguishable from a genuine zero-match search.
func (s *Session) ExecuteSearch(ctx context.Context) ([]Result, error) {
	s.mu.Lock()
	pred := predicate.FromCriteria(s.org, s.criteria)
	s.flow = FlowSearching
	s.hasSearched = true
	s.mu.Unlock()

	summaries, err := s.listings.SearchListings(ctx, pred)
	if err != nil {
		s.logger.Warn("search execution failed", "org", s.org, "error", err)
		s.mu.Lock()
		s.results = nil
		s.flow = FlowResults
		s.mu.Unlock()
		return nil, fmt.Errorf("execute search: %w", err)
	}

	results := s.attachImages(ctx, summaries)

	s.mu.Lock()
	s.results = results
	s.flow = FlowResults
	s.mu.Unlock()
	return results, nil
}

// attachImages joins primary image URLs onto summaries by listing ID.
// One batched fetch keyed by the full ID list - never a per-result
// round trip. Image failures degrade to image-less results.
func (s *Session) attachImages(ctx context.Context, summaries []listing.Summary) []Result {
	results := make([]Result, len(summaries))
	for i, sum := range summaries {
		results[i] = Result{Summary: sum}
	}
	if len(summaries) == 0 {
		return results
	}

	ids := make([]uuid.UUID, len(summaries))
	for i, sum := range summaries {
		ids[i] = sum.ID
	}

	paths, err := s.images.PrimaryImagePaths(ctx, ids)
	if err != nil {
		s.logger.Warn("primary image lookup failed", "org", s.org, "error", err)
		return results
	}
	for i := range results {
		if path, ok := paths[results[i].ID]; ok {
			results[i].PrimaryImageURL = s.images.PublicURL(path)
		}
	}
	return results
}

// NewSearch resets the session for a fresh search: criteria, step index,
// and results all return to their initial state, and any pending or
// in-flight count is invalidated.
func (s *Session) NewSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
	s.latest = s.clock.Next()
	s.criteria = criteria.Criteria{}
	s.seq.Reset()
	s.results = nil
	s.hasSearched = false
	s.flow = FlowFiltering
	s.matching = s.total
	s.matchingLoading = false
}

/* ------------------------------------------------------------------
   Accessors
------------------------------------------------------------------ */

// Criteria returns the current filter selections.
func (s *Session) Criteria() criteria.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// HasFilters reports whether any filter is active.
func (s *Session) HasFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.criteria.Empty()
}

// Suburbs returns the distinct suburb choices fetched at Start.
func (s *Session) Suburbs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.suburbs))
	copy(out, s.suburbs)
	return out
}

// TotalAssets returns the tenant-wide listing count.
func (s *Session) TotalAssets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// MatchingCount returns the current matching count and whether a count
// request is in flight.
func (s *Session) MatchingCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matching, s.matchingLoading
}

// Results returns the result list of the last executed search.
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Flow returns the current flow state.
func (s *Session) Flow() FlowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow
}

// HasSearched reports whether a search has been executed since the last
// reset.
func (s *Session) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSearched
}
