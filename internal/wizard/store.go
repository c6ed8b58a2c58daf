// Package wizard holds the in-progress state of the group-creation wizard.
//
// A Store is owned by exactly one wizard session and is passed explicitly to
// whoever needs it; there is no package-level instance. Scalar setters always
// succeed. Collection operations enforce their bounds inside the store and
// return a typed error from the domain package when they reject a change, so
// the draft is valid by construction.
package wizard

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// Store is a mutex-guarded GroupDraft. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu    sync.Mutex
	draft domain.GroupDraft
	log   *slog.Logger
}

// NewStore returns a Store holding a default draft.
// A nil logger discards log output.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{draft: domain.NewGroupDraft(), log: log}
}

// State returns a deep copy of the current draft.
func (s *Store) State() domain.GroupDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SetName overwrites the group name.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Name = name
}

// SetImageRef sets the locally picked image URI. Pass nil to clear it.
func (s *Store) SetImageRef(ref *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ImageRef = clone(ref)
}

// SetDescription overwrites the free-text description.
func (s *Store) SetDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Description = description
}

// SetStartDate overwrites the start date. The store does not compare it with
// the end date; that rule is checked when the draft is submitted.
func (s *Store) SetStartDate(t *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.StartDate = clone(t)
}

// SetEndDate overwrites the end date. Pass nil to clear it.
func (s *Store) SetEndDate(t *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.EndDate = clone(t)
}

// SetLinkURL overwrites the external link.
func (s *Store) SetLinkURL(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.LinkURL = link
}

// SetVisibility overwrites the group's visibility.
func (s *Store) SetVisibility(v domain.Visibility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Visibility = v
}

// Update applies fn to a copy of the draft and stores the result only if fn
// returns nil and the collection bounds still hold. The whole read, check and
// write happens under the store lock, so a check made inside fn cannot be
// invalidated by a concurrent change. Update returns the draft as stored.
func (s *Store) Update(fn func(d *domain.GroupDraft) error) (domain.GroupDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.draft.Clone()
	if err := fn(&next); err != nil {
		return s.draft.Clone(), fmt.Errorf("wizard.Store.Update: %w", err)
	}
	if err := checkBounds(next); err != nil {
		return s.draft.Clone(), fmt.Errorf("wizard.Store.Update: %w", err)
	}
	s.draft = next
	return s.draft.Clone(), nil
}

// AddDestination appends d to the selected destinations.
// Returns domain.ErrDuplicateDestination if d.ID is already selected and
// domain.ErrDestinationLimitExceeded if MaxDestinations are already selected.
// The draft is unchanged when an error is returned.
func (s *Store) AddDestination(d domain.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hasDestination(s.draft.Destinations, d.ID) {
		return fmt.Errorf("wizard.Store.AddDestination: %w: %s", domain.ErrDuplicateDestination, d.ID)
	}
	if len(s.draft.Destinations) >= domain.MaxDestinations {
		return fmt.Errorf("wizard.Store.AddDestination: %w: at most %d destinations", domain.ErrDestinationLimitExceeded, domain.MaxDestinations)
	}
	s.draft.Destinations = append(s.draft.Destinations, d)
	return nil
}

// RemoveDestination removes the destination with the given ID.
// It is a no-op if no such destination is selected.
func (s *Store) RemoveDestination(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.draft.Destinations, func(d domain.Destination) bool { return d.ID == id })
	if i < 0 {
		return
	}
	s.draft.Destinations = slices.Delete(s.draft.Destinations, i, i+1)
}

// ToggleInterest deselects id if it is selected, otherwise selects it.
// selected reports the state of id after the call.
// Selecting a sixth interest is rejected with domain.ErrInterestLimitExceeded
// and leaves the draft unchanged.
func (s *Store) ToggleInterest(id string) (selected bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.draft.Interests, id); i >= 0 {
		s.draft.Interests = slices.Delete(s.draft.Interests, i, i+1)
		return false, nil
	}
	if len(s.draft.Interests) >= domain.MaxInterests {
		s.log.Debug("interest limit reached", "interest", id, "limit", domain.MaxInterests)
		return false, fmt.Errorf("wizard.Store.ToggleInterest: %w: at most %d interests", domain.ErrInterestLimitExceeded, domain.MaxInterests)
	}
	s.draft.Interests = append(s.draft.Interests, id)
	return true, nil
}

// Reset replaces the whole draft with the defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = domain.NewGroupDraft()
}

// Restore replaces the draft with d, e.g. when resuming a saved session.
// The collection bounds and destination uniqueness are checked first; on
// error the current draft is kept. Date ordering is not checked here.
func (s *Store) Restore(d domain.GroupDraft) error {
	interests := make([]string, 0, len(d.Interests))
	for _, id := range d.Interests {
		if !slices.Contains(interests, id) {
			interests = append(interests, id)
		}
	}
	d.Interests = interests
	if err := checkBounds(d); err != nil {
		return fmt.Errorf("wizard.Store.Restore: %w", err)
	}
	if !d.Visibility.Valid() {
		d.Visibility = domain.VisibilityPublic
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d.Clone()
	return nil
}

// checkBounds reports whether d respects the collection limits and holds no
// duplicate destinations or interests.
func checkBounds(d domain.GroupDraft) error {
	if len(d.Destinations) > domain.MaxDestinations {
		return fmt.Errorf("%w: at most %d destinations", domain.ErrDestinationLimitExceeded, domain.MaxDestinations)
	}
	seen := make(map[string]struct{}, len(d.Destinations))
	for _, dest := range d.Destinations {
		if _, dup := seen[dest.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateDestination, dest.ID)
		}
		seen[dest.ID] = struct{}{}
	}
	if len(d.Interests) > domain.MaxInterests {
		return fmt.Errorf("%w: at most %d interests", domain.ErrInterestLimitExceeded, domain.MaxInterests)
	}
	for i, id := range d.Interests {
		if slices.Contains(d.Interests[:i], id) {
			return fmt.Errorf("%w: duplicate interest %s", domain.ErrValidation, id)
		}
	}
	return nil
}

func hasDestination(ds []domain.Destination, id string) bool {
	return slices.ContainsFunc(ds, func(d domain.Destination) bool { return d.ID == id })
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
