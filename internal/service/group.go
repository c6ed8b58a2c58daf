package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/mutation"
	"github.com/pkordes/nightcrew/backend/internal/remote"
	"github.com/pkordes/nightcrew/backend/internal/wizard"
)

// GroupService submits finished wizard drafts to the remote boundary.
type GroupService struct {
	client   remote.Client
	guard    *mutation.Guard
	notifier Notifier
	log      *slog.Logger
}

// NewGroupService constructs a GroupService.
// A nil logger discards log output.
func NewGroupService(client remote.Client, guard *mutation.Guard, notifier Notifier, log *slog.Logger) *GroupService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &GroupService{client: client, guard: guard, notifier: notifier, log: log}
}

// Submit creates a group from the current contents of store.
//
// On success the store is reset to a default draft and nav.Back is called
// exactly once. On failure the store is left untouched so the user can fix
// the draft and retry, the failure is shown through the Notifier, and the
// error is returned. A second Submit of the same store while one is in
// flight fails with domain.ErrConflict.
func (s *GroupService) Submit(ctx context.Context, store *wizard.Store, nav Navigator) (domain.CreateGroupResult, error) {
	draft := store.State()
	if err := validateDraft(draft); err != nil {
		s.notifier.Alert(ctx, "Can't create group", domain.Message(err))
		return domain.CreateGroupResult{}, fmt.Errorf("service.GroupService.Submit: %w", err)
	}

	// One submission per draft; the store pointer identifies the draft.
	key := fmt.Sprintf("group:%p", store)
	result, err := mutation.Run[struct{}](ctx, nil, s.guard, mutation.Optimistic[struct{}, domain.CreateGroupResult]{
		Key: key,
		Commit: func(ctx context.Context) (domain.CreateGroupResult, error) {
			r, err := s.client.CreateGroup(ctx, draft)
			if err == nil && !r.Success {
				err = fmt.Errorf("%w: The group was not created. Please try again.", domain.ErrNetwork)
			}
			return r, err
		},
		Observe: observer(s.log),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.notifier.Alert(ctx, "Can't create group", domain.Message(err))
		}
		return domain.CreateGroupResult{}, fmt.Errorf("service.GroupService.Submit: %w", err)
	}

	store.Reset()
	nav.Back()
	return result, nil
}

// validateDraft enforces the rules the store itself does not:
//   - EndDate, if set together with StartDate, must not be before it.
//   - Visibility must be public or private.
//
// A blank name is rejected by the remote boundary, which owns that rule.
func validateDraft(d domain.GroupDraft) error {
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return fmt.Errorf("%w: End date must not be before start date.", domain.ErrValidation)
	}
	if !d.Visibility.Valid() {
		return fmt.Errorf("%w: Visibility must be public or private.", domain.ErrValidation)
	}
	return nil
}
