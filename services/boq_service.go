package services

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"boqtracker/boq"
	"boqtracker/config"
)

// BOQServiceOptions wires a BOQService. Registry, Projects and Settings are
// required; the rest have defaults.
type BOQServiceOptions struct {
	Registry   *boq.Registry
	Projects   ProjectDirectory
	Purchasing PurchaseRequestCreator
	Settings   config.Settings
	IDs        *BOQIDSequence
	Logger     *slog.Logger
	Now        func() time.Time
}

// BOQService is the command/query surface over the BOQ registry. Commands are
// serialized; each one reads a snapshot, applies one domain operation and
// stores the result only if the stored version has not moved.
type BOQService struct {
	mu         sync.Mutex
	registry   *boq.Registry
	projects   ProjectDirectory
	purchasing PurchaseRequestCreator
	settings   config.Settings
	ids        *BOQIDSequence
	logger     *slog.Logger
	now        func() time.Time
}

// NewBOQService creates a service from opts.
func NewBOQService(opts BOQServiceOptions) *BOQService {
	s := &BOQService{
		registry:   opts.Registry,
		projects:   opts.Projects,
		purchasing: opts.Purchasing,
		settings:   opts.Settings,
		ids:        opts.IDs,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if s.registry == nil {
		s.registry = boq.NewRegistry()
	}
	if s.ids == nil {
		s.ids = NewBOQIDSequence()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.purchasing == nil {
		s.purchasing = &DryRunPurchaseRequests{}
	}
	return s
}

// Settings returns the settings the service was built with.
func (s *BOQService) Settings() config.Settings {
	return s.settings
}

// CreateBOQInput holds the caller-supplied fields of a new BOQ.
type CreateBOQInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ProjectID   string       `json:"project_id"`
	Priority    boq.Priority `json:"priority"`
}

// CreateBOQ resolves the project and stores a new draft BOQ.
func (s *BOQService) CreateBOQ(in CreateBOQInput, actor string) (boq.BOQ, error) {
	project, err := s.projects.ResolveProject(in.ProjectID)
	if err != nil {
		return boq.BOQ{}, err
	}
	if in.Priority == "" {
		in.Priority = boq.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	params := boq.NewParams{
		Title:         in.Title,
		Description:   in.Description,
		Project:       project,
		Priority:      in.Priority,
		CreatedBy:     actor,
		ContingencyBP: s.settings.ContingencyBP(),
	}
	b, err := s.insertNew(func(id string) (boq.BOQ, error) { return boq.New(id, params, now) })
	if err != nil {
		return boq.BOQ{}, err
	}
	s.logCommand("create", b, actor)
	return b, nil
}

// insertNew stores the BOQ built by build under the next free id. Ids already
// taken (e.g. by imported snapshots) are skipped. A build or store failure
// leaves the id free for the next create. Callers hold s.mu.
func (s *BOQService) insertNew(build func(id string) (boq.BOQ, error)) (boq.BOQ, error) {
	for {
		now := s.now()
		b, err := build(s.ids.Peek(now))
		if err != nil {
			return boq.BOQ{}, err
		}
		err = s.registry.Insert(b)
		if errors.Is(err, boq.ErrConflict) {
			s.ids.Advance(now)
			continue
		}
		if err != nil {
			return boq.BOQ{}, err
		}
		s.ids.Advance(now)
		return b, nil
	}
}

// mutate applies fn to the stored snapshot of id and stores the result.
func (s *BOQService) mutate(id, op, actor string, fn func(boq.BOQ) (boq.BOQ, error)) (boq.BOQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.registry.Get(id)
	if err != nil {
		return boq.BOQ{}, err
	}
	next, err := fn(current)
	if err != nil {
		return boq.BOQ{}, err
	}
	if err := s.registry.ReplaceIfVersion(next, current.Version); err != nil {
		return boq.BOQ{}, err
	}
	s.logCommand(op, next, actor)
	return next, nil
}

func (s *BOQService) logCommand(op string, b boq.BOQ, actor string) {
	s.logger.Info("boq "+op,
		slog.String("boq", b.ID),
		slog.String("status", b.Status.String()),
		slog.Int("version", b.Version),
		slog.Int64("final_amount", b.FinalAmount),
		slog.String("actor", actor),
	)
}

// checkItemsEditable enforces the optional lock on submitted BOQs.
func (s *BOQService) checkItemsEditable(b boq.BOQ) error {
	if s.settings.LockSubmittedItems && b.Status.IsLocked() {
		return fmt.Errorf("%w: items of %s BOQ %s are locked", boq.ErrIllegalState, b.Status, b.ID)
	}
	return nil
}

// AddItem appends an item to a BOQ.
func (s *BOQService) AddItem(id string, f boq.ItemFields, actor string) (boq.BOQ, error) {
	return s.mutate(id, "add-item", actor, func(b boq.BOQ) (boq.BOQ, error) {
		if err := s.checkItemsEditable(b); err != nil {
			return boq.BOQ{}, err
		}
		return b.AddItem(f, s.now())
	})
}

// ImportItems appends every item or none. Errors name the 1-based position
// of the offending item.
func (s *BOQService) ImportItems(id string, items []boq.ItemFields, actor string) (boq.BOQ, error) {
	if len(items) == 0 {
		return boq.BOQ{}, fmt.Errorf("%w: nothing to import", boq.ErrValidation)
	}
	return s.mutate(id, "import-items", actor, func(b boq.BOQ) (boq.BOQ, error) {
		if err := s.checkItemsEditable(b); err != nil {
			return boq.BOQ{}, err
		}
		now := s.now()
		next := b
		for i, f := range items {
			var err error
			if next, err = next.AddItem(f, now); err != nil {
				return boq.BOQ{}, fmt.Errorf("item %d: %w", i+1, err)
			}
		}
		return next, nil
	})
}

// UpdateItem sets one field of an item.
func (s *BOQService) UpdateItem(id, itemID string, field boq.Field, value any, actor string) (boq.BOQ, error) {
	return s.mutate(id, "update-item", actor, func(b boq.BOQ) (boq.BOQ, error) {
		if err := s.checkItemsEditable(b); err != nil {
			return boq.BOQ{}, err
		}
		return b.UpdateItem(itemID, field, value, s.now())
	})
}

// DeleteItem removes an item.
func (s *BOQService) DeleteItem(id, itemID, actor string) (boq.BOQ, error) {
	return s.mutate(id, "delete-item", actor, func(b boq.BOQ) (boq.BOQ, error) {
		if err := s.checkItemsEditable(b); err != nil {
			return boq.BOQ{}, err
		}
		return b.RemoveItem(itemID, s.now())
	})
}

// SubmitForApproval moves a draft or rejected BOQ to submitted.
func (s *BOQService) SubmitForApproval(id, actor string) (boq.BOQ, error) {
	return s.mutate(id, "submit", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.Submit(s.now())
	})
}

// BeginReview moves a submitted BOQ to in-review.
func (s *BOQService) BeginReview(id, actor string) (boq.BOQ, error) {
	return s.mutate(id, "begin-review", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.BeginReview(s.now())
	})
}

// Approve approves a submitted or in-review BOQ on behalf of actor.
func (s *BOQService) Approve(id, actor string) (boq.BOQ, error) {
	return s.mutate(id, "approve", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.Approve(actor, s.now())
	})
}

// Reject rejects a submitted or in-review BOQ on behalf of actor.
func (s *BOQService) Reject(id, actor, reason string) (boq.BOQ, error) {
	return s.mutate(id, "reject", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.Reject(actor, reason, s.now())
	})
}

// AddComment appends to a BOQ's comment log.
func (s *BOQService) AddComment(id, actor, text string) (boq.BOQ, error) {
	return s.mutate(id, "comment", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.AddComment(actor, text, s.now())
	})
}

// AddAttachment records an attachment reference on a BOQ.
func (s *BOQService) AddAttachment(id, ref, actor string) (boq.BOQ, error) {
	return s.mutate(id, "attach", actor, func(b boq.BOQ) (boq.BOQ, error) {
		return b.AddAttachment(ref, s.now())
	})
}

// Duplicate copies a BOQ into a new draft owned by actor.
func (s *BOQService) Duplicate(id, actor string) (boq.BOQ, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.registry.Get(id)
	if err != nil {
		return boq.BOQ{}, err
	}
	now := s.now()
	dup, err := s.insertNew(func(newID string) (boq.BOQ, error) { return src.Duplicate(newID, actor, now) })
	if err != nil {
		return boq.BOQ{}, err
	}
	s.logCommand("duplicate", dup, actor)
	return dup, nil
}

// CreatePurchaseRequest raises a purchase request from an approved BOQ.
func (s *BOQService) CreatePurchaseRequest(id, actor string) (PurchaseRequestConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.registry.Get(id)
	if err != nil {
		return PurchaseRequestConfirmation{}, err
	}
	draft, err := boq.ToPurchaseRequestDraft(b)
	if err != nil {
		return PurchaseRequestConfirmation{}, err
	}
	conf, err := s.purchasing.CreatePurchaseRequest(draft, actor)
	if err != nil {
		return PurchaseRequestConfirmation{}, fmt.Errorf("create purchase request for %s: %w", id, err)
	}
	s.logger.Info("boq purchase-request",
		slog.String("boq", id),
		slog.String("po_number", conf.PONumber),
		slog.Int("line_items", conf.LineItems),
		slog.String("actor", actor),
	)
	return conf, nil
}

// GetBOQ returns the stored snapshot.
func (s *BOQService) GetBOQ(id string) (boq.BOQ, error) {
	return s.registry.Get(id)
}

// ListBOQs yields the BOQs matching f in creation order.
func (s *BOQService) ListBOQs(f boq.Filter) iter.Seq[boq.BOQ] {
	return s.registry.List(f)
}

// Stats counts BOQs by status and sums their final amounts.
func (s *BOQService) Stats() boq.Stats {
	return s.registry.AggregateStats()
}
