package services

import (
	"context"

	"github.com/poseidon-capital/console/internal/mq"
	"github.com/poseidon-capital/console/internal/security"
	"github.com/poseidon-capital/console/types"
)

// Repository defines persistence operations shared by every record kind.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int, rec T) (T, error)
	Delete(ctx context.Context, id int) error
}

// RecordService encapsulates the CRUD use-cases of one record kind and
// announces every committed change.
type RecordService[T any] struct {
	kind   string
	repo   Repository[T]
	id     func(T) int
	events *mq.Publisher
}

func NewRecordService[T any](kind string, repo Repository[T], id func(T) int, events *mq.Publisher) *RecordService[T] {
	return &RecordService[T]{kind: kind, repo: repo, id: id, events: events}
}

func NewBidListService(repo Repository[types.BidList], events *mq.Publisher) *RecordService[types.BidList] {
	return NewRecordService("bidList", repo, func(b types.BidList) int { return b.ID }, events)
}

func NewCurvePointService(repo Repository[types.CurvePoint], events *mq.Publisher) *RecordService[types.CurvePoint] {
	return NewRecordService("curvePoint", repo, func(c types.CurvePoint) int { return c.ID }, events)
}

func NewRatingService(repo Repository[types.Rating], events *mq.Publisher) *RecordService[types.Rating] {
	return NewRecordService("rating", repo, func(r types.Rating) int { return r.ID }, events)
}

func NewRuleNameService(repo Repository[types.RuleName], events *mq.Publisher) *RecordService[types.RuleName] {
	return NewRecordService("ruleName", repo, func(r types.RuleName) int { return r.ID }, events)
}

func NewTradeService(repo Repository[types.Trade], events *mq.Publisher) *RecordService[types.Trade] {
	return NewRecordService("trade", repo, func(t types.Trade) int { return t.ID }, events)
}

// Kind is the record kind name used in events and exports.
func (s *RecordService[T]) Kind() string {
	return s.kind
}

func (s *RecordService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *RecordService[T]) Get(ctx context.Context, id int) (T, error) {
	return s.repo.Get(ctx, id)
}

func (s *RecordService[T]) Create(ctx context.Context, rec T) (T, error) {
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return created, err
	}
	s.publish(ctx, mq.ActionCreated, s.id(created))
	return created, nil
}

// Update replaces record id with rec. The identifier always comes from the
// caller, never from rec.
func (s *RecordService[T]) Update(ctx context.Context, id int, rec T) (T, error) {
	updated, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		return updated, err
	}
	s.publish(ctx, mq.ActionUpdated, id)
	return updated, nil
}

func (s *RecordService[T]) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, mq.ActionDeleted, id)
	return nil
}

func (s *RecordService[T]) publish(ctx context.Context, action mq.Action, id int) {
	s.events.Publish(ctx, mq.Event{
		Kind:   s.kind,
		Action: action,
		ID:     id,
		Actor:  security.ActorFrom(ctx),
	})
}
