package services

import (
	"context"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// OwnedService provides the scoped read and delete operations shared by every
// owned entity. Typed create and update live on the concrete services.
type OwnedService[T any] struct {
	repo repository.OwnedRepository[T]
	kind string
}

func newOwnedService[T any](repo repository.OwnedRepository[T], kind string) OwnedService[T] {
	return OwnedService[T]{repo: repo, kind: kind}
}

// Get returns a visible record.
func (s *OwnedService[T]) Get(ctx context.Context, vis visibility.Context, id uint64) (*T, error) {
	record, err := s.repo.FindVisible(ctx, vis, id)
	if err != nil {
		return nil, storeError("find "+s.kind, err)
	}
	return record, nil
}

// List returns the visible records matching filter.
func (s *OwnedService[T]) List(ctx context.Context, vis visibility.Context, filter repository.Filter) ([]T, error) {
	records, err := s.repo.List(ctx, vis, filter)
	if err != nil {
		return nil, storeError("list "+s.kind, err)
	}
	return records, nil
}

// Delete removes a visible record.
func (s *OwnedService[T]) Delete(ctx context.Context, vis visibility.Context, id uint64) error {
	if err := s.repo.Delete(ctx, vis, id); err != nil {
		return storeError("delete "+s.kind, err)
	}
	return nil
}

func (s *OwnedService[T]) create(ctx context.Context, record *T) error {
	if err := s.repo.Create(ctx, record); err != nil {
		return storeError("create "+s.kind, err)
	}
	return nil
}

func (s *OwnedService[T]) update(ctx context.Context, vis visibility.Context, id uint64, fields map[string]interface{}) (*T, error) {
	record, err := s.repo.Update(ctx, vis, id, fields)
	if err != nil {
		return nil, storeError("update "+s.kind, err)
	}
	return record, nil
}

// OwnerInput chooses the owning team of a new record: TeamID explicitly,
// none when Personal is set, otherwise the active team.
type OwnerInput struct {
	TeamID   *uint64
	Personal bool
}

// DateRange is an optional start and end date pair.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) normalize() (DateRange, error) {
	out := DateRange{Start: truncateDate(r.Start), End: truncateDate(r.End)}
	if out.Start != nil && out.End != nil && out.Start.After(*out.End) {
		return out, ErrInvalidDateRange
	}
	return out, nil
}

// DateUpdate changes a nullable date column: Clear sets it to NULL, a
// non-nil Value sets it, and the zero DateUpdate leaves it alone.
type DateUpdate struct {
	Value *time.Time
	Clear bool
}

func (u DateUpdate) apply(fields map[string]interface{}, column string) {
	switch {
	case u.Clear:
		fields[column] = nil
	case u.Value != nil:
		fields[column] = utils.TruncateDate(*u.Value)
	}
}

// result returns the column value after the update is applied to current.
func (u DateUpdate) result(current *time.Time) *time.Time {
	switch {
	case u.Clear:
		return nil
	case u.Value != nil:
		return truncateDate(u.Value)
	}
	return current
}

func (u DateUpdate) changed() bool {
	return u.Clear || u.Value != nil
}

// checkDateUpdate rejects updates that would leave start after end.
func checkDateUpdate(start, end *time.Time, startUpdate, endUpdate DateUpdate) error {
	_, err := DateRange{Start: startUpdate.result(start), End: endUpdate.result(end)}.normalize()
	return err
}

// IDUpdate changes a nullable reference column in the same manner as DateUpdate.
type IDUpdate struct {
	Value *uint64
	Clear bool
}

func (u IDUpdate) apply(fields map[string]interface{}, column string) {
	switch {
	case u.Clear:
		fields[column] = nil
	case u.Value != nil:
		fields[column] = *u.Value
	}
}

// target returns the new reference, or nil when it is unchanged or cleared.
func (u IDUpdate) target() *uint64 {
	if u.Clear {
		return nil
	}
	return u.Value
}

func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := utils.TruncateDate(*t)
	return &d
}
