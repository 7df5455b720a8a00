package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luislem95/api-gestor-pedidos/internal/storage"
)

// ErrNotFound indicates no order exists at the given id.
var ErrNotFound = errors.New("order not found")

// ErrAlreadyExists indicates a conditional insert hit an existing order id.
var ErrAlreadyExists = errors.New("order already exists")

// Store clock: the business operates on UTC-6 timestamps.
var storeZone = time.FixedZone("UTC-6", -6*60*60)

// historyWindow is the trailing range the history query covers.
const historyWindow = 30 * 24 * time.Hour

// Store encapsulates order records and the global order-number counter.
type Store struct {
	table    *storage.Table
	category string
	nowFunc  func() time.Time
	newID    func() string
}

func NewStore(table *storage.Table) *Store {
	return &Store{
		table:    table,
		category: Category,
		nowFunc:  time.Now,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

// Now returns the current time in the store's clock zone.
func (s *Store) Now() time.Time {
	return s.nowFunc().In(storeZone)
}

// NewID returns a fresh storage key for an order, independent of the
// sequential order number.
func (s *Store) NewID() string {
	return s.newID()
}

// NextOrderNumber atomically advances the global counter and returns the new
// value. There is no rollback: a number handed out here is consumed even if
// the order it was meant for never materializes.
func (s *Store) NextOrderNumber(ctx context.Context) (int64, error) {
	n, err := s.table.Increment(ctx, CounterCategory, CounterID, CounterAttribute, 1)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}

// Get fetches an order by id.
func (s *Store) Get(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := s.table.Get(ctx, s.category, id, &o); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// Insert writes a new order, guarded so an existing id is never overwritten.
func (s *Store) Insert(ctx context.Context, o *Order) error {
	o.Category = s.category
	if err := s.table.Insert(ctx, s.category, o.ID, o); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update applies a partial attribute update to an existing order and returns
// the full updated record. The key must exist; a status update never mints a
// phantom order.
func (s *Store) Update(ctx context.Context, id string, sets map[string]interface{}) (map[string]interface{}, error) {
	updated, err := s.table.Update(ctx, s.category, id, sets, true)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

// Cancel transitions an order to Cancelado and returns the updated record.
func (s *Store) Cancel(ctx context.Context, id string) (map[string]interface{}, error) {
	return s.Update(ctx, id, map[string]interface{}{"estatus": StatusCancelado})
}

// History returns the owner's orders from the trailing 30 days. An owner with
// no recent orders gets an empty slice, not an error.
func (s *Store) History(ctx context.Context, ownerCode string) ([]Order, error) {
	now := s.Now()
	from := now.Add(-historyWindow).Format(time.RFC3339)
	to := now.Format(time.RFC3339)
	owner := s.category + "|" + ownerCode

	orders := []Order{}
	if err := s.table.QueryOwner(ctx, owner, s.category, from, to, &orders); err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}
