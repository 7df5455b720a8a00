package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luislem95/api-gestor-pedidos/internal/cart"
	"github.com/luislem95/api-gestor-pedidos/internal/storage"
)

// Category is the partition discriminator for session records.
const Category = "sesion"

// ErrNotFound indicates no session exists for the given employee id.
var ErrNotFound = errors.New("session not found")

// Store clock: the business operates on UTC-6 timestamps.
var storeZone = time.FixedZone("UTC-6", -6*60*60)

// Fixed employee and business data applied to lazily created sessions.
const (
	defaultBusinessID   = "090090990"
	defaultEmployeeName = "Marta Sanchez"
	defaultBusinessName = "Super Selectos"
)

// Store manages session records. Cart persistence is a read-modify-write over
// the whole carrito attribute: concurrent mutations on the same session race
// and the last writer wins.
type Store struct {
	table    *storage.Table
	category string
	ttl      time.Duration
	nowFunc  func() time.Time
}

func NewStore(table *storage.Table, ttl time.Duration) *Store {
	return &Store{
		table:    table,
		category: Category,
		ttl:      ttl,
		nowFunc:  time.Now,
	}
}

// Get fetches the session for an employee id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := s.table.Get(ctx, s.category, id, &sess); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// GetOrCreate returns the existing session for the employee or lazily creates
// one with an empty cart. The second return reports whether a new session was
// created.
func (s *Store) GetOrCreate(ctx context.Context, id string) (*Session, bool, error) {
	sess, err := s.Get(ctx, id)
	if err == nil {
		return sess, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	now := s.nowFunc().In(storeZone)
	fresh := &Session{
		Category:     s.category,
		ID:           id,
		Cart:         []cart.LineItem{},
		EmployeeID:   id,
		BusinessID:   defaultBusinessID,
		EmployeeName: defaultEmployeeName,
		BusinessName: defaultBusinessName,
		Status:       StatusPendiente,
		Date:         now.Format(time.RFC3339),
		Total:        0,
		TTL:          now.Add(s.ttl).Unix(),
		OwnerTag:     s.category + "|" + id,
	}
	if err := s.table.Put(ctx, s.category, id, fresh); err != nil {
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	return fresh, true, nil
}

// MergeItems folds incoming line items into the session cart and persists the
// result. Matching product ids accumulate quantity; new products append.
func (s *Store) MergeItems(ctx context.Context, id string, items []cart.LineItem) ([]cart.LineItem, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveCart(ctx, id, cart.Merge(sess.Cart, items))
}

// SetItemQuantity overwrites one line's quantity. Returns cart.ErrItemNotFound
// if the product is not in the cart.
func (s *Store) SetItemQuantity(ctx context.Context, id, productID string, quantity int) ([]cart.LineItem, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := cart.SetQuantity(sess.Cart, productID, quantity)
	if err != nil {
		return nil, err
	}
	return s.saveCart(ctx, id, updated)
}

// RemoveItem drops one line from the cart. Returns cart.ErrItemNotFound if
// the product is not in the cart.
func (s *Store) RemoveItem(ctx context.Context, id, productID string) ([]cart.LineItem, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := cart.RemoveItem(sess.Cart, productID)
	if err != nil {
		return nil, err
	}
	return s.saveCart(ctx, id, updated)
}

func (s *Store) saveCart(ctx context.Context, id string, items []cart.LineItem) ([]cart.LineItem, error) {
	_, err := s.table.Update(ctx, s.category, id, map[string]interface{}{"carrito": items}, true)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return items, nil
}

// Delete removes the session record.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.table.Delete(ctx, s.category, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
