package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luislem95/api-gestor-pedidos/internal/cart"
	"github.com/luislem95/api-gestor-pedidos/internal/sessions"
)

// ErrSessionNotFound indicates the confirmation target session does not exist.
// Confirmation fails before any store mutation in that case.
var ErrSessionNotFound = errors.New("session not found")

// Workflow turns a session into a durable order. The steps are sequential
// external calls with no compensating rollback: a failure after the counter
// increment consumes the order number, and a failure after the insert leaves
// both the order and a stale session behind.
type Workflow struct {
	sessions *sessions.Store
	orders   *Store
}

func NewWorkflow(sessionStore *sessions.Store, orderStore *Store) *Workflow {
	return &Workflow{
		sessions: sessionStore,
		orders:   orderStore,
	}
}

// Confirm reads the session, computes the total from its cart, draws the next
// order number, inserts the order and deletes the session. statusOverride
// replaces the default Nuevo status when non-empty.
func (w *Workflow) Confirm(ctx context.Context, sessionID, statusOverride string) (*Order, error) {
	sess, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	total, _ := cart.Total(sess.Cart).Float64()

	number, err := w.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	status := statusOverride
	if status == "" {
		status = StatusNuevo
	}
	businessName := sess.BusinessName
	if businessName == "" {
		businessName = "Empresa desconocida"
	}

	order := &Order{
		ID:           w.orders.NewID(),
		Number:       number,
		EmployeeID:   sessionID,
		Items:        sess.Cart,
		Total:        total,
		Status:       status,
		Date:         w.orders.Now().Format(time.RFC3339),
		BusinessID:   sess.BusinessID,
		EmployeeName: sess.EmployeeName,
		OwnerTag:     Category + "|" + sess.BusinessID,
		Extra: map[string]interface{}{
			"empresa":  businessName,
			"sucursal": "Sucursal Central",
			"nota":     "Pedido confirmado automáticamente",
		},
	}

	if err := w.orders.Insert(ctx, order); err != nil {
		// the counter value drawn above is gone for good
		return nil, err
	}

	if err := w.sessions.Delete(ctx, sessionID); err != nil {
		// order exists, session lingers until its TTL; reported as failure
		return nil, fmt.Errorf("delete session after confirm: %w", err)
	}

	return order, nil
}
