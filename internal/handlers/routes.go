// Package handlers wires the HTTP surface: gin routes, request validation and
// the {message, data|error} response envelope.
package handlers

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/luislem95/api-gestor-pedidos/internal/cart"
	"github.com/luislem95/api-gestor-pedidos/internal/catalog"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/receipts"
	"github.com/luislem95/api-gestor-pedidos/internal/sessions"
	"github.com/luislem95/api-gestor-pedidos/internal/validation"
	"github.com/sirupsen/logrus"
)

// Config groups the dependencies the HTTP layer needs.
type Config struct {
	Sessions *sessions.Store
	Orders   *orders.Store
	Confirm  *orders.Workflow
	Catalog  *catalog.Store
	Receipts *receipts.Service
	Logger   *logrus.Logger
}

type api struct {
	cfg      Config
	validate *validatorv10.Validate
	log      *logrus.Logger
}

// Register mounts every route on the engine.
func Register(r *gin.Engine, cfg Config) {
	a := &api{
		cfg:      cfg,
		validate: validation.New(),
		log:      cfg.Logger,
	}
	if a.log == nil {
		a.log = logrus.New()
	}

	r.GET("/sesiones", a.getSession)
	r.POST("/sesiones/:id/items", a.mergeItems)
	r.PUT("/sesiones/:id/items/:itemId", a.setItemQuantity)
	r.DELETE("/sesiones/:id/items/:itemId", a.removeItem)

	r.POST("/pedidos/confirmar", a.confirmOrder)
	r.PUT("/pedidos", a.saveOrder)
	r.POST("/pedidos/cancelar", a.cancelOrder)
	r.GET("/pedidos/historial", a.orderHistory)

	r.GET("/inventario", a.listInventory)

	r.POST("/comprobantes", a.uploadReceipt)
	r.GET("/comprobantes/url", a.signedReceiptURL)
}

// toLineItems converts validated payload items into cart lines.
func toLineItems(items []validation.ItemPayload) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, cart.LineItem{
			ProductID:  it.ID,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			Name:       it.Name,
			Image:      it.Image,
			Electronic: it.Electronic,
			Category:   it.Category,
		})
	}
	return out
}
