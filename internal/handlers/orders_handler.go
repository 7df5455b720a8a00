package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/cart"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/validation"
	"github.com/sirupsen/logrus"
)

// confirmOrder turns a session into a durable order: read the session, total
// the cart, draw the next order number, insert the order, delete the session.
func (a *api) confirmOrder(c *gin.Context) {
	var req validation.ConfirmRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	order, err := a.cfg.Confirm.Confirm(c.Request.Context(), req.ID, req.Status)
	if err != nil {
		a.log.WithError(err).WithField("session_id", req.ID).Error("confirm failed")
		respondError(c, "No se pudo confirmar el pedido", err)
		return
	}

	a.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.Number,
		"total":        order.Total,
	}).Info("order confirmed")
	respond(c, http.StatusCreated, "Pedido confirmado", order)
}

// saveOrder creates a fresh order when the payload carries nuevo, otherwise
// applies the listed attributes as a partial update to an existing order.
func (a *api) saveOrder(c *gin.Context) {
	var req validation.SaveOrderRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	if req.Nuevo {
		number, err := a.cfg.Orders.NextOrderNumber(ctx)
		if err != nil {
			respondError(c, "No se pudo crear el pedido", err)
			return
		}

		items := toLineItems(req.Items)
		total, _ := cart.Total(items).Float64()

		status := req.Status
		if status == "" {
			status = orders.StatusNuevo
		}

		order := &orders.Order{
			ID:           req.ID,
			Number:       number,
			EmployeeID:   req.EmployeeID,
			Items:        items,
			Total:        total,
			Status:       status,
			Date:         a.cfg.Orders.Now().Format(time.RFC3339),
			BusinessID:   req.BusinessID,
			EmployeeName: req.EmployeeName,
			Receipt:      req.Receipt,
			OwnerTag:     orders.Category + "|" + req.BusinessID,
		}
		if err := a.cfg.Orders.Insert(ctx, order); err != nil {
			respondError(c, "No se pudo crear el pedido", err)
			return
		}
		respond(c, http.StatusCreated, "Pedido creado", order)
		return
	}

	sets := map[string]interface{}{}
	if req.Receipt != "" {
		sets["comprobante"] = req.Receipt
	}
	if req.EmployeeID != "" {
		sets["dui_empleado"] = req.EmployeeID
	}
	if req.BusinessID != "" {
		sets["dui_empresa"] = req.BusinessID
	}
	if req.EmployeeName != "" {
		sets["empleado_name"] = req.EmployeeName
	}
	if req.Status != "" {
		sets["estatus"] = req.Status
	}
	if len(req.Items) > 0 {
		// incoming items append to the stored list; the total covers the
		// merged result
		existing, err := a.cfg.Orders.Get(ctx, req.ID)
		if err != nil {
			respondError(c, "No se pudo actualizar el pedido", err)
			return
		}
		merged := append(existing.Items, toLineItems(req.Items)...)
		total, _ := cart.Total(merged).Float64()
		sets["items"] = merged
		sets["total"] = total
	}
	if len(sets) == 0 {
		respondError(c, "Nada que actualizar", errEmptyUpdate)
		return
	}

	updated, err := a.cfg.Orders.Update(ctx, req.ID, sets)
	if err != nil {
		respondError(c, "No se pudo actualizar el pedido", err)
		return
	}
	respond(c, http.StatusOK, "Pedido actualizado", updated)
}

// cancelOrder transitions an order to Cancelado. The record is kept.
func (a *api) cancelOrder(c *gin.Context) {
	var req validation.CancelRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	updated, err := a.cfg.Orders.Cancel(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, "No se pudo cancelar el pedido", err)
		return
	}
	respond(c, http.StatusOK, "Pedido cancelado", updated)
}

// orderHistory lists the owner's orders from the trailing 30 days.
func (a *api) orderHistory(c *gin.Context) {
	code := c.Query("codigoUsuario")
	if code == "" {
		respondError(c, "codigoUsuario es requerido", errMissingParam)
		return
	}

	history, err := a.cfg.Orders.History(c.Request.Context(), code)
	if err != nil {
		respondError(c, "No se pudo obtener el historial", err)
		return
	}
	respond(c, http.StatusOK, "Historial obtenido", history)
}
