package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/validation"
	"github.com/sirupsen/logrus"
)

// getSession returns the employee's active session, lazily creating one with
// an empty cart on first contact.
func (a *api) getSession(c *gin.Context) {
	userID := c.Query("idUsuario")
	if userID == "" {
		respondError(c, "idUsuario es requerido", errMissingParam)
		return
	}

	sess, created, err := a.cfg.Sessions.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		a.log.WithError(err).WithField("user_id", userID).Error("get session failed")
		respondError(c, "No se pudo obtener la sesión", err)
		return
	}

	if created {
		a.log.WithFields(logrus.Fields{"user_id": userID}).Info("session created")
		respond(c, http.StatusCreated, "Sesión creada", sess)
		return
	}
	respond(c, http.StatusOK, "Sesión obtenida", sess)
}

// mergeItems folds the posted items into the session cart.
func (a *api) mergeItems(c *gin.Context) {
	var req validation.MergeItemsRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	items, err := a.cfg.Sessions.MergeItems(c.Request.Context(), c.Param("id"), toLineItems(req.Items))
	if err != nil {
		respondError(c, "No se pudo actualizar el carrito", err)
		return
	}
	respond(c, http.StatusOK, "Carrito actualizado", items)
}

// setItemQuantity overwrites one line's quantity; zero is a valid quantity.
func (a *api) setItemQuantity(c *gin.Context) {
	var req validation.SetQuantityRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	items, err := a.cfg.Sessions.SetItemQuantity(c.Request.Context(), c.Param("id"), c.Param("itemId"), *req.Quantity)
	if err != nil {
		respondError(c, "No se pudo actualizar la cantidad", err)
		return
	}
	respond(c, http.StatusOK, "Cantidad actualizada", items)
}

// removeItem drops one line from the session cart.
func (a *api) removeItem(c *gin.Context) {
	items, err := a.cfg.Sessions.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		respondError(c, "No se pudo eliminar el producto", err)
		return
	}
	respond(c, http.StatusOK, "Producto eliminado", items)
}
