package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listInventory returns every product in the store inventory.
func (a *api) listInventory(c *gin.Context) {
	items, err := a.cfg.Catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, "No se pudo obtener el inventario", err)
		return
	}
	respond(c, http.StatusOK, "Inventario obtenido", items)
}
