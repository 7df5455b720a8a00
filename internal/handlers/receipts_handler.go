package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/receipts"
	"github.com/luislem95/api-gestor-pedidos/internal/validation"
)

// uploadReceipt stores a proof-of-payment image and links it to its record.
func (a *api) uploadReceipt(c *gin.Context) {
	var req validation.UploadImageRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	res, err := a.cfg.Receipts.Upload(c.Request.Context(), receipts.UploadInput{
		Image:    req.Image,
		FileName: req.FileName,
		Category: req.Record.Category,
		RecordID: req.Record.ID,
	})
	if err != nil {
		a.log.WithError(err).WithField("record_id", req.Record.ID).Error("receipt upload failed")
		respondError(c, "No se pudo subir el comprobante", err)
		return
	}
	respond(c, http.StatusCreated, "Comprobante subido", gin.H{
		"url":    res.URL,
		"record": res.Record,
	})
}

// signedReceiptURL issues a time-limited read URL for a stored receipt.
func (a *api) signedReceiptURL(c *gin.Context) {
	path := c.Query("s3Path")
	if path == "" {
		respondError(c, "s3Path es requerido", errMissingParam)
		return
	}

	url, err := a.cfg.Receipts.SignedURL(c.Request.Context(), path)
	if err != nil {
		respondError(c, "No se pudo generar la URL firmada", err)
		return
	}
	respond(c, http.StatusOK, "URL firmada generada", gin.H{"url": url})
}
