package validation

// ItemPayload is one line item as sent by the frontend.
type ItemPayload struct {
	ID         string  `json:"id" validate:"required"`
	Quantity   int     `json:"cantidad" validate:"required,min=1"`
	Price      float64 `json:"precio" validate:"gte=0"`
	Name       string  `json:"nombre,omitempty"`
	Image      string  `json:"imagen,omitempty"`
	Electronic bool    `json:"electronico,omitempty"`
	Category   string  `json:"categoria,omitempty"`
}

// MergeItemsRequest is the payload for POST /sesiones/:id/items.
type MergeItemsRequest struct {
	Items []ItemPayload `json:"items" validate:"required,min=1,dive"`
}

// SetQuantityRequest is the payload for PUT /sesiones/:id/items/:itemId.
// Quantity is a pointer so an explicit zero is distinguishable from a missing
// field; zeroing out a line is valid.
type SetQuantityRequest struct {
	Quantity *int `json:"nuevaCantidad" validate:"required,gte=0"`
}

// ConfirmRequest is the payload for POST /pedidos/confirmar.
type ConfirmRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"estatus,omitempty"`
}

// CancelRequest is the payload for POST /pedidos/cancelar.
type CancelRequest struct {
	ID string `json:"id" validate:"required"`
}

// SaveOrderRequest is the payload for PUT /pedidos. With Nuevo set a fresh
// order is created (sequential number drawn from the counter); otherwise the
// listed attributes are applied as a partial update to an existing order.
// The total is always recomputed from the items, never taken from the caller.
type SaveOrderRequest struct {
	ID           string        `json:"id" validate:"required"`
	Nuevo        bool          `json:"nuevo,omitempty"`
	Receipt      string        `json:"comprobante,omitempty"`
	EmployeeID   string        `json:"duiEmpleado,omitempty"`
	BusinessID   string        `json:"duiEmpresa,omitempty"`
	EmployeeName string        `json:"empleadoName,omitempty"`
	Status       string        `json:"estatus,omitempty"`
	Items        []ItemPayload `json:"items,omitempty" validate:"omitempty,dive"`
}

// RecordRef points at the record a receipt belongs to.
type RecordRef struct {
	Category string `json:"tipo" validate:"required"`
	ID       string `json:"id" validate:"required"`
}

// UploadImageRequest is the payload for POST /comprobantes.
type UploadImageRequest struct {
	Image    string    `json:"image" validate:"required"`
	FileName string    `json:"fileName" validate:"required"`
	Record   RecordRef `json:"record" validate:"required"`
}
