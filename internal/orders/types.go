package orders

import "github.com/luislem95/api-gestor-pedidos/internal/cart"

// Order statuses. Transitions are monotonic: Nuevo -> Pedido -> Facturacion,
// with Cancelado reachable from any stage.
const (
	StatusNuevo       = "Nuevo"
	StatusPedido      = "Pedido"
	StatusCancelado   = "Cancelado"
	StatusFacturacion = "Facturacion"
)

// Category is the partition discriminator for order records; the counter
// lives under its own fixed key.
const (
	Category         = "pedido"
	CounterCategory  = "contador"
	CounterID        = "contador"
	CounterAttribute = "numero_pedido"
)

// Order is an immutable confirmed purchase record.
type Order struct {
	Category     string                 `dynamodbav:"tipo" json:"tipo"`
	ID           string                 `dynamodbav:"id" json:"id"`
	Number       int64                  `dynamodbav:"numero_pedido" json:"numeroPedido"`
	EmployeeID   string                 `dynamodbav:"dui_empleado" json:"duiEmpleado"`
	Items        []cart.LineItem        `dynamodbav:"items" json:"items"`
	Total        float64                `dynamodbav:"total" json:"total"`
	Status       string                 `dynamodbav:"estatus" json:"estatus"`
	Date         string                 `dynamodbav:"fecha" json:"fecha"`
	BusinessID   string                 `dynamodbav:"dui_empresa" json:"duiEmpresa"`
	EmployeeName string                 `dynamodbav:"empleado_name" json:"empleadoName"`
	OwnerTag     string                 `dynamodbav:"user_id" json:"user_id"`
	Receipt      string                 `dynamodbav:"comprobante,omitempty" json:"comprobante,omitempty"`
	Extra        map[string]interface{} `dynamodbav:"datos_adicionales,omitempty" json:"datosAdicionales,omitempty"`
}
