package sessions

import "github.com/luislem95/api-gestor-pedidos/internal/cart"

// Session statuses
const (
	StatusPendiente = "Pendiente"
)

// Session is the cart-in-progress for one employee, ephemeral until it is
// confirmed into an order or expires through the table TTL.
type Session struct {
	Category     string          `dynamodbav:"tipo" json:"tipo"`
	ID           string          `dynamodbav:"id" json:"id"`
	Cart         []cart.LineItem `dynamodbav:"carrito" json:"carrito"`
	EmployeeID   string          `dynamodbav:"dui_empleado" json:"duiEmpleado"`
	BusinessID   string          `dynamodbav:"dui_empresa" json:"duiEmpresa"`
	EmployeeName string          `dynamodbav:"empleado_name" json:"empleadoName"`
	BusinessName string          `dynamodbav:"empresa_name" json:"empresaName"`
	Status       string          `dynamodbav:"estatus" json:"estatus"`
	Date         string          `dynamodbav:"fecha" json:"fecha"`
	Total        float64         `dynamodbav:"total" json:"total"`
	TTL          int64           `dynamodbav:"ttl" json:"ttl"`
	OwnerTag     string          `dynamodbav:"user_id" json:"user_id"`
}
