package models

import "time"

// EstadoOrden is the order lifecycle state.
type EstadoOrden string

const (
	EstadoPendiente  EstadoOrden = "pendiente"
	EstadoProcesando EstadoOrden = "procesando"
	EstadoEnviado    EstadoOrden = "enviado"
	EstadoEntregado  EstadoOrden = "entregado"
	EstadoCancelado  EstadoOrden = "cancelado"
)

// ValidEstado reports whether e is one of the five lifecycle states.
func ValidEstado(e EstadoOrden) bool {
	switch e {
	case EstadoPendiente, EstadoProcesando, EstadoEnviado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoTarjeta       = "tarjeta"
	PagoDebito        = "debito"
)

// Order is a placed purchase. Money invariant: Total == Subtotal −
// DescuentoTotal, all values rounded to 2 decimals.
type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	NumeroOrden      string      `gorm:"column:numero_orden;size:20;uniqueIndex;not null" json:"numeroOrden"`
	UserID           uint        `gorm:"column:user_id;not null;index" json:"userId"`
	User             *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"usuario,omitempty"`
	Estado           EstadoOrden `gorm:"column:estado;size:20;not null;default:pendiente;index" json:"estado"`
	Subtotal         float64     `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
	DescuentoTotal   float64     `gorm:"column:descuento_total;type:decimal(12,2);not null;default:0" json:"descuentoTotal"`
	Total            float64     `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	MetodoPago       string      `gorm:"column:metodo_pago;size:20;not null" json:"metodoPago"`
	DireccionEnvio   string      `gorm:"column:direccion_envio;size:500;not null" json:"direccionEnvio"`
	TelefonoContacto string      `gorm:"column:telefono_contacto;size:20;not null" json:"telefonoContacto"`
	Notas            *string     `gorm:"column:notas;size:1000" json:"notas,omitempty"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one purchased line. Product pricing is copied at
// checkout so later catalogue edits don't rewrite history. ProductID goes
// NULL if the product is deleted; NombreProducto keeps the label.
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"column:order_id;not null;index" json:"orderId"`
	ProductID      *uint     `gorm:"column:product_id;index" json:"productId"`
	Product        *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"producto,omitempty"`
	NombreProducto string    `gorm:"column:nombre_producto;size:255;not null" json:"nombreProducto"`
	Cantidad       int       `gorm:"column:cantidad;not null" json:"cantidad"`
	PrecioUnitario float64   `gorm:"column:precio_unitario;type:decimal(10,2);not null" json:"precioUnitario"`
	Descuento      float64   `gorm:"column:descuento;type:decimal(5,2);not null;default:0" json:"descuento"`
	Subtotal       float64   `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (OrderItem) TableName() string { return "order_items" }

// EstadoCount is one row of the stats group-by.
type EstadoCount struct {
	Estado   EstadoOrden `gorm:"column:estado" json:"estado"`
	Cantidad int64       `gorm:"column:cantidad" json:"cantidad"`
}
