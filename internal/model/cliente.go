package model

// Cliente is a registered customer that scheduled orders are delivered to.
// TotalPedidos and UltimoPedidoID are maintained by order creation.
type Cliente struct {
	ID             string `json:"id"`
	Nombre         string `json:"name"`
	Apellido       string `json:"surname"`
	Telefono       string `json:"phone"`
	Departamento   string `json:"department"`
	TotalPedidos   int    `json:"totalOrders"`
	UltimoPedidoID string `json:"lastOrderId"`
}

// NombreCompleto is the label copied onto orders.
func (c Cliente) NombreCompleto() string {
	if c.Apellido == "" {
		return c.Nombre
	}
	return c.Nombre + " " + c.Apellido
}
