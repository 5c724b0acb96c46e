package service

import (
	"context"
	"fmt"

	"micromercado/internal/carrito"
	"micromercado/internal/dto"
	"micromercado/internal/model"
)

// CarritoService edits the cart of a session and prices it against the
// current catalog. Stock is not enforced here.
type CarritoService interface {
	Ver(ctx context.Context, ses *Sesion) (*dto.CarritoResponse, error)
	Agregar(ctx context.Context, ses *Sesion, req dto.AgregarLineaRequest) (*dto.CarritoResponse, error)
	FijarCantidad(ctx context.Context, ses *Sesion, productoID string, cantidad int) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, ses *Sesion, productoID string) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, ses *Sesion) (*dto.CarritoResponse, error)
}

type carritoService struct {
	productos ProductoService
}

func NewCarritoService(productos ProductoService) CarritoService {
	return &carritoService{productos: productos}
}

func lineaNoEncontrada(productoID string) error {
	return fmt.Errorf("%w: el carrito no tiene %s", ErrNoEncontrado, productoID)
}

func (s *carritoService) Ver(ctx context.Context, ses *Sesion) (*dto.CarritoResponse, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	catalogo, err := s.productos.Catalogo(ctx)
	if err != nil {
		return nil, err
	}
	resp := CarritoToResponse(ses.Carrito, catalogo)
	return &resp, nil
}

// Agregar only accepts products that exist in the catalog right now.
func (s *carritoService) Agregar(ctx context.Context, ses *Sesion, req dto.AgregarLineaRequest) (*dto.CarritoResponse, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	if _, err := s.productos.ObtenerPorID(ctx, req.ProductoID); err != nil {
		return nil, err
	}
	ses.Carrito.AgregarLinea(req.ProductoID, req.Cantidad)
	return s.Ver(ctx, ses)
}

func (s *carritoService) FijarCantidad(ctx context.Context, ses *Sesion, productoID string, cantidad int) (*dto.CarritoResponse, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	if !ses.Carrito.FijarCantidad(productoID, cantidad) {
		return nil, lineaNoEncontrada(productoID)
	}
	return s.Ver(ctx, ses)
}

func (s *carritoService) Quitar(ctx context.Context, ses *Sesion, productoID string) (*dto.CarritoResponse, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	if !ses.Carrito.QuitarLinea(productoID) {
		return nil, lineaNoEncontrada(productoID)
	}
	return s.Ver(ctx, ses)
}

func (s *carritoService) Vaciar(ctx context.Context, ses *Sesion) (*dto.CarritoResponse, error) {
	if err := requerirSesion(ses); err != nil {
		return nil, err
	}
	ses.Carrito.Vaciar()
	return s.Ver(ctx, ses)
}

// CarritoToResponse prices c against catalogo. Lines for products missing
// from the catalog are listed as unavailable and contribute zero.
func CarritoToResponse(c *carrito.Carrito, catalogo []model.Producto) dto.CarritoResponse {
	porID := make(map[string]*model.Producto, len(catalogo))
	for i := range catalogo {
		porID[catalogo[i].ID] = &catalogo[i]
	}
	lineas := c.Lineas()
	resp := dto.CarritoResponse{
		Lineas:        make([]dto.LineaCarritoResponse, 0, len(lineas)),
		CantidadTotal: c.CantidadTotal(),
		Total:         c.Total(catalogo),
	}
	for _, l := range lineas {
		lr := dto.LineaCarritoResponse{ProductoID: l.ProductoID, Cantidad: l.Cantidad}
		if p, ok := porID[l.ProductoID]; ok {
			item := model.ItemVenta{Precio: p.Precio, Cantidad: l.Cantidad}
			lr.Nombre = p.Nombre
			lr.Precio = p.Precio
			lr.Subtotal = item.Subtotal()
			lr.Stock = p.Stock
			lr.Disponible = true
			lr.SinStock = l.Cantidad > p.Stock
		}
		resp.Lineas = append(resp.Lineas, lr)
	}
	return resp
}
