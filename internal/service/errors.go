package service

import "errors"

// Sentinel errors. Services wrap them with fmt.Errorf("%w: ...") so callers
// match with errors.Is and still get the specific message.
var (
	ErrValidacion        = errors.New("datos invalidos")
	ErrNoEncontrado      = errors.New("no encontrado")
	ErrCarritoVacio      = errors.New("el carrito esta vacio")
	ErrClienteFaltante   = errors.New("cliente no indicado o inexistente")
	ErrFechaFaltante     = errors.New("fecha de entrega requerida")
	ErrPedidoNoPendiente = errors.New("el pedido no esta pendiente")
	ErrLimiteCajeros     = errors.New("limite de cajeros alcanzado")
	ErrEmailDuplicado    = errors.New("el email ya esta registrado")
	ErrCredenciales      = errors.New("credenciales invalidas")
	ErrSesionInvalida    = errors.New("sesion invalida o expirada")
)
