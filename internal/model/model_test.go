package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJornada_Horario(t *testing.T) {
	cases := []struct {
		jornada         Jornada
		entrada, salida string
		ok              bool
	}{
		{JornadaManana, "08:00", "16:00", true},
		{JornadaTarde, "16:00", "22:00", true},
		{JornadaCompleto, "08:00", "22:00", true},
		{"noche", "", "", false},
	}
	for _, tc := range cases {
		e, s, ok := tc.jornada.Horario()
		assert.Equal(t, tc.entrada, e, tc.jornada)
		assert.Equal(t, tc.salida, s, tc.jornada)
		assert.Equal(t, tc.ok, ok, tc.jornada)
	}
}

func TestVenta_JSONRoundTrip(t *testing.T) {
	fecha := time.Date(2025, 5, 17, 12, 0, 0, 0, time.Local)
	ventas := []Venta{
		{
			ID: "VEN-1", Cliente: ClienteVentaDirecta, CantidadTotal: 3, Cajero: "Ana Rojas",
			TipoPago: "Efectivo", Monto: decimal.NewFromInt(30), Fecha: fecha,
			Items: []ItemVenta{{ProductoID: "prod-1", Nombre: "Arroz", Precio: decimal.NewFromInt(10), Cantidad: 3}},
		},
		{ID: "VEN-2", Cliente: "Cliente", Monto: decimal.RequireFromString("12.50"), Fecha: fecha},
	}
	raw, err := json.Marshal(ventas)
	require.NoError(t, err)

	var back []Venta
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back, 2)
	for i := range ventas {
		assert.Equal(t, ventas[i].ID, back[i].ID)
		assert.True(t, ventas[i].Monto.Equal(back[i].Monto))
		assert.True(t, ventas[i].Fecha.Equal(back[i].Fecha))
		assert.Equal(t, len(ventas[i].Items), len(back[i].Items))
	}
	assert.Equal(t, "2025-05-17", back[0].Dia())
}

func TestItemVenta_Subtotal(t *testing.T) {
	it := ItemVenta{Precio: decimal.RequireFromString("2.5"), Cantidad: 4}
	assert.Equal(t, "10", it.Subtotal().String())
}

func TestNombreCompleto(t *testing.T) {
	assert.Equal(t, "Ana Rojas", Cajero{Nombre: "Ana", Apellido: "Rojas"}.NombreCompleto())
	assert.Equal(t, "Ana", Cliente{Nombre: "Ana"}.NombreCompleto())
}
