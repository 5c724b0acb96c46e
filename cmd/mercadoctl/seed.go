package main

import (
	"context"
	"fmt"

	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// catalogoInicial is the grocery list a new store starts with.
var catalogoInicial = []dto.ProductoRequest{
	{Nombre: "Arroz", Unidad: "1kg", Categoria: "almacen", Precio: decimal.NewFromInt(9)},
	{Nombre: "Azúcar", Unidad: "1kg", Categoria: "almacen", Precio: decimal.NewFromInt(8)},
	{Nombre: "Aceite", Unidad: "900ml", Categoria: "almacen", Precio: decimal.NewFromInt(16)},
	{Nombre: "Fideo", Unidad: "500g", Categoria: "almacen", Precio: decimal.NewFromInt(6)},
	{Nombre: "Sal", Unidad: "1kg", Categoria: "almacen", Precio: decimal.NewFromInt(3)},
	{Nombre: "Leche", Unidad: "1L", Categoria: "lacteos", Precio: decimal.NewFromInt(7)},
	{Nombre: "Pan de batalla", Unidad: "unidad", Categoria: "panaderia", Precio: decimal.RequireFromString("0.5")},
	{Nombre: "Galletas surtidas", Unidad: "paquete", Categoria: "almacen", Precio: decimal.NewFromInt(12)},
	{Nombre: "Refresco en polvo", Unidad: "500g", Categoria: "bebidas", Precio: decimal.NewFromInt(10)},
	{Nombre: "Jabón de lavar", Unidad: "barra", Categoria: "limpieza", Precio: decimal.NewFromInt(5)},
	{Nombre: "Detergente", Unidad: "500g", Categoria: "limpieza", Precio: decimal.NewFromInt(11)},
	{Nombre: "Huevos", Unidad: "12u", Categoria: "frescos", Precio: decimal.NewFromInt(14)},
	{Nombre: "Pollo entero", Unidad: "unidad", Categoria: "frescos", Precio: decimal.NewFromInt(30)},
	{Nombre: "Carne molida", Unidad: "500g", Categoria: "frescos", Precio: decimal.NewFromInt(25)},
	{Nombre: "Tomate", Unidad: "1kg", Categoria: "verduras", Precio: decimal.NewFromInt(8)},
	{Nombre: "Cebolla", Unidad: "1kg", Categoria: "verduras", Precio: decimal.NewFromInt(6)},
	{Nombre: "Papa", Unidad: "1kg", Categoria: "verduras", Precio: decimal.NewFromInt(5)},
	{Nombre: "Manzana", Unidad: "unidad", Categoria: "frutas", Precio: decimal.NewFromInt(2)},
	{Nombre: "Banana", Unidad: "unidad", Categoria: "frutas", Precio: decimal.RequireFromString("0.5")},
	{Nombre: "Yogurt", Unidad: "1L", Categoria: "lacteos", Precio: decimal.NewFromInt(13)},
	{Nombre: "Queso", Unidad: "250g", Categoria: "lacteos", Precio: decimal.NewFromInt(18)},
}

// sembrarCatalogo creates the initial catalog when the store has no
// products. Returns how many products were created.
func sembrarCatalogo(ctx context.Context, productos service.ProductoService, stock, stockMin int) (int, error) {
	actual, err := productos.Catalogo(ctx)
	if err != nil {
		return 0, err
	}
	if len(actual) > 0 {
		return 0, nil
	}
	for i, req := range catalogoInicial {
		req.Stock, req.StockMinimo = stock, stockMin
		if _, err := productos.Crear(ctx, req); err != nil {
			return i, fmt.Errorf("crear %s: %w", req.Nombre, err)
		}
	}
	return len(catalogoInicial), nil
}

func newSeedCmd(a *app) *cobra.Command {
	var stock, stockMin int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga el catalogo inicial si el catalogo esta vacio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := sembrarCatalogo(cmd.Context(), a.productos, stock, stockMin)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "El catalogo ya tiene productos, no se cargo nada.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d productos cargados.\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&stock, "stock", 50, "stock inicial de cada producto")
	cmd.Flags().IntVar(&stockMin, "stock-min", 5, "umbral de alerta de stock")
	return cmd
}
