package main

import (
	"fmt"

	"micromercado/internal/dto"
	"micromercado/internal/worker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func newProductosCmd(a *app) *cobra.Command {
	var alertas bool
	cmd := &cobra.Command{
		Use:   "productos",
		Short: "Lista el catalogo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			productos, err := a.productos.Catalogo(ctx)
			if alertas {
				productos, err = a.productos.Alertas(ctx)
			}
			if err != nil {
				return err
			}
			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Nombre", "Unidad", "Precio", "Stock", "Min"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 4, Align: text.AlignRight},
				{Number: 5, Align: text.AlignRight},
				{Number: 6, Align: text.AlignRight},
			})
			for _, p := range productos {
				t.AppendRow(table.Row{p.ID, p.Nombre, p.Unidad, p.Precio.StringFixed(2), p.Stock, p.StockMinimo})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d productos", len(productos))})
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&alertas, "alertas", false, "solo productos con stock en o bajo el minimo")
	return cmd
}

func newVentasCmd(a *app) *cobra.Command {
	var fecha string
	cmd := &cobra.Command{
		Use:   "ventas",
		Short: "Lista ventas, opcionalmente de un dia (YYYY-MM-DD)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ventas, err := a.reportes.ListarVentas(cmd.Context(), dto.VentaFilter{Fecha: fecha})
			if err != nil {
				return err
			}
			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Fecha", "Cliente", "Cajero", "Pago", "Cant.", "Monto"})
			total := decimal.Zero
			for _, v := range ventas {
				t.AppendRow(table.Row{v.ID, v.Fecha.Local().Format("2006-01-02 15:04"), v.Cliente, v.Cajero,
					v.TipoPago, v.CantidadTotal, v.Monto.StringFixed(2)})
				total = total.Add(v.Monto)
			}
			t.AppendFooter(table.Row{"", "", "", "", "", "Total", total.StringFixed(2)})
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&fecha, "fecha", "", "dia YYYY-MM-DD")
	return cmd
}

func newPedidosCmd(a *app) *cobra.Command {
	var estado string
	cmd := &cobra.Command{
		Use:   "pedidos",
		Short: "Lista pedidos (pending, delivered o todos)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pedidos, err := a.pedidos.Listar(cmd.Context(), dto.PedidoFilter{Estado: estado})
			if err != nil {
				return err
			}
			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Cliente", "Entrega", "Estado", "Monto"})
			for _, p := range pedidos {
				t.AppendRow(table.Row{p.ID, p.Cliente, p.FechaEntrega, p.Estado, p.Monto.StringFixed(2)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&estado, "estado", "", "pending o delivered")
	return cmd
}

func newDLQCmd(a *app) *cobra.Command {
	var (
		limit      int64
		reintentar int
	)
	cmd := &cobra.Command{
		Use:   "dlq [cola]",
		Short: "Muestra o reencola los jobs fallidos de una cola (jobs:ticket por defecto)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.rdb == nil {
				return fmt.Errorf("dlq: REDIS_URL no configurado")
			}
			queue := worker.QueueTicket
			if len(args) == 1 {
				queue = args[0]
			}
			if reintentar > 0 {
				n, err := worker.RequeueDLQ(cmd.Context(), a.rdb, queue, reintentar)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d jobs reencolados en %s\n", n, queue)
				return nil
			}
			entries, err := worker.ListDLQ(cmd.Context(), a.rdb, queue, limit)
			if err != nil {
				return err
			}
			t := newTable(cmd)
			t.AppendHeader(table.Row{"Fallo", "Tipo", "Intentos", "Motivo", "Payload"})
			for _, e := range entries {
				t.AppendRow(table.Row{e.FailedAt, e.JobType, e.Attempts, e.Reason, string(e.Payload)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 20, "maximo de entradas")
	cmd.Flags().IntVar(&reintentar, "reintentar", 0, "reencola los N jobs mas antiguos en lugar de listarlos")
	return cmd
}
