package main

import (
	"fmt"

	"micromercado/internal/dto"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCajeroCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cajero",
		Short: "Registro de cajeros",
	}

	var req dto.CrearCajeroRequest
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Registra un cajero (maximo MAX_CAJEROS)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.cajeros.Crear(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cajero %s creado (%s, %s-%s)\n", c.ID, c.Jornada, c.HoraEntrada, c.HoraSalida)
			return nil
		},
	}
	f := crear.Flags()
	f.StringVar(&req.Nombre, "nombre", "", "nombre")
	f.StringVar(&req.Apellido, "apellido", "", "apellido")
	f.StringVar(&req.Telefono, "telefono", "", "telefono")
	f.StringVar(&req.Direccion, "direccion", "", "direccion")
	f.StringVar(&req.Email, "email", "", "email de login")
	f.StringVar(&req.Password, "password", "", "contraseña")
	f.StringVar(&req.Jornada, "jornada", "completo", "mañana, tarde o completo")
	_ = crear.MarkFlagRequired("nombre")
	_ = crear.MarkFlagRequired("email")
	_ = crear.MarkFlagRequired("password")

	listar := &cobra.Command{
		Use:   "listar",
		Short: "Lista los cajeros registrados",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cajeros, err := a.cajeros.Listar(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd)
			t.AppendHeader(table.Row{"ID", "Nombre", "Email", "Jornada", "Horario"})
			for _, c := range cajeros {
				t.AppendRow(table.Row{c.ID, c.Nombre + " " + c.Apellido, c.Email, c.Jornada, c.HoraEntrada + "-" + c.HoraSalida})
			}
			t.Render()
			return nil
		},
	}

	cmd.AddCommand(crear, listar)
	return cmd
}
