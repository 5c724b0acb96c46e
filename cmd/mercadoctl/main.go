// Command mercadoctl administers a micromercado store directly, without going
// through the HTTP API: seeding the catalog, creating the first cashier and
// inspecting sales, orders and dead-lettered jobs.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
