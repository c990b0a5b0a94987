// export genera un reporte desde la línea de comandos sin pasar por la API HTTP:
// inicia sesión en el backend, selecciona la conexión y escribe el documento.
//
// Uso:
//
//	go run ./cmd/export --email ana@tienda.cl --password ... --client-id 123 \
//	    --report stock --warehouse 1 --format xlsx --out stock.xlsx
//	go run ./cmd/export connections --email ana@tienda.cl --password ...
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/meli-sync-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.Config{Env: "development", Level: os.Getenv("LOG_LEVEL"), Output: os.Stderr})
	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
