// agencyctl tareas operativas: aplicar migraciones y cargar datos de ejemplo.
//
// Uso:
//
//	go run ./cmd/agencyctl migrate
//	go run ./cmd/agencyctl seed --email demo@agencia.test --password demo12345
//	go run ./cmd/agencyctl seed --dry-run
package main

import (
	"os"

	"github.com/jhoicas/Agencia-api/cmd/agencyctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
