// token emite un JWT firmado con JWT_SECRET para llamar a la API (los usuarios viven
// en otro sistema; esto es para operación y pruebas locales).
//
// Uso: go run ./cmd/token <user_id> [admin|bodeguero|contador]
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/costing-ledger/pkg/config"
	pkgjwt "github.com/jhoicas/costing-ledger/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: token <user_id> [admin|bodeguero|contador]")
		os.Exit(2)
	}
	userID, role := os.Args[1], "admin"
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	switch role {
	case "admin", "bodeguero", "contador":
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := pkgjwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
