// issue_token emite un JWT de operador firmado con JWT_SECRET, para la caja o la bodega.
//
// Uso: go run ./cmd/issue_token -user caja-01 -role vendedor [-exp 480]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/kardex-pos/pkg/config"
	"github.com/jhoicas/kardex-pos/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "identificador del operador")
	role := flag.String("role", jwt.RoleVendedor, "rol: admin | bodeguero | vendedor")
	exp := flag.Int("exp", 0, "expiración en minutos (0 = JWT_EXPIRATION)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user es requerido")
		os.Exit(2)
	}
	switch *role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
