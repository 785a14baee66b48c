package main

import (
	"SchoolHub/internal/bootstrap"
	pkg "SchoolHub/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
