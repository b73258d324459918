package main

import (
	"staysphere/internal/app"

	"go.uber.org/fx"
)

func main() {
	fx.New(app.Module).Run()
}
