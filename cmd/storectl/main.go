package main

import (
	"os"

	"storefront-delivery-service/cmd/storectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
