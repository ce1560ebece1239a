package main

import (
	"github.com/shopindream/storefront/cmd"
)

func main() {
	cmd.Start()
}
