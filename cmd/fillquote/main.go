package main

import "github.com/dora-network/order-utils/internal/cli"

func main() {
	cli.Execute()
}
