package main

import "github.com/atom-shop/identity-service/cmd/identityd/cmd"

func main() {
	cmd.Execute()
}
