package main

import "github.com/frahmantamala/money-ledger/cmd"

func main() {
	cmd.Execute()
}
