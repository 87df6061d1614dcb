package main

import (
	"github.com/ledgerexec/ledgerexec/cmd/ledgerexec/cmd"
)

func main() {
	cmd.Execute()
}
