package main

import "github.com/emiliopalmerini/mreport/internal/cli"

func main() {
	cli.Execute()
}
