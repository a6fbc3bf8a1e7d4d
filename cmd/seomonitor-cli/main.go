package main

import (
	"seomonitor-backend/cmd/seomonitor-cli/cmd"
)

func main() {
	cmd.Execute()
}
