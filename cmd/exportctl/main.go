package main

import (
	_ "time/tzdata"

	"github.com/user/linkstats/internal/cli"
)

func main() {
	cli.Execute()
}
