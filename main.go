package main

import (
	"github.com/imagespy/freshness/cmd"
)

func main() {
	cmd.Execute()
}
