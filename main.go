package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/burakkonte/sinyalist/cmd/sinyalist"
)

func main() {
	if err := fang.Execute(context.Background(), cmd.RootCommand()); err != nil {
		os.Exit(1)
	}
}
