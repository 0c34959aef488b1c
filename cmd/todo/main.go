package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/nhle/todo-manager/internal/cli"
)

var version = "dev"

func main() {
	// A missing .env is fine; TODO_* variables may come from the shell.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
