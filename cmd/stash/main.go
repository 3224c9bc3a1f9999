package main

import (
	"stash/cmd/handlers"
	"stash/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
