package main

import (
	"github.com/Naveenpl1081/algonest-call/cmd"
	"github.com/Naveenpl1081/algonest-call/internal/logging"
)

func main() {
	// Initialize logging
	logging.Init()
	cmd.Execute()
}
