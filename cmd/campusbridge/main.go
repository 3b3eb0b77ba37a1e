package main

import (
	"fmt"
	"os"

	"github.com/rskala/campusbridge-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Log.Error("HTTP server stopped", "error", err)
		os.Exit(1)
	}
}
