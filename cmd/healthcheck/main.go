// Package main is the container health probe. It exits 0 when /livez
// answers 200 on the local server.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/manasranjandas/portfolio-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if port == "" {
		port = "5000"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/livez", port))
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
