package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"noteboard/internal/config"
	"noteboard/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "noteboard_config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
