package main

import (
	"fmt"
	"log"
	"net/http"

	"topic-studio-backend/internal/config"
	"topic-studio-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	fmt.Printf("TOPIC STUDIO server listening on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
