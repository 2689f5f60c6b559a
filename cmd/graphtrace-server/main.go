// Command graphtrace-server serves the curve digitization engine over HTTP.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"graph-digitizer/internal/digitizer"
	"graph-digitizer/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	addr := flag.String("addr", ":8080", "Listen address")
	configPath := flag.String("config", "", "Optional YAML tuning file")
	flag.Parse()

	cfg := digitizer.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = digitizer.LoadConfig(*configPath)
		if err != nil {
			log.Printf("Failed to load config: %v", err)
			os.Exit(1)
		}
		log.Printf("Loaded tuning config from %s", *configPath)
	}

	srv := server.New(digitizer.New(cfg))

	log.Printf("Listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.ServeMux()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
