//go:build !js
// +build !js

package main

import (
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
)

//go:embed index.html
var indexHTML []byte

// tokenBytes is the decoded size of a valid share token: 16 steps for
// each of the three instruments.
const tokenBytes = 48

// handleToken validates a share token without touching any state, so
// the page can flag a broken link before handing it to the player.
func handleToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	token := strings.TrimRight(r.URL.Query().Get("t"), "=")
	raw, err := base64.RawURLEncoding.DecodeString(token)
	valid := err == nil && len(raw) == tokenBytes

	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid": valid,
	})
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	staticDir := flag.String("static", ".", "Directory to serve static files from")
	flag.Parse()

	// Serve embedded index.html at root path
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		// Serve other static files from disk
		http.FileServer(http.Dir(*staticDir)).ServeHTTP(w, r)
	})

	// Share token validation endpoint
	http.HandleFunc("/api/token", handleToken)

	// Health check
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("DrumGrid server starting on http://localhost%s", addr)
	log.Printf("Serving static files from: %s", *staticDir)

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
