//go:build ignore

// Package main serves a synthetic corpus of plain-text papers for manual
// testing of the astrophoenix CLI.
// Usage: go run scripts/serve-test-corpus.go -papers 50 -addr :8099
// Then:  astrophoenix search mars --base-url http://localhost:8099/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
)

var (
	numPapers = flag.Int("papers", 50, "Number of papers to generate")
	addr      = flag.String("addr", ":8099", "Listen address")
	seed      = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var topics = []string{
	"Mars Regolith", "Lunar Ice", "Solar Flares", "Exoplanet Atmospheres",
	"Zero Gravity", "Asteroid Mining", "Orbital Decay", "Plasma Sheaths",
	"Cosmic Rays", "Dust Storms",
}

var sentences = []string{
	"We present observations collected over a %d-day campaign.",
	"The measured composition differs from prior surveys by %d percent.",
	"Sample %d exhibits anomalous spectral lines in the infrared band.",
	"These results constrain existing models of %s formation.",
	"Further missions are required to validate the %s hypothesis.",
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	docs := make(map[string]string, *numPapers)
	ids := make([]string, 0, *numPapers)
	for i := 0; i < *numPapers; i++ {
		topic := topics[i%len(topics)]
		id := fmt.Sprintf("%s %d.txt", topic, i)
		ids = append(ids, id)

		var b strings.Builder
		fmt.Fprintf(&b, "A study of %s.\n\n", strings.ToLower(topic))
		for j := 0; j < 5+rng.Intn(10); j++ {
			s := sentences[rng.Intn(len(sentences))]
			if strings.Contains(s, "%s") {
				fmt.Fprintf(&b, s+" ", strings.ToLower(topic))
			} else {
				fmt.Fprintf(&b, s+" ", rng.Intn(1000))
			}
		}
		docs[id] = b.String()
	}

	manifest, err := json.Marshal(ids)
	if err != nil {
		log.Fatal(err)
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "manifest.json" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(manifest)
			return
		}
		if content, ok := docs[path]; ok {
			_, _ = w.Write([]byte(content))
			return
		}
		http.NotFound(w, r)
	})

	log.Printf("serving %d papers on %s (manifest at /manifest.json)", len(ids), *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
