package main

import (
	"log"
	"os"
	"strings"
	"time"

	"inknote/internal/config"
	"inknote/internal/share"
	"inknote/internal/ui"
)

func main() {
	args := os.Args
	if len(args) > 1 && strings.HasPrefix(args[1], share.URLScheme) {
		log.Println("Starting as VIEWER")
		link := args[1]
		if link == share.URLScheme {
			// A bare inknote:// link means "find a host on the LAN".
			link = discoverHost()
		}
		if err := ui.RunViewer(link); err != nil {
			log.Fatalf("viewer: %v", err)
		}
		return
	}

	cfg := config.Load()
	if err := ui.RunApp(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}

func discoverHost() string {
	found := make(chan string, 1)
	if err := share.Browse(func(addr string) {
		select {
		case found <- addr:
		default:
		}
	}); err != nil {
		log.Fatalf("discover: %v", err)
	}

	// Browse relays answers on its own goroutine, so a host that replied
	// can still be in flight when Lookup returns; give it a moment.
	select {
	case addr := <-found:
		log.Printf("discovered host at %s", addr)
		return share.URLScheme + addr
	case <-time.After(2 * time.Second):
		log.Fatal("discover: no hosts found on the local network")
		return ""
	}
}
