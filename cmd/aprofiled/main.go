// Command aprofiled runs the scavenger as a standalone daemon: it
// loads the network/cpu profile, opens the decision audit log, serves
// the introspection API, and accepts peer announcements over HTTP,
// all wired through internal/runtime.Runtime. Grounded on cmd/main.go's
// flag/banner/signal-handling shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cyberforage/aprofile-scavenger/internal/api"
	"github.com/cyberforage/aprofile-scavenger/internal/config"
	"github.com/cyberforage/aprofile-scavenger/internal/decisionlog"
	"github.com/cyberforage/aprofile-scavenger/internal/runtime"
	"github.com/cyberforage/aprofile-scavenger/pkg/peercontext"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
)

func main() {
	var (
		configPath  = flag.String("config", "./aprofile.conf", "Path to the [network]/[cpu] config file")
		globalStore = flag.String("global-profile", "./gprofile.dat", "Path to the shared (global) profile store")
		localStore  = flag.String("local-profile", "./lprofile.dat", "Path to the per-task (local) profile store")
		decisionDB  = flag.String("decisions-db", "./decisions.db", "Path to the decision audit SQLite database")
		port        = flag.String("port", "8090", "HTTP port for the introspection API")
		noDecisions = flag.Bool("no-decisions-log", false, "Disable the decision audit log")
	)
	flag.Parse()

	printBanner()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	log.Printf("Loaded config: net=%d cpu_strength=%.2f cpu_cores=%d", cfg.NetSpeed, cfg.CPUStrength, cfg.CPUCores)

	peers := peercontext.New()
	rt := runtime.New(cfg, peers, *globalStore, *localStore, peerproxy.HTTPDialer{})

	var decisions *decisionlog.Store
	if !*noDecisions {
		db, err := decisionlog.Open(*decisionDB)
		if err != nil {
			log.Fatalf("Failed to open decision log %s: %v", *decisionDB, err)
		}
		defer db.Close()
		decisions = decisionlog.NewStore(db)
		rt.WithDecisionLog(decisions)
		log.Printf("Decision audit log: %s", *decisionDB)
	} else {
		log.Printf("Decision audit log disabled")
	}

	server := api.NewServer(rt, decisions, *port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", *port)
		done <- server.Start()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Printf("Shutting down...")
		if err := rt.Shutdown(); err != nil {
			log.Printf("Error flushing profile stores: %v", err)
		}
		os.Exit(0)
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println("========================================================")
	fmt.Println("                  aprofiled scavenger                  ")
	fmt.Println("                                                        ")
	fmt.Println("  Adaptive-profiling offload daemon: tracks surrogates,")
	fmt.Println("  learns execution cost, and schedules tasks locally   ")
	fmt.Println("  or remotely on their behalf.                         ")
	fmt.Println("========================================================")
	fmt.Println()
}
