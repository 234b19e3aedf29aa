// Command server hosts the matching engine behind the binary wire protocol
// and, optionally, the HTTP/WebSocket monitoring surface. CLI surface
// grounded on original_source/src/main_server.cpp: `server [port]` with
// -h/--help, default port 8888, SIGINT/SIGTERM trigger graceful shutdown.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"limitless/engine"
	"limitless/monitor"
	"limitless/server"
)

const defaultPort = 8888

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [port]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  port: server port (default: %d)\n", defaultPort)
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	monitorAddr := flag.String("monitor-addr", ":9090", "listen address for the HTTP/WebSocket monitoring surface, empty to disable")
	flag.Usage = usage
	flag.Parse()

	port := defaultPort
	if flag.NArg() > 0 {
		p, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid port number: %s\n", flag.Arg(0))
			usage()
			os.Exit(1)
		}
		port = p
	}

	fmt.Println("========================================")
	fmt.Println("  Matching Engine Server")
	fmt.Println("========================================")

	eng := engine.NewEngine()
	srv := server.New(eng, log.Default())

	var mon *monitor.Server
	if *monitorAddr != "" {
		mon = monitor.New(eng)
		go func() {
			if err := mon.ListenAndServe(*monitorAddr); err != nil {
				log.Printf("monitoring server stopped: %v", err)
			}
		}()
		log.Printf("monitoring surface listening on %s", *monitorAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(fmt.Sprintf(":%d", port))
	}()

	go printStats(eng, srv)

	fmt.Println("\nServer is running. Press Ctrl+C to stop.")

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %s, shutting down server...\n", sig)
		_ = srv.Close()
		if mon != nil {
			_ = mon.Close()
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	fmt.Println("Server stopped")
}

func printStats(eng *engine.Engine, srv *server.Server) {
	for range time.Tick(10 * time.Second) {
		stats := eng.Stats()
		fmt.Println("\n=== Server Statistics ===")
		fmt.Printf("Active Connections: %d\n", srv.ActiveConnections())
		fmt.Printf("Total Orders: %d\n", stats.TotalOrders)
		fmt.Printf("Total Trades: %d\n", stats.TotalTrades)
		fmt.Printf("Books: %d\n", stats.BookCount)
		fmt.Println("=========================")
	}
}
