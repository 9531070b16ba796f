// netflux-exportd serves the export pipeline over HTTP.
//
// Endpoints:
//
//	POST /export    compile a snapshot, inline or to disk
//	POST /validate  check a snapshot without compiling
//	GET  /health    liveness
//	GET  /metrics   Prometheus metrics
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/api"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/metrics"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/server"
)

const version = "1.0.0"

// defaultListenHost keeps the service loopback-only unless the operator
// passes -addr; it exists for a local editor, exposing it is an explicit
// choice.
const defaultListenHost = "127.0.0.1"

// listenAddr joins the host and port.
func listenAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

func main() {
	host := flag.String("addr", defaultListenHost, "Listen address (loopback by default; set 0.0.0.0 to expose)")
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			}
		}
		if *port == 0 {
			*port = 8080
		}
	}

	logging.DefaultLogger().SetLevel(logging.ParseLevel(*logLevel))
	addr := listenAddr(*host, *port)
	logging.Info("netflux-exportd starting",
		logging.String("version", version), logging.String("addr", addr))

	srv := api.NewServer(metrics.DefaultRegistry(), version)
	gs := server.NewGracefulServer(addr, srv.Handler())

	// SIGHUP re-reads the log level from the environment.
	gs.SetReloadFunc(func() error {
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			logging.DefaultLogger().SetLevel(logging.ParseLevel(lvl))
			logging.Info("log level reloaded", logging.String("level", lvl))
		}
		return nil
	})

	if err := gs.Start(); err != nil {
		logging.ErrorLog("server failed", logging.Error(err))
		os.Exit(1)
	}
}
