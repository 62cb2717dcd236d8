// Command devserver runs an in-memory waveline API server for local
// development. All state is lost on exit.
package main

import (
	"flag"
	"fmt"
	"os"

	"waveline/internal/devserver"
	"waveline/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	secret := flag.String("jwt-secret", "waveline-dev-secret", "HMAC secret for token signing")
	noSeed := flag.Bool("no-seed", false, "start with an empty store")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Init(logger.Config{Level: *logLevel, Format: "text", Output: "stderr"})

	server := devserver.NewServer(*secret)
	if !*noSeed {
		server.Seed()
	}

	logger.Infof("devserver listening on %s", *addr)
	if err := server.Start(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}
