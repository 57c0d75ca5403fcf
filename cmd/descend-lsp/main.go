package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/descend-lang/descend-lsp/internal/lsp"
	"github.com/descend-lang/descend-lsp/internal/server"
)

var (
	tcpMode  bool
	tcpPort  int
	logLevel string
	logFile  string
)

func init() {
	// Command-line flags
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "descend-lsp version %s\n\n", lsp.ServerVersion)
	fmt.Fprintf(os.Stderr, "Usage: descend-lsp [options]\n\n")
	fmt.Fprintf(os.Stderr, "Language Server Protocol implementation for Descend\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	// Print version if requested
	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("descend-lsp version %s\n", lsp.ServerVersion)
		os.Exit(0)
	}

	setupLogging()

	// Initialize server state and the method registry
	srv := server.New()
	handler := lsp.NewHandler(srv)

	var err error
	if tcpMode {
		fmt.Fprintf(os.Stderr, "descend-lsp version %s listening on port %d...\n", lsp.ServerVersion, tcpPort)
		err = serveTCP(handler)
	} else {
		err = handler.Serve(os.Stdin, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "descend-lsp: %v\n", err)
		os.Exit(1)
	}
}

// serveTCP accepts a single client connection and runs the serve loop over
// it. One logical session at a time, same as stdio.
func serveTCP(handler *lsp.Handler) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", tcpPort))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer listener.Close()

	conn, err := listener.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	return handler.Serve(conn, conn)
}

// setupLogging configures commonlog from the command-line flags.
func setupLogging() {
	verbosity := 0
	switch logLevel {
	case "debug":
		verbosity = 2
	case "info":
		verbosity = 1
	}

	var path *string
	if logFile != "" {
		path = &logFile
	}

	commonlog.Configure(verbosity, path)
}
