package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches the subcommand and returns the process exit status.
// With no command (or only flags) it serves.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, args, stdout, stderr)
	case "help":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stdout, "Unknown command: %s\n", command)
		printUsage(stdout)
		return 1
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage: devserve [command] [arguments]")
	_, _ = fmt.Fprintln(w, "\nCommands:")
	_, _ = fmt.Fprintln(w, "  serve          Serve the current directory (default)")
	_, _ = fmt.Fprintln(w, "  help           Show this help message")
	_, _ = fmt.Fprintln(w, "\nFlags for serve:")
	_, _ = fmt.Fprintln(w, "  -host          Interface to bind (default: all)")
	_, _ = fmt.Fprintln(w, "  -port          Port to listen on (default: 8000)")
	_, _ = fmt.Fprintln(w, "  -dir           Directory to serve (default: .)")
	_, _ = fmt.Fprintln(w, "  -config        Config file (default: devserve.yaml/.yml/.toml if present)")
	_, _ = fmt.Fprintln(w, "  -watch         Enable live reload")
	_, _ = fmt.Fprintln(w, "  -compress      gzip responses (default: true)")
}
