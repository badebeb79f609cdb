package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bsptools/bspindex/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve <snapshot-path>",
	Short: "Serve a built snapshot to MCP clients over stdio",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Log to stderr: stdout is reserved for the MCP protocol.
	log.SetOutput(os.Stderr)
	log.Printf("bspindex MCP server v%s starting...", version)

	server, err := mcp.NewServer(args[0])
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
