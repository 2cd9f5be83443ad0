package main

import (
	"log"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Turing as an MCP server over standard input and output.
Agents can validate, format, encode, save and run programs as tools, and
list stored programs through the turing://programs resource.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		eng, err := cli.NewEngine(cmd.Context(), settings, logger, nil)
		if err != nil {
			fail("Error initializing turing", err)
		}

		srv := mcp.NewServer(eng, logger)
		logger.Info("starting turing MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "error", err)
			exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
