package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/markpoint-mcp/internal/config"
	"github.com/ironsheep/markpoint-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("markpoint-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("markpoint-mcp - MCP server for parking-slot marking-point post-processing")
			fmt.Println()
			fmt.Println("Usage: markpoint-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  MARKPOINT_MCP_LOG_LEVEL=debug          Enable debug logging")
			fmt.Println("  MARKPOINT_MCP_CONFIG=<file.json>       Load parameters from a JSON file")
			fmt.Println("  MARKPOINT_MCP_POINT_THRESH=<float>     Override the point confidence threshold")
			fmt.Println("  MARKPOINT_MCP_BOUNDARY_THRESH=<float>  Override the boundary margin")
			fmt.Println("  MARKPOINT_MCP_BATCH_WORKERS=<int>      Limit parallel batch decoding")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("MARKPOINT_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Marking Point MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	params, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if debug {
		log.Printf("Parameters: %+v", *params)
	}

	srv := server.New(params, debug)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
