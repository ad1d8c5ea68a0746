package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-studio-mcp/internal/config"
	"github.com/ironsheep/photo-studio-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("photo-studio-mcp - MCP server for product photo editing")
	fmt.Println()
	fmt.Println("Usage: photo-studio-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH    Read settings from a YAML file")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  PHOTO_STUDIO_LOG_LEVEL=debug        Log level (trace, debug, info, warn, error)")
	fmt.Println("  PHOTO_STUDIO_SITE_BASE_URL=URL      Base URL for site-relative image paths")
	fmt.Println("  PHOTO_STUDIO_HTTP_TIMEOUT=30s       Timeout for fetching remote images")
	fmt.Println("  REMOVEBG_API_KEY=KEY                remove.bg API key")
	fmt.Println("  REMOVEBG_BASE_URL=URL               remove.bg API root")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	var configPath string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("photo-studio-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			usage()
			return
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n\n", arg)
			usage()
			os.Exit(2)
		}
	}

	// Log to stderr; stdout carries the MCP protocol.
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(cfg.LogLevel())

	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("photo studio MCP server starting")
	if cfg.RemoveBG.APIKey == "" {
		log.Info("REMOVEBG_API_KEY is not set; background removal tools will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		log.WithError(err).Fatal("server error")
	}
}
