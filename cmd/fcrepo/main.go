// Package main provides the fcrepo binary entry point, a command-line
// client for Fedora Commons 4 repositories.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/c360studio/fcrepo/client"
	"github.com/c360studio/fcrepo/config"
)

const (
	Version = "0.1.0"
	appName = "fcrepo"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions holds the persistent flags shared by all subcommands.
type cliOptions struct {
	configPath string
	user       string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Fedora Commons 4 repository client",
		Long: `fcrepo is a command-line client for Fedora Commons 4 repositories.

It speaks the LDP REST API: fetching containers and binaries, uploading
files and directory trees, deleting resources (with tombstone removal),
and inspecting WebAC access controls.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "Authenticate as this configured user")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warning, error); overrides config")

	cmd.AddCommand(getCmd(opts))
	cmd.AddCommand(pushCmd(opts))
	cmd.AddCommand(rmCmd(opts))
	cmd.AddCommand(aclCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// newRepository loads the configuration, configures logging, and opens
// the repository connection.
func (opts *cliOptions) newRepository() (*client.Repository, error) {
	cfg, err := config.LoadFromFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	repo, err := client.New(cfg, client.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if opts.user != "" {
		if err := repo.SetUser(opts.user); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// resolveURI accepts either an absolute repository URI or a
// repository-relative REST path.
func resolveURI(repo *client.Repository, arg string) string {
	if _, err := repo.URIToPath(arg); err == nil {
		return arg
	}
	return repo.PathToURI(arg)
}
