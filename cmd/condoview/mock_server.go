/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cristianoliveira/condoview/cmd"
	"github.com/cristianoliveira/condoview/internal/config"
	"github.com/cristianoliveira/condoview/internal/logging"
	"github.com/cristianoliveira/condoview/internal/mockserver"
	"github.com/spf13/cobra"
)

const mockServerCommandLong = `Run a local stand-in for the condominium backend.

USAGE:
    condoview mock-server [OPTIONS]

OPTIONS:
    --addr <host:port>   Listen address (default from mock_server_addr)
    --db <path>          SQLite database (default {state_dir}/mock.db)
    --seed <n>           Insert n demo occurrences into an empty database
    --token <token>      Require this bearer token (default from api_token)
    --http-log <path>    Append JSON request logs to path, "-" for stderr
    -h, --help           Show this help

The API is served under /api, matching the default api_url.`

// MockServerOptions holds the resolved mock-server flags.
type MockServerOptions struct {
	Addr    string
	DB      string
	Seed    int
	Token   string
	HTTPLog string
}

// resolve fills every flag the user did not set from the configuration.
func (o *MockServerOptions) resolve(c *cobra.Command) {
	flags := c.Flags()
	if !flags.Changed("addr") {
		o.Addr = config.Get("mock_server_addr", "127.0.0.1:8080")
	}
	if !flags.Changed("db") {
		o.DB = config.Get("mock_server_db", "")
	}
	if o.DB == "" {
		o.DB = filepath.Join(config.Get("state_dir", os.TempDir()), "mock.db")
	}
	if !flags.Changed("token") {
		o.Token = config.Get("api_token", "")
	}
	if !flags.Changed("http-log") {
		o.HTTPLog = config.Get("mock_server_http_log", "")
	}
}

func openHTTPLog(path string) (io.Writer, func() error, error) {
	switch path {
	case "":
		return nil, func() error { return nil }, nil
	case "-":
		return os.Stderr, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create http log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open http log: %w", err)
	}
	return f, f.Close, nil
}

// NewMockServerCmd creates the mock-server command. prepare loads the
// configuration before the flags are resolved.
func NewMockServerCmd(prepare func()) *cobra.Command {
	if prepare == nil {
		panic("NewMockServerCmd: prepare cannot be nil")
	}
	var opts MockServerOptions

	mockCmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local mock backend",
		Long:  mockServerCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			prepare()
			opts.resolve(c)
			if opts.Seed < 0 {
				return fmt.Errorf("invalid seed: %d", opts.Seed)
			}
			logger := logging.GetGlobal().With("command", "mock-server")

			store, err := mockserver.OpenStore(opts.DB)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			seeded, err := mockserver.Seed(ctx, store, opts.Seed)
			if err != nil {
				return fmt.Errorf("seed mock database: %w", err)
			}

			httpLog, closeLog, err := openHTTPLog(opts.HTTPLog)
			if err != nil {
				return err
			}
			defer closeLog()

			handler := mockserver.NewHandler(store, mockserver.Options{
				HTTPLog: httpLog,
				Token:   opts.Token,
				Logger:  logger,
			})
			out := c.OutOrStdout()
			return mockserver.Run(ctx, opts.Addr, handler, logger, func(addr net.Addr) {
				fmt.Fprintf(out, "Mock backend listening on http://%s/api (db %s, %d seeded)\n", addr, opts.DB, seeded)
			})
		},
	}
	mockCmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address")
	mockCmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	mockCmd.Flags().IntVar(&opts.Seed, "seed", 0, "Demo occurrences to insert into an empty database")
	mockCmd.Flags().StringVar(&opts.Token, "token", "", "Required bearer token")
	mockCmd.Flags().StringVar(&opts.HTTPLog, "http-log", "", `Request log path, "-" for stderr`)
	return mockCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewMockServerCmd(loadConfig))
}
