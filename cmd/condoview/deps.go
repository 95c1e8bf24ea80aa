package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianoliveira/condoview/internal/api"
	"github.com/cristianoliveira/condoview/internal/colors"
	"github.com/cristianoliveira/condoview/internal/config"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/listctl"
	"github.com/cristianoliveira/condoview/internal/logging"
	"github.com/cristianoliveira/condoview/internal/tui"
)

// backend is the part of the REST client the commands use.
type backend interface {
	listctl.Source
	tui.Mutator
	Get(ctx context.Context, id int64) (domain.Occurrence, error)
	Comments(ctx context.Context, id int64) ([]domain.Comment, error)
	Comment(ctx context.Context, id int64, text string) (domain.Comment, error)
}

// session bundles the client with the caller's settings.
type session struct {
	client   backend
	settings config.ClientSettings
	logger   logging.Logger
}

// sessionLoader builds the session on first use. Commands take one so that
// tests can point them at an in-process backend.
type sessionLoader func() (*session, error)

// loadConfig reads the configuration and starts file logging once per process.
var loadConfig = sync.OnceFunc(func() {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("File logging disabled: %v", err))
	}
})

var loadSession sessionLoader = sync.OnceValues(func() (*session, error) {
	loadConfig()
	cs, err := config.ClientFromGlobal()
	if err != nil {
		return nil, err
	}
	logger := logging.GetGlobal()
	client, err := api.New(api.Config{
		BaseURL: cs.APIURL,
		Token:   cs.APIToken,
		Timeout: cs.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid api_url: %w", err)
	}
	logger.Debug("session ready", "api_url", client.BaseURL(), "role", cs.Scope.Role)
	return &session{client: client, settings: cs, logger: logger}, nil
})

// requestContext bounds one CLI backend call by the configured timeout.
func (s *session) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := s.settings.RequestTimeout
	if timeout <= 0 {
		timeout = listctl.DefaultRequestTimeout
	}
	return context.WithTimeout(parent, timeout)
}
