package cmd

import (
	"context"

	"repotabs/internal/server"
	"repotabs/internal/services"
)

// ServeCmd starts the SSH server exposing the TUI
type ServeCmd struct {
	Host string `help:"Host to bind the SSH server to" default:"localhost"`
	Port string `help:"Port to bind the SSH server to" default:"23235"`
}

// Run starts the SSH server and blocks until shutdown
func (s *ServeCmd) Run(cli *CLI) error {
	factory := func() (*services.TabService, func() error, error) {
		svc, closer, err := NewSessionContainer()
		if err != nil {
			return nil, nil, err
		}
		if err := svc.Initialize(context.Background()); err != nil {
			closer()
			return nil, nil, err
		}
		return svc, closer, nil
	}

	srv, err := server.NewServer(s.Host, s.Port, Version, factory)
	if err != nil {
		return err
	}
	return srv.Start()
}
