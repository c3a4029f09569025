package main

import (
	"fmt"
	"net"
	"strconv"

	// Packages
	coordinator "github.com/mutablelogic/go-dfs/pkg/coordinator"
	version "github.com/mutablelogic/go-dfs/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type RunCommand struct {
	Host   string `arg:"" optional:"" default:"0.0.0.0" help:"Listen host"`
	Port   int    `arg:"" optional:"" default:"9000" help:"Listen port"`
	Config string `help:"Backend registry configuration (YAML)" default:"config.yaml" env:"DFS_CONFIG"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *RunCommand) Run(app App) error {
	config, err := coordinator.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	registry, err := config.Registry()
	if err != nil {
		return err
	}

	c, err := coordinator.New(registry, coordinator.WithLogger(app.Logger()))
	if err != nil {
		return err
	}

	return c.ListenAndServe(app.Context(), net.JoinHostPort(cmd.Host, strconv.Itoa(cmd.Port)))
}

func (cmd *VersionCommand) Run(app App) error {
	fmt.Println(execName(), version.Version())
	return nil
}
