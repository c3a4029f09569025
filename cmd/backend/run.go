package main

import (
	"fmt"
	"net"
	"strconv"

	// Packages
	backend "github.com/mutablelogic/go-dfs/pkg/backend"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	version "github.com/mutablelogic/go-dfs/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type RunCommand struct {
	Host  string `arg:"" optional:"" default:"0.0.0.0" help:"Listen host"`
	Port  int    `arg:"" optional:"" default:"9001" help:"Listen port"`
	Class string `help:"Content class to serve (image, video, text, sound, compressed)" required:"" env:"DFS_CLASS"`
	Root  string `help:"Storage root directory" default:"storage" env:"DFS_ROOT"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *RunCommand) Run(app App) error {
	b, err := backend.New(schema.Class(cmd.Class), cmd.Root, backend.WithLogger(app.Logger()))
	if err != nil {
		return err
	}

	return b.ListenAndServe(app.Context(), net.JoinHostPort(cmd.Host, strconv.Itoa(cmd.Port)))
}

func (cmd *VersionCommand) Run(app App) error {
	fmt.Println(execName(), version.Version())
	return nil
}
