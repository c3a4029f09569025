package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	zerolog "github.com/rs/zerolog"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Globals
	Run     RunCommand     `cmd:"" default:"withargs" help:"Run a content backend"`
	Version VersionCommand `cmd:"" help:"Print version information"`
}

type Globals struct {
	Debug bool `help:"Enable debug output"`

	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func main() {
	// Parse command-line flags
	var cli CLI
	kong := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("typed content backend server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	// Create the app context and logger
	cli.Globals.init()
	defer cli.Globals.Close()

	// Run
	kong.BindTo(&cli.Globals, (*App)(nil))
	kong.FatalIfErrorf(kong.Run())
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

type App interface {
	Context() context.Context
	Logger() zerolog.Logger
}

func (app *Globals) init() {
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	level := zerolog.InfoLevel
	if app.Debug {
		level = zerolog.DebugLevel
	}
	app.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func (app *Globals) Close() error {
	app.cancel()
	return nil
}

func (app *Globals) Context() context.Context {
	return app.ctx
}

func (app *Globals) Logger() zerolog.Logger {
	return app.logger
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	}
	return filepath.Base(name)
}
