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

	client "github.com/mutablelogic/go-dfs/pkg/client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Globals
	Ping     PingCommand     `cmd:"" help:"Check the coordinator is reachable"`
	List     ListCommand     `cmd:"" help:"List stored files"`
	Search   SearchCommand   `cmd:"" help:"Search stored files by name"`
	Upload   UploadCommand   `cmd:"" help:"Upload a local file"`
	Download DownloadCommand `cmd:"" help:"Download a stored file"`
	Preview  PreviewCommand  `cmd:"" help:"Fetch a server-side preview"`
	Delete   DeleteCommand   `cmd:"" help:"Delete a stored file"`
	Version  VersionCommand  `cmd:"" help:"Print version information"`
}

type Globals struct {
	Addr  string `help:"Coordinator address" default:"localhost:9000" env:"DFS_ADDR"`
	Debug bool   `help:"Enable debug output"`

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
		kong.Description("distributed file service client"),
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
	Connect() (*client.Client, error)
}

func (app *Globals) init() {
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	level := zerolog.WarnLevel
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

// Connect dials the coordinator named by the --addr flag.
func (app *Globals) Connect() (*client.Client, error) {
	app.logger.Debug().Str("addr", app.Addr).Msg("connecting")
	return client.Dial(app.ctx, app.Addr)
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
