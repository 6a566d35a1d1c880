package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bucketdrop/service/internal/client"
	"github.com/bucketdrop/service/internal/commands"
	"github.com/bucketdrop/service/internal/console"
	"github.com/bucketdrop/service/internal/trace"
)

var (
	version = "dev"

	cli struct {
		Version       kong.VersionFlag
		Debug         bool   `help:"Enable debug mode." default:"false" env:"DROPCTL_DEBUG"`
		Endpoint      string `flag:"endpoint" help:"The API endpoint to use." default:"http://localhost:8080/api" env:"DROPCTL_ENDPOINT"`
		Token         string `flag:"token" help:"Bearer token for servers with auth enabled." env:"DROPCTL_TOKEN"`
		TraceExporter string `flag:"trace-exporter" help:"The trace exporter to use. Defaults to 'noop'." default:"noop" enum:"noop,grpc" env:"DROPCTL_TRACE_EXPORTER"`

		Ping   commands.PingCmd   `cmd:"" help:"check the backend is reachable."`
		Upload commands.UploadCmd `cmd:"" help:"upload a file."`
		Files  commands.FilesCmd  `cmd:"" help:"list uploaded files."`
		Rm     commands.RmCmd     `cmd:"" help:"delete a file by key."`
		Posts  commands.PostsCmd  `cmd:"" help:"manage blog posts."`
		Mint   commands.TokenCmd  `cmd:"" name:"token" help:"mint a bearer token."`
	}
)

func main() {
	ctx := context.Background()

	start := time.Now()

	cmd := kong.Parse(&cli,
		kong.Name("dropctl"),
		kong.Description("Command line client for the bucketdrop API."),
		kong.Vars{
			"version": version,
		},
		kong.Configuration(kongyaml.Loader, "~/.config/dropctl.yml", "~/.config/dropctl.yaml"),
		kong.BindTo(ctx, (*context.Context)(nil)))

	if cli.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.ErrorLevel)
	}

	tp, err := trace.NewProvider(ctx, trace.Service{
		Name:     "github.com/bucketdrop/service/dropctl",
		Version:  version,
		Exporter: cli.TraceExporter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create trace provider")
	}
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	ctx, span := trace.Start(ctx, "dropctl")
	defer span.End()

	printer := console.NewPrinter(os.Stderr)

	cmd.BindTo(ctx, (*context.Context)(nil))

	err = cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Version: version,
		Client:  client.NewClient(version, cli.Endpoint, cli.Token),
		Printer: printer,
		Out:     os.Stdout,
	})
	span.RecordError(err)
	cmd.FatalIfErrorf(err)

	log.Debug().Str("command", cmd.Command()).Dur("elapsed", time.Since(start)).Msg("completed")
}
