package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/Aurora-Science-Hub/Framework/internal/commands"
	"github.com/Aurora-Science-Hub/Framework/internal/console"
	"github.com/Aurora-Science-Hub/Framework/internal/trace"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/config"
)

var version = "dev"

type CLI struct {
	Version       kong.VersionFlag
	Debug         bool            `help:"Enable debug logging." default:"false" env:"BLOBCTL_DEBUG"`
	TraceExporter string          `flag:"trace-exporter" help:"The trace exporter to use. Defaults to 'noop'." default:"noop" enum:"noop,grpc" env:"BLOBCTL_TRACE_EXPORTER"`
	Config        kong.ConfigFlag `flag:"config" help:"YAML file with flag values." env:"BLOBCTL_CONFIG"`

	commands.StorageFlags

	New    commands.NewCmd    `cmd:"" help:"Generate blob identifiers."`
	Parse  commands.ParseCmd  `cmd:"" help:"Show the parts of a blob identifier."`
	Put    commands.PutCmd    `cmd:"" help:"Upload a file."`
	Get    commands.GetCmd    `cmd:"" help:"Download a blob."`
	Stat   commands.StatCmd   `cmd:"" help:"Show blob metadata."`
	Exists commands.ExistsCmd `cmd:"" help:"Check whether a blob exists."`
	Rm     commands.RmCmd     `cmd:"" help:"Delete blobs."`
	Env    commands.EnvCmd    `cmd:"" help:"List the BLOB_* environment variables."`
}

// Commands that never touch the store.
var offline = map[string]bool{"new": true, "parse": true, "env": true}

func newParser(ctx context.Context, cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("blobctl"),
		kong.Description("Manage blobs addressed by blb_<bucket>_<key> identifiers."),
		kong.Vars{"version": version},
		kong.NamedMapper("yamlfile", kongyaml.YAMLFileMapper),
		kong.Configuration(kongyaml.Loader),
		kong.BindTo(ctx, (*context.Context)(nil)),
	}, opts...)...)
}

func main() {
	ctx := context.Background()

	var cli CLI
	parser, err := newParser(ctx, &cli)
	if err != nil {
		panic(err)
	}

	cmd, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = Run(ctx, cmd, &cli, os.Stdout, os.Stderr)
	cmd.FatalIfErrorf(err)
}

// Run executes the parsed command. Command output goes to stdout; logs and
// status lines go to stderr.
func Run(ctx context.Context, cmd *kong.Context, cli *CLI, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cli.Debug)

	tp, err := trace.NewProvider(ctx, cli.TraceExporter, "github.com/Aurora-Science-Hub/Framework/cmd/blobctl", version)
	if err != nil {
		return fmt.Errorf("failed to create trace provider: %w", err)
	}
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	globals := &commands.Globals{
		Printer: console.NewPrinter(stderr),
		Stdout:  stdout,
		Logger:  logger,
	}

	name := strings.Fields(cmd.Command())[0]
	if !offline[name] {
		client, closeStore, err := buildClient(ctx, cli.StorageFlags, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		globals.Client = client
	}

	ctx, span := trace.Start(ctx, "blobctl."+name)
	defer span.End()

	cmd.BindTo(ctx, (*context.Context)(nil))
	if err := cmd.Run(globals); err != nil {
		return trace.RecordError(span, fmt.Errorf("command %s failed: %w", name, err), "command failed")
	}

	logger.Debug("Command completed", "command", name)
	return nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildClient reads BLOB_* variables first so that flags win.
func buildClient(ctx context.Context, flags commands.StorageFlags, logger *slog.Logger) (blobs.Client, func(), error) {
	opts := append([]config.Option{config.WithEnv()}, flags.Options()...)
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, nil, err
	}

	store, err := cfg.BuildStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close object store", "error", err)
			}
		}
	}

	client, err := blobs.New(store, blobs.WithDefaultBucket(cfg.Bucket), blobs.WithLogger(logger))
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	logger.Debug("Object store ready", "backend", cfg.Backend, "bucket", cfg.Bucket)
	return client, closeStore, nil
}
