package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"domx/common"
	"domx/config"
	"domx/manager"
	"domx/misc"
	"domx/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			// token is masked by Dump
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	env.RestoreStdLog()

	// errors must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Errors from subcommands are regular errors, not cli.Exit().
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		fields := []zap.Field{zap.Error(err)}
		if kind, ok := common.KindOf(err); ok {
			fields = append(fields, zap.Stringer("kind", kind))
		}
		env.Log.Error("Program ended with error", fields...)
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Logger().Warn("Unknown command, nothing to do", zap.String("command", name))
}

const nodeArgsHelp = `
FILE_KEY:
    key of the design file, part of the file URL after "/file/" or "/design/"

NODE_ID:
    id of the node to work with, "1:2" and "1-2" (as in URLs) are both accepted
`

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	variantFlag := &cli.StringFlag{Name: "variant", Aliases: []string{"v"}, Usage: "apply user layer of named `VARIANT` on top of the page"}

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "converts design nodes to HTML/CSS pages",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "sync",
				Usage:        "Fetches design node, converts it and downloads referenced assets",
				OnUsageError: usageErrorHandler,
				Action:       manager.RunSync,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "convert even if design did not change since last synchronization"},
					&cli.BoolFlag{Name: "no-wait", Usage: "do not wait for background asset download"},
					variantFlag,
				},
				ArgsUsage:          "FILE_KEY NODE_ID",
				CustomHelpTemplate: cli.CommandHelpTemplate + nodeArgsHelp,
			},
			{
				Name:         "export",
				Usage:        "Renders synchronized page with templates",
				OnUsageError: usageErrorHandler,
				Action:       manager.RunExport,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "templates", Aliases: []string{"t"}, Required: true,
						Usage: "templates `PATH`, directory or zip archive"},
					&cli.StringFlag{Name: "assets-dir", Usage: "copy assets to `DIR` instead of \"assets\" under destination"},
					&cli.StringFlag{Name: "assets-prefix", Usage: "reference assets as `PREFIX`/name (may be absolute URL)"},
					variantFlag,
				},
				ArgsUsage: "FILE_KEY NODE_ID [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + nodeArgsHelp + `
DESTINATION:
    output directory, if absent - current working directory
    when it ends with ".zip" page and its assets are packed into archive
`,
			},
			{
				Name:               "delete",
				Usage:              "Removes local data of design node",
				OnUsageError:       usageErrorHandler,
				Action:             manager.RunDelete,
				ArgsUsage:          "FILE_KEY NODE_ID",
				CustomHelpTemplate: cli.CommandHelpTemplate + nodeArgsHelp,
			},
			{
				Name:         "node-image",
				Usage:        "Saves image of design node rendered by design API",
				OnUsageError: usageErrorHandler,
				Action:       manager.RunNodeImage,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "image `FORMAT` (" + strings.Join(common.ImageFormatNames(), ", ") + ")"},
					&cli.FloatFlag{Name: "scale", Usage: "image `SCALE`, from 0.01 to 4"},
				},
				ArgsUsage: "FILE_KEY NODE_ID [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + nodeArgsHelp + `
DESTINATION:
    file or existing directory, if absent - current working directory
`,
			},
			{
				Name:         "templates",
				Usage:        "Writes default export templates to use as a starting point",
				OnUsageError: usageErrorHandler,
				Action:       manager.RunTemplates,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite existing files"},
				},
				ArgsUsage: "DESTINATION",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// log is either not set yet or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
