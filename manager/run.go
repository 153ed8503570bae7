package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"domx/common"
	"domx/figma"
	"domx/page"
	"domx/state"
)

// fromArgs prepares manager for "FILE_KEY NODE_ID ..." command line.
func fromArgs(ctx context.Context, cmd *cli.Command, extra int) (*Manager, error) {
	env := state.EnvFromContext(ctx)

	env.FileKey, env.NodeID = cmd.Args().Get(0), cmd.Args().Get(1)
	if len(env.FileKey) == 0 || len(env.NodeID) == 0 {
		return nil, errors.New("design file key and node id must be specified")
	}
	if cmd.Args().Len() > 2+extra {
		env.Log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2+extra:]))
	}
	// node ids are often copied from URLs where ':' is written as '-'
	if !strings.Contains(env.NodeID, ":") && strings.Count(env.NodeID, "-") == 1 {
		env.NodeID = strings.Replace(env.NodeID, "-", ":", 1)
	}
	if cmd.IsSet("variant") {
		env.Variant = cmd.String("variant")
	}

	client, err := figma.NewClient(&env.Cfg.Figma, env.Log)
	if err != nil {
		return nil, err
	}
	return New(env.Cfg, client, env.FileKey, env.NodeID, env.Log, WithReport(env.Rpt)), nil
}

// RunSync is "sync" command.
func RunSync(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	if len(env.Cfg.Figma.Token) == 0 {
		return common.NewError(common.ErrorKindInvalidCredential, nil, "design API token is not configured")
	}
	m, err := fromArgs(ctx, cmd, 0)
	if err != nil {
		return err
	}

	changed, err := m.Synchronize(ctx, cmd.Bool("force"), env.Variant)
	if err != nil {
		return err
	}
	if !changed || cmd.Bool("no-wait") {
		return nil
	}
	if !m.WaitForDownloadAssets(ctx, env.Cfg.Assets.WaitTimeout) {
		env.Log.Warn("Assets download did not complete in time", zap.Duration("timeout", env.Cfg.Assets.WaitTimeout))
		return ctx.Err()
	}
	return m.Page.LoadData(env.Variant)
}

// RunExport is "export" command.
func RunExport(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	m, err := fromArgs(ctx, cmd, 1)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(2)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	if err := m.LoadData(env.Variant); err != nil {
		return err
	}
	assetsDir := cmd.String("assets-dir")
	if assetsDir == "" {
		assetsDir = env.Cfg.Assets.OutDir
	}
	prefix := cmd.String("assets-prefix")
	if prefix == "" {
		prefix = env.Cfg.Assets.Prefix
	}
	if assetsDir != "" && !filepath.IsAbs(assetsDir) {
		assetsDir = filepath.Join(dst, assetsDir)
	}

	env.Log.Info("Export starting", zap.String("destination", dst), zap.String("templates", cmd.String("templates")))
	if strings.EqualFold(filepath.Ext(dst), ".zip") {
		if cmd.IsSet("assets-dir") {
			env.Log.Warn("Assets are always packed into archive, ignoring assets directory", zap.String("assets-dir", assetsDir))
		}
		return m.ExportArchive(ctx, dst, cmd.String("templates"), prefix)
	}
	return m.Export(ctx, dst, cmd.String("templates"), assetsDir, prefix)
}

// RunDelete is "delete" command.
func RunDelete(ctx context.Context, cmd *cli.Command) error {
	m, err := fromArgs(ctx, cmd, 0)
	if err != nil {
		return err
	}
	if err := m.DeleteData(); err != nil {
		return err
	}
	state.EnvFromContext(ctx).Log.Info("Local data removed", zap.String("dir", m.PageDir()))
	return nil
}

// RunNodeImage is "node-image" command.
func RunNodeImage(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	m, err := fromArgs(ctx, cmd, 1)
	if err != nil {
		return err
	}

	format := env.Cfg.NodeImage.Format
	if cmd.IsSet("format") {
		if format, err = common.ParseImageFormat(cmd.String("format")); err != nil {
			return err
		}
	}
	scale := env.Cfg.NodeImage.Scale
	if cmd.IsSet("scale") {
		scale = cmd.Float("scale")
	}
	_, err = m.GetNodeImage(ctx, env.NodeID, format, scale, cmd.Args().Get(2))
	return err
}

// RunTemplates is "templates" command, it writes embedded default templates.
func RunTemplates(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		return errors.New("destination directory must be specified")
	}
	files, err := page.WriteDefaultTemplates(dst, cmd.Bool("overwrite"))
	if err != nil {
		return fmt.Errorf("unable to write templates: %w", err)
	}
	env.Log.Info("Default templates written", zap.Strings("files", files))
	return nil
}
