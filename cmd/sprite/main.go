// Command sprite is a CLI tool for working with sprite project files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ha1tch/sprite-toolkit/pkg/config"
	"github.com/ha1tch/sprite-toolkit/pkg/errors"
	"github.com/ha1tch/sprite-toolkit/pkg/logging"
	"github.com/ha1tch/sprite-toolkit/pkg/spritefile"
	"github.com/ha1tch/sprite-toolkit/pkg/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	statePath  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "sprite",
		Short:        "Sprite project toolkit",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(opts)
			level := cfg.LogLevel
			if opts.verbose {
				level = logrus.DebugLevel.String()
			}
			logging.Configure(level, cfg.LogFile)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default ~/.spriteedit.toml)")
	root.PersistentFlags().StringVar(&opts.statePath, "state", "", "Path to state file")
	_ = root.PersistentFlags().MarkHidden("state")

	root.AddCommand(
		newNewCmd(opts),
		newInfoCmd(),
		newValidateCmd(),
		newRecentCmd(opts),
	)
	return root
}

func loadConfig(opts *options) config.Config {
	path := opts.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logging.NewLogger("sprite").WithError(err).Warn("using default config")
	}
	return cfg
}

func newNewCmd(opts *options) *cobra.Command {
	var size, frames int
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a blank project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)
			if size == 0 {
				size = cfg.DefaultCanvasSize
			}
			if size < 1 || size > cfg.MaxCanvasSize {
				return errors.InvalidCanvasSize(size, cfg.MaxCanvasSize)
			}
			if frames < 1 {
				return fmt.Errorf("frame count must be at least 1, got %d", frames)
			}

			path := spritefile.WithExtension(args[0])
			if err := spritefile.WriteFile(path, spritefile.Blank(size, frames)); err != nil {
				return err
			}
			logging.NewLogger("sprite").WithFields(logrus.Fields{"path": path, "size": size, "frames": frames}).Debug("project created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%dx%d, %d frame(s))\n", path, size, size, frames)
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 0, "Canvas size in pixels (default from config)")
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "Number of frames")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show project information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := spritefile.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Size:        %dx%d\n", p.Size, p.Size)
			fmt.Fprintf(out, "Frames:      %d\n", len(p.Frames))
			fmt.Fprintln(out)
			total := p.Size * p.Size
			for i, f := range p.Frames {
				fmt.Fprintf(out, "frame%-6d %d/%d pixels painted\n", i, spritefile.OpaquePixels(f), total)
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := spritefile.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid project, %dx%d with %d frame(s)\n",
				args[0], p.Size, p.Size, len(p.Frames))
			return nil
		},
	}
}

func newRecentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.statePath
			if path == "" {
				var err error
				if path, err = state.DefaultPath(); err != nil {
					return err
				}
			}
			st, err := state.Open(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(st.State.RecentFiles) == 0 {
				fmt.Fprintln(out, "No recent projects")
				return nil
			}
			for _, f := range st.State.RecentFiles {
				marker := " "
				if _, err := os.Stat(f); err != nil {
					marker = "!"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", marker, filepath.Base(f), f)
			}
			return nil
		},
	}
}
