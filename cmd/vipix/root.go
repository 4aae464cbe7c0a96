package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/vipix/internal/app"
	"github.com/dshills/vipix/internal/config"
	"github.com/dshills/vipix/internal/host/terminal"
)

// runFunc starts the editor with a loaded configuration.
type runFunc func(ctx context.Context, cfg config.Config) error

// newRootCmd builds the command line. Flags override the config file,
// which overrides VIPIX_* environment variables and the defaults.
func newRootCmd(run runFunc) *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "vipix",
		Short:         "A modal pixel editor for the terminal",
		Long:          `vipix edits a small pixel canvas with vi-style modes, motions, verbs and key remapping.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, toml or json)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file")
	flags.Int("width", 0, "canvas width in pixels")
	flags.Int("height", 0, "canvas height in pixels")
	flags.String("keymap", "", "keymap file of extra bindings and colors")
	flags.String("script", "", "Lua script to run at startup")
	flags.Bool("watch", false, "reload the keymap file when it changes")

	bindFlags(v, cmd, map[string]string{
		"log.level":     "log-level",
		"log.file":      "log-file",
		"canvas.width":  "width",
		"canvas.height": "height",
		"keymap":        "keymap",
		"script":        "script",
		"watch":         "watch",
	})
	return cmd
}

// bindFlags binds config keys to flags. Viper only takes a flag's value
// when it was set on the command line.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// runEditor opens the terminal and runs a session until it quits.
func runEditor(ctx context.Context, cfg config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	screen, err := terminal.New()
	if err != nil {
		return err
	}
	defer screen.Close()

	err = a.Run(ctx, screen)
	if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
