package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/orchestrator"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/renderers/tui"
	"github.com/goliatone/go-modelform/pkg/renderers/vanilla"
)

type app struct {
	viper   *viper.Viper
	cfgFile string
	cfg     config
	logger  log.Logger

	// promptDriver replaces the survey driver in tests.
	promptDriver tui.PromptDriver
}

func newApp() *app {
	return &app{viper: viper.New()}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "modelform",
		Short:         "Derive HTML forms from model definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file")
	flags.StringP("models", "m", "", "model definitions (YAML or OpenAPI document)")
	flags.String("format", "", "model document format (yaml, openapi); detected when empty")
	flags.String("preset", "", "YAML preset applied to every derived form")
	flags.Bool("debug", false, "enable development logging")

	root.AddCommand(a.renderCommand(), a.promptCommand(), a.serveCommand())
	return root
}

func (a *app) initialize(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.viper, cmd.Flags(), a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		zapLogger, err := newZapLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		a.logger = log.NewZapLogger(zapLogger)
	}
	if a.cfgFile != "" {
		a.logger.Info("using config file", "file", a.viper.ConfigFileUsed())
	}
	return nil
}

func newZapLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// orchestrator loads the model catalog and preset named by the config and
// registers the given renderers.
func (a *app) orchestrator(ctx context.Context, renderers ...render.Renderer) (*orchestrator.Orchestrator, error) {
	raw, err := os.ReadFile(a.cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("read models: %w", err)
	}

	registry, err := render.NewRegistry(renderers...)
	if err != nil {
		return nil, err
	}
	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	}
	if a.cfg.Preset != "" {
		data, err := os.ReadFile(a.cfg.Preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}

	orch := orchestrator.New(options...)
	catalog, err := orch.LoadCatalog(ctx, raw, a.cfg.Format)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(append(options, orchestrator.WithCatalog(catalog))...), nil
}

func (a *app) renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a model form as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.requireModel(); err != nil {
				return err
			}
			forms, err := vanilla.New()
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(cmd.Context(), forms)
			if err != nil {
				return err
			}

			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				ModelName:     a.cfg.Model,
				Fields:        a.cfg.Fields,
				Renderer:      a.cfg.Renderer,
				RenderOptions: render.RenderOptions{Action: a.cfg.Action},
			})
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}

	flags := cmd.Flags()
	flags.String("model", "", "model to derive the form from")
	flags.StringSlice("fields", nil, "fields to include, in model order (all when empty)")
	flags.String("renderer", "vanilla", "renderer to use")
	flags.StringP("output", "o", "", "output file (stdout if empty)")
	flags.String("action", "", "form action URL")
	return cmd
}

func (a *app) promptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Collect a model form's values in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.requireModel(); err != nil {
				return err
			}
			driver := a.promptDriver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			prompts, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(a.cfg.PromptFormat)),
			)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(cmd.Context(), prompts)
			if err != nil {
				return err
			}

			out, err := orch.Generate(cmd.Context(), orchestrator.Request{
				ModelName: a.cfg.Model,
				Fields:    a.cfg.Fields,
				Renderer:  prompts.Name(),
			})
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), out)
		},
	}

	flags := cmd.Flags()
	flags.String("model", "", "model to derive the form from")
	flags.StringSlice("fields", nil, "fields to include, in model order (all when empty)")
	flags.String("prompt-format", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	flags.StringP("output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) write(stdout io.Writer, out []byte) error {
	if a.cfg.Output == "" {
		_, err := fmt.Fprintln(stdout, string(out))
		return err
	}
	if err := os.WriteFile(a.cfg.Output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("form written", "file", a.cfg.Output)
	return nil
}
