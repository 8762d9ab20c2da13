package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variables prefixed with "MODELFORM_" override flags, e.g.
// "MODELFORM_MODELS" or "MODELFORM_READ_TIMEOUT".
const envVarPrefix = "modelform"

type config struct {
	Models         string        `mapstructure:"models"`
	Format         string        `mapstructure:"format"`
	Model          string        `mapstructure:"model"`
	Fields         []string      `mapstructure:"fields"`
	Preset         string        `mapstructure:"preset"`
	Debug          bool          `mapstructure:"debug"`
	Renderer       string        `mapstructure:"renderer"`
	Output         string        `mapstructure:"output"`
	Action         string        `mapstructure:"action"`
	PromptFormat   string        `mapstructure:"prompt-format"`
	Database       string        `mapstructure:"database"`
	Templates      string        `mapstructure:"templates"`
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read-timeout"`
	RequestLogging bool          `mapstructure:"request-logging"`
}

// loadConfig merges flags, MODELFORM_* environment variables and the optional
// config file, in that order of precedence.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, cfgFile string) (config, error) {
	var bindErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(flag.Name, flag)
	})
	if bindErr != nil {
		return config{}, fmt.Errorf("bind flags: %w", bindErr)
	}

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	var cfg config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Fields = splitFields(cfg.Fields)
	return cfg, nil
}

// splitFields accepts both repeated and comma separated field names.
func splitFields(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c config) requireModels() error {
	if strings.TrimSpace(c.Models) == "" {
		return errors.New("--models is required")
	}
	return nil
}

func (c config) requireModel() error {
	if err := c.requireModels(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("--model is required")
	}
	return nil
}
