package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/opendoor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate, print and explain configuration",
}

func init() {
	rootCmd.AddCommand(configCmd)

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
			return nil
		},
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigPrint,
	}
	printCmd.Flags().Bool("defaults", false, "Print built-in defaults (no files)")

	explain := &cobra.Command{
		Use:   "explain <yaml.path>",
		Short: "Show a config value and where it was set",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigExplain,
	}

	configCmd.AddCommand(validate, printCmd, explain)
}

func runConfigPrint(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
		res, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = res.Config
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigExplain(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	value, src, err := config.Explain(res, args[0])
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path: %s\n", args[0])
	fmt.Fprintf(out, "source: %s\n", formatSource(src))
	fmt.Fprintf(out, "value:\n%s", string(data))
	return nil
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
