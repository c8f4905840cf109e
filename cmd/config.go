package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/glint-player/glint/config"
	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/icon"
	"github.com/glint-player/glint/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(style.Red)(key),
		style.Fg(style.Yellow)(closest),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func lookupField(key string) config.Field {
	field, ok := config.Default[key]
	if !ok {
		handleErr(errUnknownKey(key))
	}
	return field
}

func persist() {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = viper.WriteConfigAs(config.Path())
	}
	handleErr(err)
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			fields = lo.Values(config.Default)
		)

		if len(keys) > 0 {
			fields = lo.Map(keys, func(key string, _ int) config.Field {
				return lookupField(key)
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())

			if i < len(fields)-1 {
				cmd.Println()
				cmd.Println()
			}
		}
		cmd.Println()
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value...>",
	Short:             "Change a setting and save it",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(args[0])

		v, err := field.Parse(args[1:])
		handleErr(err)

		viper.Set(field.Key, v)
		persist()

		cmd.Printf(
			"%s set %s to %s\n",
			style.Fg(style.Green)(icon.Get(icon.Success)),
			style.Fg(style.Mauve)(field.Key),
			style.Fg(style.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(args[0])
		cmd.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists := lo.Must(filesystem.API().Exists(config.Path())); exists {
				handleErr(filesystem.API().Remove(config.Path()))
			}
		}

		handleErr(viper.SafeWriteConfigAs(config.Path()))
		cmd.Printf(
			"%s wrote config to %s\n",
			style.Fg(style.Green)(icon.Get(icon.Success)),
			config.Path(),
		)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(config.Path()))
		cmd.Printf("%s deleted config\n", style.Fg(style.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Setting to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every setting")
	configResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their defaults",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			key = lo.Must(cmd.Flags().GetString("key"))
			all = lo.Must(cmd.Flags().GetBool("all"))
			yes = lo.Must(cmd.Flags().GetBool("yes"))
		)

		if !all {
			field := lookupField(key)
			viper.Set(field.Key, field.Value)
			persist()
			cmd.Printf(
				"%s reset %s to %s\n",
				style.Fg(style.Green)(icon.Get(icon.Success)),
				style.Fg(style.Mauve)(field.Key),
				style.Fg(style.Yellow)(fmt.Sprintf("%v", field.Value)),
			)
			return
		}

		if !yes {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Reset every setting to its default?",
				Default: false,
			}, &confirmed))
			if !confirmed {
				return
			}
		}

		for key, field := range config.Default {
			viper.Set(key, field.Value)
		}
		persist()
		cmd.Printf("%s reset all config values\n", style.Fg(style.Green)(icon.Get(icon.Success)))
	},
}
