package cmd

import (
	"os"

	"github.com/glint-player/glint/config"
	"github.com/glint-player/glint/style"
	"github.com/glint-player/glint/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables glint reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := lo.Map(lo.Values(config.Default), func(f config.Field, _ int) string {
			return f.Env()
		})
		names = append(names, where.EnvConfigPath)
		slices.Sort(names)

		for _, env := range names {
			value, present := os.LookupEnv(env)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(style.Mauve).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(style.Green)(value))
			} else {
				cmd.Println(style.Fg(style.Red)("unset"))
			}
		}
	},
}
