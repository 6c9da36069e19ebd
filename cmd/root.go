/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tschaefer/flowconsole/internal/buffer"
	"github.com/tschaefer/flowconsole/internal/config"
	"github.com/tschaefer/flowconsole/internal/logger"
	"github.com/tschaefer/flowconsole/internal/storage"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flowconsole",
	Short: "Console for the traffic inspection appliance",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file")

	flags.String("log.level", "info", fmt.Sprintf("Log level (%s)", strings.Join(logger.Levels, ", ")))
	_ = rootCmd.RegisterFlagCompletionFunc("log.level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return logger.Levels, cobra.ShellCompDirectiveNoFileComp
	})
	flags.String("log.format", "json", fmt.Sprintf("Log format (%s)", strings.Join(logger.Formats, ", ")))
	flags.String("log.file", "", "Write logs to file instead of stderr")

	flags.String("backend.address", "http://localhost:8080", "Appliance backend address")

	flags.String("store.backend", "file", fmt.Sprintf("Durable store backend (%s)", strings.Join(storage.Backends, ", ")))
	_ = rootCmd.RegisterFlagCompletionFunc("store.backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return storage.Backends, cobra.ShellCompDirectiveNoFileComp
	})
	flags.String("store.path", "", "Store directory (file) or database path (sqlite)")
	flags.Int("buffer.cap", buffer.DefaultCap, "Maximum number of buffered events")

	_ = viper.BindPFlags(flags)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(setsCmd)
}

func initConfig() {
	if err := config.InitConfig(cfgFile); err != nil {
		cobra.CheckErr(err)
	}
}
