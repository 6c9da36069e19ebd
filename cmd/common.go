/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tschaefer/flowconsole/internal/api"
	"github.com/tschaefer/flowconsole/internal/buffer"
	"github.com/tschaefer/flowconsole/internal/console"
	"github.com/tschaefer/flowconsole/internal/geoip"
	"github.com/tschaefer/flowconsole/internal/logger"
	"github.com/tschaefer/flowconsole/internal/sink"
	"github.com/tschaefer/flowconsole/internal/storage"
)

// newLogger opens the configured log destination. The returned closer must
// be called on exit.
func newLogger() (*logger.Logger, func()) {
	var w io.Writer
	closer := func() {}

	if path := viper.GetString("log.file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to open log file: %v", err))
		}
		w = f
		closer = func() {
			_ = f.Close()
		}
	}

	l, err := logger.NewLogger(viper.GetString("log.level"), viper.GetString("log.format"), w)
	if err != nil {
		cobra.CheckErr(fmt.Sprintf("Failed to create logger: %v", err))
	}
	return l, closer
}

// storeConfig resolves the store location. A sqlite path without a file
// extension names the directory holding the database.
func storeConfig() *storage.Config {
	c := &storage.Config{
		Backend: viper.GetString("store.backend"),
		Path:    viper.GetString("store.path"),
	}
	if c.Backend == "sqlite" && filepath.Ext(c.Path) == "" {
		if err := os.MkdirAll(c.Path, 0o700); err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to create store directory: %v", err))
		}
		c.Path = filepath.Join(c.Path, "flowconsole.db")
	}
	return c
}

func openStore() storage.Store {
	s, err := storage.NewStore(storeConfig())
	if err != nil {
		cobra.CheckErr(fmt.Sprintf("Failed to open store: %v", err))
	}
	return s
}

func sinkConfig() *sink.Config {
	return &sink.Config{
		Journal: sink.Journal{Enable: viper.GetBool("sink.journal.enable")},
		Syslog: sink.Syslog{
			Enable:  viper.GetBool("sink.syslog.enable"),
			Address: viper.GetString("sink.syslog.address"),
		},
		Loki: sink.Loki{
			Enable:  viper.GetBool("sink.loki.enable"),
			Address: viper.GetString("sink.loki.address"),
			Labels:  viper.GetStringSlice("sink.loki.labels"),
		},
		Stream: sink.Stream{
			Enable: viper.GetBool("sink.stream.enable"),
			Writer: viper.GetString("sink.stream.writer"),
		},
		TargetsOnly: viper.GetBool("sink.targets-only"),
	}
}

// newConsole builds a console over the durable store, optionally with
// event sinks and GeoIP enrichment. The returned closer releases them.
func newConsole(l *logger.Logger, withSinks bool) (*console.Console, func()) {
	store := openStore()
	closers := []func(){func() { _ = store.Close() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var g *geoip.Reader
	var s *sink.Sink
	if withSinks {
		if path := viper.GetString("geoip.database"); path != "" {
			var err error
			g, err = geoip.Open(path)
			if err != nil {
				closeAll()
				cobra.CheckErr(fmt.Sprintf("Failed to open geoip database: %v", err))
			}
			closers = append(closers, func() { _ = g.Close() })
		}

		if cfg := sinkConfig(); cfg.Enabled() {
			var err error
			s, err = sink.NewSink(cfg)
			if err != nil {
				closeAll()
				cobra.CheckErr(fmt.Sprintf("failed to initialize sink: %v", err))
			}
		}
	}

	capacity := viper.GetInt("buffer.cap")
	persister := buffer.NewPersister(store, capacity)
	c, err := console.NewConsole(l, persister, capacity, g, s)
	if err != nil {
		closeAll()
		cobra.CheckErr(err)
	}
	return c, closeAll
}

func newClient() *api.Client {
	c, err := api.NewClient(viper.GetString("backend.address"))
	if err != nil {
		cobra.CheckErr(fmt.Sprintf("Invalid backend address: %v", err))
	}
	return c
}
