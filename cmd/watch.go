/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tschaefer/flowconsole/internal/console"
	"github.com/tschaefer/flowconsole/internal/event"
	"github.com/tschaefer/flowconsole/internal/filter"
	"github.com/tschaefer/flowconsole/internal/profiler"
	"github.com/tschaefer/flowconsole/internal/shortcut"
	"github.com/tschaefer/flowconsole/internal/sink"
	"github.com/tschaefer/flowconsole/internal/sorter"
	"github.com/tschaefer/flowconsole/internal/transport"
	"github.com/tschaefer/flowconsole/internal/view"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the live event stream",
	Run: func(cmd *cobra.Command, args []string) {
		state, err := sorter.ParseState(viper.GetString("sort"))
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Invalid sort: %v", err))
		}

		interactive := !plainMode()
		if interactive && viper.GetString("log.file") == "" {
			viper.Set("log.file", defaultLogFile())
		}

		l, closeLog := newLogger()
		defer closeLog()

		if address := viper.GetString("profiler.address"); address != "" {
			p := profiler.NewProfiler(address)
			if err := p.Start(); err != nil {
				cobra.CheckErr(fmt.Sprintf("Failed to start profiler: %v", err))
			}
			defer func() {
				_ = p.Stop()
			}()
		}

		c, closeConsole := newConsole(l, true)
		defer closeConsole()
		c.FlushInterval = viper.GetDuration("persist.interval")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stream, err := openStream(ctx)
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Failed to open event stream: %v", err))
		}

		var tranquil bool
		if interactive {
			model := view.NewModel(viper.GetString("filter"), state, viper.GetInt("limit"))
			tranquil = watchInteractive(ctx, stop, c, stream, model)
		} else {
			tranquil = watchPlain(ctx, c, stream, viper.GetString("filter"))
		}
		if !tranquil {
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)

	flags := watchCmd.Flags()
	flags.String("stream.url", "", "Event stream URL (defaults to the backend event endpoint)")
	flags.String("stream.file", "", "Follow events appended to a file")
	_ = watchCmd.RegisterFlagCompletionFunc("stream.file", cobra.FixedCompletions(nil, cobra.ShellCompDirectiveDefault))
	flags.Bool("stream.from-start", false, "Read the followed file from its beginning")
	flags.Bool("stream.stdin", false, "Read events from standard input")

	flags.String("filter", "", "Initial filter query (terms joined by +)")
	flags.String("sort", "", fmt.Sprintf("Initial sort as column[:asc|desc] (%s)", strings.Join(view.Columns, ", ")))
	_ = watchCmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return view.Columns, cobra.ShellCompDirectiveNoFileComp
	})
	flags.Int("limit", 0, "Show at most this many rows (0 for all)")
	flags.Bool("plain", false, "Print matching events line by line instead of the interactive view")
	flags.Duration("persist.interval", 0, "Coalesce buffer persistence to this interval (0 persists every change)")

	flags.String("profiler.address", "", "Push continuous profiles to this pyroscope server")

	flags.String("geoip.database", "", "Path to GeoIP database")
	_ = watchCmd.RegisterFlagCompletionFunc("geoip.database", cobra.FixedCompletions(nil, cobra.ShellCompDirectiveDefault))

	flags.Bool("sink.journal.enable", false, "Enable journald sink")
	flags.Bool("sink.syslog.enable", false, "Enable syslog sink")
	flags.String("sink.syslog.address", "udp://localhost:514", "Syslog address")

	flags.Bool("sink.loki.enable", false, "Enable Loki sink")
	flags.String("sink.loki.address", "http://localhost:3100", "Loki address")
	flags.StringSlice("sink.loki.labels", nil, "Additional labels for Loki sink in key=value format")

	flags.Bool("sink.stream.enable", false, "Enable stream sink")
	flags.String("sink.stream.writer", "stdout", fmt.Sprintf("Stream writer (%s, file:<path>)", strings.Join(sink.StreamWriters, ", ")))
	_ = watchCmd.RegisterFlagCompletionFunc("sink.stream.writer", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return sink.StreamWriters, cobra.ShellCompDirectiveNoFileComp
	})

	flags.Bool("sink.targets-only", false, "Forward only target hits to the sinks")

	_ = viper.BindPFlags(flags)
}

// openStream picks the event source: a followed file, standard input or
// the backend websocket.
func openStream(ctx context.Context) (transport.Stream, error) {
	if path := viper.GetString("stream.file"); path != "" {
		s, err := transport.Follow(path, viper.GetBool("stream.from-start"))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if viper.GetBool("stream.stdin") {
		return transport.FromReader(os.Stdin), nil
	}

	url := viper.GetString("stream.url")
	if url == "" {
		url = newClient().StreamURL()
	}
	s, err := transport.DialWebSocket(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// plainMode reports whether the interactive view cannot be used.
func plainMode() bool {
	if viper.GetBool("plain") || viper.GetBool("stream.stdin") {
		return true
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// defaultLogFile keeps logs off the terminal area, next to the store.
func defaultLogFile() string {
	dir := viper.GetString("store.path")
	if filepath.Ext(dir) != "" {
		dir = filepath.Dir(dir)
	}
	_ = os.MkdirAll(dir, 0o700)
	return filepath.Join(dir, "watch.log")
}

func watchPlain(ctx context.Context, c *console.Console, stream transport.Stream, query string) bool {
	match := filter.Compile(filter.ParseQuery(query))

	failed := false
	h := c.Handler()
	admit, fail := h.OnLine, h.OnError
	h.OnLine = func(line string) {
		admit(line)
		if rec, ok := event.Parse(line); ok && match(rec) {
			fmt.Println(rec.Raw)
		}
	}
	h.OnError = func(err error) {
		fail(err)
		failed = true
		pterm.Error.Println(err)
	}

	transport.Consume(ctx, stream, h)
	c.Flush()
	return !failed
}

func watchInteractive(ctx context.Context, stop context.CancelFunc, c *console.Console, stream transport.Stream, model *view.Model) bool {
	area, err := pterm.DefaultArea.WithRemoveWhenDone(false).Start()
	if err != nil {
		cobra.CheckErr(fmt.Sprintf("Failed to start terminal area: %v", err))
	}
	defer func() {
		_ = area.Stop()
	}()

	c.OnChange = func(s console.Snapshot) {
		out, err := model.Render(s)
		if err != nil {
			c.Logger.Error("Failed to render view.", "error", err)
			return
		}
		area.Update(out)
	}

	go func() {
		err := keyboard.Listen(func(key keys.Key) (bool, error) {
			quit := make(chan bool, 1)
			c.Do(ctx, func() {
				quit <- apply(c, model, decodeKey(key))
			})
			select {
			case q := <-quit:
				if q {
					stop()
				}
				return q, nil
			case <-ctx.Done():
				return true, nil
			}
		})
		if err != nil {
			c.Logger.Error("Keyboard listener failed.", "error", err)
			stop()
		}
	}()

	return c.Run(ctx, stream)
}

// apply carries out a key on the console and reports whether to quit.
func apply(c *console.Console, model *view.Model, k view.Key) bool {
	switch model.HandleKey(k) {
	case shortcut.ActionQuit:
		return true
	case shortcut.ActionClear:
		c.Clear()
	case shortcut.ActionTogglePause:
		c.TogglePause()
	default:
		c.Refresh()
	}
	return false
}

func decodeKey(key keys.Key) view.Key {
	switch key.Code {
	case keys.CtrlC:
		return view.Key{Interrupt: true}
	case keys.Enter:
		return view.Key{Enter: true}
	case keys.Escape:
		return view.Key{Escape: true}
	case keys.Backspace:
		return view.Key{Backspace: true}
	case keys.Space:
		return view.Key{Rune: ' '}
	case keys.RuneKey:
		if len(key.Runes) > 0 {
			return view.Key{Rune: key.Runes[0]}
		}
	}
	return view.Key{}
}
