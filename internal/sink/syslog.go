/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sink

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	slogsyslog "github.com/samber/slog-syslog/v2"
)

const (
	syslogDefaultPort = "514"
	syslogDialTimeout = 5 * time.Second
)

var SyslogProtocols = []string{"udp", "tcp", "unix", "unixgram"}

type Syslog struct {
	Enable  bool
	Address string
}

// network splits the address into a dial network and target. Network
// addresses without a port get the syslog port.
func (s *Syslog) network() (string, string, error) {
	uri, err := url.Parse(s.Address)
	if err != nil {
		return "", "", err
	}
	if !slices.Contains(SyslogProtocols, uri.Scheme) {
		return "", "", fmt.Errorf("invalid syslog protocol: %q", uri.Scheme)
	}

	if strings.HasPrefix(uri.Scheme, "unix") {
		return uri.Scheme, uri.Path, nil
	}
	if uri.Port() == "" {
		return uri.Scheme, net.JoinHostPort(uri.Hostname(), syslogDefaultPort), nil
	}
	return uri.Scheme, uri.Host, nil
}

func (s *Syslog) TargetSyslog(options *slog.HandlerOptions) (slog.Handler, error) {
	slog.Debug("Initializing syslog sink.", "address", s.Address)

	network, address, err := s.network()
	if err != nil {
		return nil, err
	}

	writer, err := net.DialTimeout(network, address, syslogDialTimeout)
	if err != nil {
		return nil, err
	}

	slogsyslog.ContextKey = "flow"
	o := &slogsyslog.Option{
		Writer: writer,
		Level:  options.Level,
	}
	return o.NewSyslogHandler(), nil
}
