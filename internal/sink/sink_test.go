/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sink

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(f func()) string {
	originalStderr := os.Stderr

	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	_ = w.Close()
	os.Stderr = originalStderr

	var buf = make([]byte, 5096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func fork(testName string) (string, string, error) {
	cmd := exec.Command(os.Args[0], fmt.Sprintf("-test.run=%v", testName))
	cmd.Env = append(os.Environ(), "FORK=1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}

func newReturnsError_NoTargetsEnabled(t *testing.T) {
	config := &Config{
		Journal: Journal{Enable: false},
		Syslog:  Syslog{Enable: false},
		Loki:    Loki{Enable: false},
		Stream:  Stream{Enable: false},
	}

	sink, err := NewSink(config)

	assert.Nil(t, sink)
	assert.NotNil(t, err)
	assert.EqualError(t, err, "no target sink available")
}

func newReturnsSink_TargetsEnabled(t *testing.T) {
	config := &Config{
		Journal: Journal{Enable: false},
		Syslog:  Syslog{Enable: false},
		Loki:    Loki{Enable: false},
		Stream:  Stream{Enable: true, Writer: "discard"},
	}

	sink, err := NewSink(config)
	assert.NotNil(t, sink)
	assert.Nil(t, err)
	assert.IsType(t, &Sink{}, sink)
}

func newPrintsWarning_TargetInitFails(t *testing.T) {
	config := &Config{
		Journal: Journal{Enable: false},
		Syslog:  Syslog{Enable: false},
		Loki:    Loki{Enable: true, Address: "://invalid-address"},
		Stream:  Stream{Enable: true, Writer: "discard"},
	}
	warning := capture(func() {
		_, _ = NewSink(config)
	})
	assert.Contains(t, warning, "Warning: Failed to initialize sink \"loki\"")
}

func configEnabledReportsTargets(t *testing.T) {
	assert.False(t, (&Config{}).Enabled())
	assert.True(t, (&Config{Stream: Stream{Enable: true}}).Enabled())
	assert.True(t, (&Config{Loki: Loki{Enable: true}}).Enabled())
}

func newFansOutToAllTargets(t *testing.T) {
	dir := t.TempDir()
	config := &Config{
		Syslog: Syslog{Enable: true, Address: "udp://localhost:514"},
		Stream: Stream{Enable: true, Writer: "file:" + filepath.Join(dir, "events.jsonl")},
	}

	sink, err := NewSink(config)
	require.NoError(t, err)
	sink.Logger.Info("target UDP ads.example.com", "prot", "UDP", "target", true)

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"target UDP ads.example.com"`)
	assert.Contains(t, string(data), `"target":true`)
}

func newForwardsOnlyTargetHits(t *testing.T) {
	dir := t.TempDir()
	config := &Config{
		Stream:      Stream{Enable: true, Writer: "file:" + filepath.Join(dir, "events.jsonl")},
		TargetsOnly: true,
	}

	sink, err := NewSink(config)
	require.NoError(t, err)
	sink.Logger.Info("allowed TCP example.com", "prot", "TCP", "target", false)
	sink.Logger.Info("target UDP ads.example.com", "prot", "UDP", "target", true)
	sink.Logger.Info("untagged record")

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"target UDP ads.example.com"`)
	assert.NotContains(t, string(data), "allowed TCP example.com")
	assert.NotContains(t, string(data), "untagged record")
}

func TestSink(t *testing.T) {
	t.Run("Config.Enabled reports enabled targets", configEnabledReportsTargets)
	t.Run("NewSink returns error if no targets are enabled", newReturnsError_NoTargetsEnabled)
	t.Run("NewSink returns sink if targets enabled", newReturnsSink_TargetsEnabled)
	t.Run("NewSink prints warning if target init fails", newPrintsWarning_TargetInitFails)
	t.Run("NewSink fans out to all targets", newFansOutToAllTargets)
	t.Run("NewSink forwards only target hits", newForwardsOnlyTargetHits)
}

func Test_NewExits_EnvVarSet(t *testing.T) {
	if os.Getenv("FORK") == "1" {
		config := &Config{
			Journal: Journal{Enable: false},
			Syslog:  Syslog{Enable: false},
			Loki:    Loki{Enable: true, Address: "://invalid-address"},
			Stream:  Stream{Enable: false},
		}

		_ = os.Setenv(ExitOnWarningEnv, "1")
		_, _ = NewSink(config)
	}

	stdout, stderr, err := fork("Test_NewExits_EnvVarSet")

	assert.Equal(t, "exit status 1", err.Error())
	assert.Contains(t, stderr, "Warning: Failed to initialize sink \"loki\": parse \"://invalid-address\": missing protocol scheme\n")
	assert.NotContains(t, stdout, "FAIL")
}
