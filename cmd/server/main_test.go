package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/baditaflorin/go_string_processor/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestFlagDefaultsMatchConfig(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		json bool
		port int
	}{
		{name: "defaults", args: nil, json: false, port: 8080},
		{name: "log json flag", args: []string{"--log-json"}, json: true, port: 8080},
		{name: "port flag", args: []string{"--port", "9191"}, json: false, port: 9191},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := config.NewViper()
			flags, configPath, err := newFlagSet(v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := flags.Lookup("log-json").DefValue; got != "false" {
				t.Errorf("expected --log-json to default to false, got %s", got)
			}
			if err := flags.Parse(tc.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			loaded, err := config.Load(v, *configPath)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if loaded.Config.Logging.JSON != tc.json {
				t.Errorf("expected json=%v, got %v", tc.json, loaded.Config.Logging.JSON)
			}
			if loaded.Config.Server.Port != tc.port {
				t.Errorf("expected port %d, got %d", tc.port, loaded.Config.Server.Port)
			}
		})
	}
}

func TestRunFlushesLogOnListenError(t *testing.T) {
	isolate(t)

	busy, err := net.Listen("tcp4", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()
	port := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

	logFile := filepath.Join(t.TempDir(), "server.log")
	err = run(context.Background(), []string{"--port", port, "--log-file", logFile, "--log-json"})
	if err == nil {
		t.Fatal("expected error for a port already in use")
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Failed to listen") {
		t.Errorf("expected the failure to be logged before exit, got:\n%s", data)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	isolate(t)

	logFile := filepath.Join(t.TempDir(), "server.log")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"--port", "0", "--log-file", logFile})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Server stopped") {
		t.Errorf("expected shutdown to be logged, got:\n%s", data)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	isolate(t)

	if err := run(context.Background(), []string{"--port", "not-a-number"}); err == nil {
		t.Error("expected error for invalid --port")
	}
	if err := run(context.Background(), []string{"--config", "absent.yaml"}); err == nil {
		t.Error("expected error for missing config file")
	}
}
