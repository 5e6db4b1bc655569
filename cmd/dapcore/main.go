// Command dapcore launches one debug adapter over stdio, attaches the
// debugger core to it, and prints a tree dump of the live entity graph
// every time the debuggee stops. It exists to demonstrate wiring the four
// components together, not as a full CLI front end (adapter process
// spawning and editor integration are out of scope).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"time"

	dapcore "github.com/dshills/dapcore"
	"github.com/dshills/dapcore/internal/dap"
	"github.com/dshills/dapcore/internal/dapconfig"
	"github.com/dshills/dapcore/internal/diag"
	"github.com/dshills/dapcore/internal/log"
	"github.com/dshills/dapcore/internal/uri"
)

func main() {
	adapterCmd := flag.String("adapter", "", "debug adapter command to launch over stdio")
	program := flag.String("program", "", "program argument passed through in the launch configuration")
	flag.Parse()

	if *adapterCmd == "" {
		fmt.Fprintln(os.Stderr, "usage: dapcore -adapter <command> -program <path>")
		os.Exit(2)
	}

	logger := log.New(log.DefaultConfig())
	cfg, err := dapconfig.FromEnv("DAPCORE_")
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := exec.CommandContext(ctx, *adapterCmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		logger.Error("open adapter stdin", "error", err)
		os.Exit(1)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logger.Error("open adapter stdout", "error", err)
		os.Exit(1)
	}
	if err := cmd.Start(); err != nil {
		logger.Error("start adapter", "error", err)
		os.Exit(1)
	}

	transport := dap.NewStdioTransport(stdin, stdout).WithMaxContentLength(cfg.MaxFrameBytes)
	debugger := dapcore.New(ctx, logger)

	launchArgs, _ := json.Marshal(map[string]any{"program": *program})

	mgr, err := debugger.Launch(ctx, transport, "dapcore", launchArgs)
	if err != nil {
		logger.Error("launch", "error", err)
		os.Exit(1)
	}

	focus := &uri.Focus{}
	sub := debugger.Subscribe(focus, "sessions/threads/stacks", func(refs []uri.Ref) {
		if len(refs) == 0 {
			return
		}
		fmt.Println(diag.DumpGraph(debugger.Graph()))
	})
	defer sub.Unsubscribe()

	_ = cfg.AsyncWorkers

	<-ctx.Done()
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	debugger.Close(closeCtx)
	_ = mgr
}
