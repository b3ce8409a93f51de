package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/macrokit/macrocli/cli"
	"github.com/macrokit/macrocli/codegen"
	"github.com/macrokit/macrocli/commands"
	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/desktop"
	"github.com/macrokit/macrocli/recorder"
	"github.com/macrokit/macrocli/replay"
	"github.com/macrokit/macrocli/server"
	"github.com/macrokit/macrocli/types"
)

func main() {
	settings := config.Load(config.DefaultPath())

	// recorded events and state changes go to the interactive CLI and to
	// subscribed WebSocket clients
	rec := recorder.New(settings, desktop.NewBackend(), desktop.NewHookSource(), recorder.Callbacks{
		OnEvent: func(ev *types.RecordedEvent) {
			server.PublishEvent(ev)
			cli.NotifyEvent(ev)
		},
		OnStateChange: func(state types.RecordingState) {
			server.PublishState(state)
		},
		OnStopHotkey: cli.NotifyStopHotkey,
	})
	rec.SetOwnWindowSupplier(desktop.OwnWindow)

	replayer := replay.NewManager(settings.Replay.AhkExePath, func(runID string, status replay.Status, message string) {
		server.PublishReplayStatus(runID, string(status), message)
	})

	commands.SetService(&commands.Service{
		Settings:  settings,
		Recorder:  rec,
		Store:     recorder.NewStore(),
		Generator: codegen.New(settings),
		Replayer:  replayer,
	})
	server.SetVersion(cli.GetVersion())

	// setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute()
	}()

	// wait for command completion or signal
	select {
	case <-sigChan:
		// let an interactive recording flush its output, then release hooks
		cli.Interrupt()
		rec.Stop()
		replayer.Stop()
		os.Exit(0)
	case err := <-done:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
