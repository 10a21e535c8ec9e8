package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"drlint/internal/driver"
	"drlint/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides on the progress view; it renders on stderr.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	switch {
	case mode == uiModeOn:
		return true
	case mode == uiModeOff, quiet:
		return false
	}
	return isTerminal(os.Stderr)
}

type outcome[T any] struct {
	result T
	err    error
}

// runWithUI runs work in the background and renders its progress events
// until work returns.
func runWithUI[T any](title string, work func(driver.ProgressSink) (T, error)) (T, error) {
	events := make(chan driver.Event, 256)
	done := make(chan outcome[T], 1)

	go func() {
		res, err := work(driver.ChannelSink{Ch: events})
		close(events)
		done <- outcome[T]{result: res, err: err}
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, nil, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may quit early (ctrl+c); keep the producer unblocked
	go func() {
		for range events {
		}
	}()
	out := <-done
	if uiErr != nil && out.err == nil {
		return out.result, uiErr
	}
	return out.result, out.err
}
