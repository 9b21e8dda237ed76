package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/config"
	"gitship/internal/gitexec"
	"gitship/internal/orchestrator"
	"gitship/internal/trace"
	"gitship/internal/ui"
)

func main() {
	stateDir := flag.String("state-dir", "", "state directory (default: $GITSHIP_STATE_DIR or ~/.gitship)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gitship [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Terminal dashboard for pulling, pushing and merging the test and\n")
		fmt.Fprintf(os.Stderr, "deploy checkouts of your projects, locally or over ssh.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*stateDir); err != nil {
		fmt.Fprintf(os.Stderr, "gitship: %v\n", err)
		os.Exit(1)
	}
}

func run(stateDir string) error {
	if stateDir == "" {
		var err error
		stateDir, err = config.ResolveStateDir()
		if err != nil {
			return fmt.Errorf("resolve state dir: %w", err)
		}
	}

	store := config.NewStore(stateDir)
	settings, err := config.LoadSettings(stateDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	client := gitexec.New(settings.Tools)
	orch := orchestrator.New(client, store, settings)
	if err := orch.Load(); err != nil {
		return err
	}

	// Trace export stays off unless OTEL_EXPORTER_OTLP_ENDPOINT is set.
	exporter, err := trace.NewOTLPExporter(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitship: trace export disabled: %v\n", err)
	} else {
		orch.SetExporter(exporter)
		defer exporter.Shutdown(context.Background())
	}

	p := tea.NewProgram(ui.NewAppModel(orch).AsTeaModel(), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
