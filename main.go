package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"overpass/internal/api"
	"overpass/internal/backend"
	"overpass/internal/config"
	"overpass/internal/eventbus"
	"overpass/internal/logger"
	"overpass/internal/search"
	"overpass/internal/ui"
	"overpass/internal/ui/state"
)

const usage = `overpass - terminal client for a tasking opportunity search API

Usage: overpass [backend|frontend|--help]

  backend    run only the demo opportunities API
  frontend   run only the terminal UI (expects a reachable API)
  (no arg)   run both side by side
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches on the single positional argument and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "--help", "-h", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "backend":
		return runBackend()
	case "frontend":
		return runFrontend("")
	case "":
		return runBoth()
	default:
		fmt.Fprintf(stderr, "unknown argument %q\n\n%s", mode, usage)
		return 2
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// runBackend runs the demo opportunities API in the foreground.
func runBackend() int {
	cfg := backend.FromEnv()
	log := logger.Get(cfg.LogLevel)

	ctx, cancel := signalContext()
	defer cancel()

	srv := backend.NewServer(cfg, log)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()

	select {
	case err := <-errChan:
		if err != nil {
			log.Errorw("backend failed", "err", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("shutdown failed", "err", err)
			return 1
		}
	}
	return 0
}

// runFrontend runs the terminal UI. baseURL, when non-empty, overrides the
// configured API location (used when the backend runs in-process).
func runFrontend(baseURL string) int {
	// The UI owns the terminal, so logs go to a file
	log := logger.GetFile(logger.InfoLevel, "overpass.log")

	ctx, cancel := signalContext()
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Warnw("config load failed, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	if baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	client := api.New(cfg.APIBaseURL, cfg.APIToken, nil)
	svc := search.NewService(bus, client)

	appState := state.NewAppState(time.Now(), cfg.WindowDays)
	uiModel := ui.NewModel(bus, cfg, appState)

	p := tea.NewProgram(uiModel, tea.WithAltScreen())

	// Forward domain events into the Bubble Tea loop
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warnw("event channel full, dropping event", "type", e.Type())
		}
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventSearchStarted,
		eventbus.EventOpportunitiesUpdated,
		eventbus.EventSearchFailed,
		eventbus.EventProductsUpdated,
		eventbus.EventProductsFailed,
		eventbus.EventError,
	} {
		bus.Subscribe(et, forward)
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Kicks off the one-shot products fetch and listens for search requests
	svc.Start(ctx)

	log.Infow("starting UI", "api", cfg.APIBaseURL)
	_, runErr := p.Run()

	// Stop the dispatcher before closing the channel its handlers feed
	bus.Close()
	close(eventChan)

	if runErr != nil {
		log.Errorw("UI failed", "err", runErr)
		fmt.Fprintf(os.Stderr, "error running program: %v\n", runErr)
		return 1
	}
	return 0
}

// runBoth starts the backend in-process and the UI against it.
func runBoth() int {
	log := logger.GetFile(logger.InfoLevel, "overpass.log")

	cfg := backend.FromEnv()
	srv := backend.NewServer(cfg, log)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()

	baseURL := baseURLFor(cfg.Addr)
	if err := waitReady(baseURL, errChan); err != nil {
		log.Errorw("backend did not come up", "err", err)
		fmt.Fprintf(os.Stderr, "backend did not come up: %v\n", err)
		return 1
	}

	code := runFrontend(baseURL)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("backend shutdown failed", "err", err)
	}
	return code
}

// baseURLFor turns a listen address into a client base URL.
func baseURLFor(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// waitReady polls the health endpoint until the backend answers.
func waitReady(baseURL string, errChan <-chan error) error {
	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		select {
		case err := <-errChan:
			if err != nil {
				return err
			}
			return fmt.Errorf("backend exited before becoming ready")
		default:
		}

		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s/healthz", baseURL)
}
