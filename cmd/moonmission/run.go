package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-moonmission/pkg/engine"
	"github.com/opd-ai/go-moonmission/pkg/health"
	"github.com/opd-ai/go-moonmission/pkg/logging"
)

var (
	flagDuration       time.Duration
	flagStatusInterval time.Duration
	flagHealthAddr     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a live session driven from stdin",
	Long: `Runs the live simulation in real time. Commands are read from stdin one
per line; type "help" for the list. Planned commands are predicted
continuously and only reach the rocket on "execute".

Examples:
  moonmission run
  moonmission run --duration 30s --status-interval 500ms
  moonmission run --health-addr :8081`,
	RunE: runSession,
}

func init() {
	runCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop after this long (0 = until quit or signal)")
	runCmd.Flags().DurationVar(&flagStatusInterval, "status-interval", time.Second, "Minimum time between status lines")
	runCmd.Flags().StringVar(&flagHealthAddr, "health-addr", "", "Serve /health and /ready on this address")
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	control := engine.NewGameControlFromConfig(cfg, engine.WithLogger(logger))
	defer control.Close()

	out := cmd.OutOrStdout()
	session := engine.NewSession(cfg, control, newStatusPrinter(out, flagStatusInterval), logger)
	ctx = logging.WithCorrelationID(ctx, session.ID)

	if flagHealthAddr != "" {
		shutdown := serveHealth(ctx, flagHealthAddr, session, logger)
		defer shutdown()
	}

	go readInput(ctx, cmd.InOrStdin(), out, session, logger)

	fmt.Fprintln(out, dimStyle.Render("session "+session.ID+` started, type "help" for commands`))
	return session.Run(ctx)
}

// readInput feeds stdin lines to the session until EOF or cancellation
func readInput(ctx context.Context, in io.Reader, out io.Writer, s *engine.Session, logger *logging.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		req, err := parseLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, warnStyle.Render(err.Error()))
			continue
		}
		if dispatch(req, out, s) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error(ctx, "reading input", err)
	}
}

// dispatch applies one request and reports whether the session is ending
func dispatch(req request, out io.Writer, s *engine.Session) bool {
	switch req.action {
	case actionInput:
		if !s.Submit(req.input) {
			fmt.Fprintln(out, warnStyle.Render("input dropped: session busy"))
		}
	case actionPause:
		s.Pause()
	case actionResume:
		s.Resume()
	case actionStatus:
		gc := s.Control()
		fmt.Fprintln(out, statusLine(gc.State()))
		fmt.Fprintln(out, planLine("plan", gc.PlannedCommands()))
		fmt.Fprintln(out, planLine("queue", gc.Engine().Pending()))
	case actionHelp:
		fmt.Fprintln(out, helpText)
	case actionQuit:
		s.Stop()
		return true
	}
	return false
}

// serveHealth exposes session probes over HTTP and returns a shutdown func
func serveHealth(ctx context.Context, addr string, s *engine.Session, logger *logging.Logger) func() {
	checker := health.NewHealthChecker()
	checker.AddCheck(health.NewProgressCheck("physics", s.Control().Engine().Steps))
	checker.AddCheck(health.NewAvailabilityCheck("predictor", s.PredictorAvailable))

	server := &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting health check server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "health check server failed", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "health check server shutdown failed", err)
		}
	}
}
