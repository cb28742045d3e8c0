package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/healthdes"
	"github.com/aretw0/healthdes/internal/config"
	"github.com/aretw0/healthdes/internal/server"
	"github.com/aretw0/healthdes/pkg/collector"
)

var runCmd = &cobra.Command{
	Use:   "run <model>",
	Short: "Run a simulation model",
	Long: `Runs the model and prints a summary of the run. With --dataset the named dataset
is written to stdout as CSV instead. With --metrics-addr the run is exposed over HTTP
(/metrics, /healthz, /report) and the server keeps serving until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		m, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("until") {
			m.Until, _ = cmd.Flags().GetDuration("until")
		}
		addr, _ := cmd.Flags().GetString("metrics-addr")
		dataset, _ := cmd.Flags().GetString("dataset")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runModel(ctx, cmd.OutOrStdout(), logger, m, addr, dataset)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("until", 0, "Simulated run length (overrides the model; 0 runs until no event is left)")
	runCmd.Flags().String("metrics-addr", "", "Serve /metrics, /healthz and /report on this address")
	runCmd.Flags().String("dataset", "", "Write this dataset to stdout as CSV instead of the summary")
}

func runModel(ctx context.Context, out io.Writer, logger *slog.Logger, m *config.Model, addr, dataset string) error {
	reg := prometheus.NewRegistry()
	prom, err := collector.NewPrometheus(reg, "healthdes")
	if err != nil {
		return err
	}

	s, err := healthdes.FromModel(m, healthdes.WithLogger(logger), healthdes.WithCollector(prom))
	if err != nil {
		return err
	}

	srv := server.New(logger)
	var httpSrv *http.Server
	serverErrors := make(chan error, 1)
	if addr != "" {
		httpSrv = &http.Server{Addr: addr, Handler: srv.Handler(reg)}
		go func() {
			logger.Info("serving metrics", "addr", addr)
			serverErrors <- httpSrv.ListenAndServe()
		}()
	}

	report, err := s.Run(ctx, m.Until)
	if err != nil {
		return err
	}
	srv.SetReport(report)

	if dataset != "" {
		if err := s.Memory().WriteCSV(out, dataset); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if httpSrv == nil {
		return nil
	}
	logger.Info("run finished, press Ctrl+C to stop serving", "addr", addr)
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown did not complete", "error", err)
		return httpSrv.Close()
	}
	return nil
}

func printReport(w io.Writer, r *healthdes.Report) {
	fmt.Fprintf(w, "Simulation %s (run %s)\n", r.Name, r.RunID)
	fmt.Fprintf(w, "  simulated time: %v\n", r.Now)
	fmt.Fprintf(w, "  people:         %d\n", r.People)
	fmt.Fprintf(w, "  completed:      %d\n", r.Completed)
	fmt.Fprintf(w, "  in progress:    %d\n", r.InProgress)
	fmt.Fprintf(w, "  stalled:        %d\n", r.Stalled)

	names := make([]string, 0, len(r.Visits))
	for name := range r.Visits {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Fprintln(w, "  visits:")
	}
	for _, name := range names {
		fmt.Fprintf(w, "    %-16s %d\n", name, r.Visits[name])
	}
}
