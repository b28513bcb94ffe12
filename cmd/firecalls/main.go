// Command firecalls loads the San Francisco fire-department call-response
// file into a namespaced table and answers the ten analytic questions about
// it.
//
//	firecalls -config configs/firecalls.sample.yaml -format table
//	firecalls -config configs/firecalls.sample.json -queries top_call_types,7 -format json
//	firecalls -config configs/firecalls.sample.yaml -probe
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"firecalls/internal/config"
	"firecalls/internal/datasource/file"
	"firecalls/internal/metrics"
	"firecalls/internal/metrics/datadog"
	"firecalls/internal/metrics/prompush"
	"firecalls/internal/watch"

	// register all backends with the storage factory.
	_ "firecalls/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		envPath           string
		queriesFlg        string
		queriesFile       string
		format            string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		reset             bool
		probeOnly         bool
		watchSrc          bool
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/firecalls.sample.yaml", "workflow config path (.json, .yaml or .yml)")
	flag.StringVar(&envPath, "env", ".env", "optional .env file loaded before the config")
	flag.BoolVar(&reset, "reset", true, "drop and recreate the namespace before loading")
	flag.StringVar(&queriesFlg, "queries", "", "comma-separated query names or 1-based positions (default all)")
	flag.StringVar(&queriesFile, "queries-file", "", "file listing query names, one or more per line")
	flag.StringVar(&format, "format", formatTable, "output format: table, json or csv")
	flag.BoolVar(&probeOnly, "probe", false, "profile the source against the declared table and exit")
	flag.BoolVar(&watchSrc, "watch", false, "re-run whenever the source file changes")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (overrides env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (overrides env DOGSTATSD_ADDR)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if err := config.LoadEnvFile(envPath, envPath != ".env"); err != nil {
		fatalf("%v", err)
	}

	w, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if err := w.ApplyEnv(os.LookupEnv); err != nil {
		fatalf("%v", err)
	}
	if queriesFile != "" {
		names, err := file.ReadList(queriesFile)
		if err != nil {
			fatalf("queries file: %v", err)
		}
		w.Queries.Only = names
	}
	if queriesFlg != "" {
		w.Queries.Only = strings.Split(queriesFlg, ",")
	}
	w = w.WithDefaults()

	issues := config.ValidateWorkflow(w)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}
	if watchSrc && w.Source.Kind != "file" {
		fatalf("-watch requires a file source, got %q", w.Source.Kind)
	}

	runID := uuid.NewString()
	flush := setupMetrics(pick(metricsBackendFlg, os.Getenv("METRICS_BACKEND")), w.Job, runID,
		pick(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		pick(dogstatsdAddrFlg, os.Getenv("DOGSTATSD_ADDR"), "127.0.0.1:8125"),
		*verbose)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := runOptions{
		runID:   runID,
		reset:   reset,
		format:  format,
		probe:   probeOnly,
		verbose: *verbose,
		out:     os.Stdout,
	}
	start := time.Now()
	err = runWorkflow(ctx, w, opt)
	if err != nil && !watchSrc {
		flush()
		log.Fatalf("%v", err)
	}
	if err != nil {
		log.Printf("run: %v", err)
	}
	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}

	if watchSrc {
		wt := watch.New(file.NewLocal(w.Source.File.Path), 0, func(ctx context.Context) error {
			opt.runID = uuid.NewString()
			err := runWorkflow(ctx, w, opt)
			if ferr := metrics.Flush(); ferr != nil {
				log.Printf("metrics: flush error: %v", ferr)
			}
			return err
		})
		if err := wt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("%v", err)
		}
	}
}

// setupMetrics installs the named backend and returns a flush function that
// is safe to call more than once.
func setupMetrics(backend, job, runID, gwURL, dsdAddr string, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, gwURL, runID)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backend, job)
		}
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr: dsdAddr,
			Tags: []string{"job:" + job, "run_id:" + runID},
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v, job_name=%v", dsdAddr, backend, job)
		}
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backend)
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", backend, err)
		return func() {}
	}

	metrics.SetBackend(b)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
