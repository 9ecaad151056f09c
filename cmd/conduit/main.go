// Command conduit runs declarative pipelines from YAML or JSON definitions,
// exports their execution graph, or serves the run API over HTTP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kbukum/conduit/config"
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/elements"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/pipeline"
	"github.com/kbukum/conduit/server"
	"github.com/kbukum/conduit/version"
)

func main() {
	var (
		pipelineFile = flag.String("pipeline", "", "path to a pipeline definition (.yaml, .yml, .json)")
		inputJSON    = flag.String("input", "", "seed input as a JSON array")
		configFile   = flag.String("config", "", "path to the service config file")
		serve        = flag.Bool("serve", false, "start the HTTP run server")
		expandEnv    = flag.Bool("expand-env", false, "expand ${VAR} references in the pipeline file")
		logLevel     = flag.String("log-level", "", "override log level (debug, info, warn, error)")
		graph        = flag.Bool("graph", false, "print the pipeline graph in dot format and exit")
		stopOnError  = flag.Bool("stop-on-error", true, "halt the run on the first failure")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	_ = godotenv.Load()

	var cfg config.ServiceConfig
	if err := config.LoadConfig("conduit", &cfg, config.WithConfigFile(*configFile)); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	cfg.ApplyDefaults()
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	reg := element.NewRegistry(log)
	elements.Register(reg)
	pipeline.Register(reg)

	if *serve {
		runServer(reg, log)
		return
	}

	if *pipelineFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	descs, err := config.LoadPipeline(*pipelineFile, *expandEnv)
	if err != nil {
		log.Fatal("cannot load pipeline", logger.Fields(logger.FieldError, err.Error()))
	}

	p, err := pipeline.New(descs, reg, log, pipeline.WithStopOnError(*stopOnError))
	if err != nil {
		log.Fatal("cannot build pipeline", logger.Fields(logger.FieldError, err.Error()))
	}

	if *graph {
		fmt.Print(pipeline.BuildGraph(p).DOT())
		return
	}

	input := []any{map[string]any{}}
	if *inputJSON != "" {
		var seed []any
		if err := json.Unmarshal([]byte(*inputJSON), &seed); err != nil {
			log.Fatal("invalid -input", logger.Fields(logger.FieldError, err.Error()))
		}
		input = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, input)
	stats := p.Stats()
	if err != nil {
		log.Error("pipeline run failed", logger.Fields(
			logger.FieldRunID, stats.RunID.String(),
			logger.FieldError, err.Error(),
		))
		os.Exit(1)
	}

	log.Info("pipeline run finished", logger.Fields(
		logger.FieldRunID, stats.RunID.String(),
		logger.FieldItems, stats.Items,
		logger.FieldDuration, stats.Duration.Milliseconds(),
	))
	if result != nil {
		out, err := json.Marshal(result)
		if err != nil {
			fmt.Println(result)
			return
		}
		fmt.Println(string(out))
	}
}

func runServer(reg *element.Registry, log *logger.Logger) {
	var srvCfg server.Config
	srvCfg.ApplyDefaults()
	if err := srvCfg.Validate(); err != nil {
		log.Fatal("invalid server config", logger.Fields(logger.FieldError, err.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(srvCfg, reg, log)
	if err := srv.Start(ctx); err != nil {
		log.Fatal("cannot start server", logger.Fields(logger.FieldError, err.Error()))
	}

	<-ctx.Done()
	if err := srv.Stop(context.Background()); err != nil {
		log.Error("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}
