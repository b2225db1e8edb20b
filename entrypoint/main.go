package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"vnexus.com/mtl/anchor"
	"vnexus.com/mtl/api"
	"vnexus.com/mtl/logger"
	"vnexus.com/mtl/timeline"
	"vnexus.com/mtl/types"
	"vnexus.com/mtl/worker"
)

type Config struct {
	RulesPath         string `envconfig:"MTL_RULES_PATH" default:""`
	OracleEnabled     bool   `envconfig:"MTL_ORACLE_ENABLED" default:"true"`
	MaxParallelChunks int    `envconfig:"MTL_MAX_PARALLEL_CHUNKS" default:"4"`
	RestAPIActive     bool   `envconfig:"MTL_REST_API_ACTIVE" default:"false"`
	RestAPIPort       string `envconfig:"MTL_REST_API_PORT" default:"10000"`
}

func main() {
	logger.SetupLogging()
	mtlLogger := logger.NewLogger("Main")
	fatalErrLogger := mtlLogger.Fatal().Caller()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	rules, err := types.LoadRuleSet(config.RulesPath)
	if err != nil {
		fatalErrLogger.Err(err).Msg("Failed to load rule set")
		os.Exit(1)
	}

	var judge anchor.Judge
	if config.OracleEnabled {
		oracleJudge, err := anchor.NewOracleJudge()
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to configure anchor oracle")
			os.Exit(1)
		}
		judge = oracleJudge
	} else {
		mtlLogger.Info().Msg("Oracle disabled, using deterministic keyword judge")
		judge = anchor.NewKeywordJudge()
	}

	engine := timeline.NewEngine(rules, judge, timeline.EngineParams{
		MaxParallelChunks: config.MaxParallelChunks,
	})
	ppln := timeline.NewPipeline(engine)

	if config.RestAPIActive {
		go func() {
			mtlLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessDocument)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mtlLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	mtlLogger.Info().Msg("Start timeline worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mtlLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			mtlLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
