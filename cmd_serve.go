package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	orchestratorx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/orchestrator"
	shopperx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/shopper"
	llmx "github.com/tanpawarit/Chative-Shop-Assistant/agent/llm"
	statex "github.com/tanpawarit/Chative-Shop-Assistant/agent/state"
	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
	geminix "github.com/tanpawarit/Chative-Shop-Assistant/pkg/gemini"
	"github.com/tanpawarit/Chative-Shop-Assistant/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the e-commerce chat web app",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return err
	}
	gemCfg, err := configx.New[geminix.Config]("GEMINI")
	if err != nil {
		return err
	}
	storeCfg, err := configx.New[statex.StoreConfig]("SESSION")
	if err != nil {
		return err
	}
	webCfg, err := configx.New[web.Config]("WEB")
	if err != nil {
		return err
	}

	store, err := statex.NewStore(*storeCfg, func() (statex.UpstashRedisConfig, error) {
		rc, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return statex.UpstashRedisConfig{}, err
		}
		return *rc, nil
	})
	if err != nil {
		return err
	}

	responder, err := shopperx.NewResponder(ctx, *llmCfg, *gemCfg)
	if err != nil {
		return err
	}
	svc, err := orchestratorx.New(store, responder)
	if err != nil {
		return err
	}

	handler, err := web.NewRouter(*webCfg, svc)
	if err != nil {
		return err
	}

	log.Info().
		Str("llm_backend", llmCfg.BackendName()).
		Str("session_backend", storeCfg.Backend).
		Msg("shop assistant ready")
	return web.Serve(ctx, *webCfg, handler)
}
