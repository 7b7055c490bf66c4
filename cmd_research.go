package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	researcherx "github.com/tanpawarit/Chative-Shop-Assistant/agent/agents/researcher"
	llmx "github.com/tanpawarit/Chative-Shop-Assistant/agent/llm"
	notesx "github.com/tanpawarit/Chative-Shop-Assistant/agent/notes"
	searchx "github.com/tanpawarit/Chative-Shop-Assistant/agent/search"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
	configx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/config"
	"github.com/tanpawarit/Chative-Shop-Assistant/pkg/console"
	geminix "github.com/tanpawarit/Chative-Shop-Assistant/pkg/gemini"
	logx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/logger"
)

var (
	researchPlain    bool
	researchMaxSteps int
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Start the interactive research assistant",
	Args:  cobra.NoArgs,
	RunE:  runResearch,
}

func init() {
	researchCmd.Flags().BoolVar(&researchPlain, "plain", false, "print replies without markdown rendering")
	researchCmd.Flags().IntVar(&researchMaxSteps, "max-steps", researcherx.DefaultMaxSteps, "tool rounds allowed per question")
}

func runResearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logx.Quiet()

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return err
	}
	gemCfg, err := configx.New[geminix.Config]("GEMINI")
	if err != nil {
		return err
	}
	searchCfg, err := configx.New[searchx.Config]("SEARCH")
	if err != nil {
		return err
	}
	notesCfg, err := configx.New[notesx.Config]("NOTES")
	if err != nil {
		return err
	}

	var archive notesx.Archiver
	if notesCfg.DatabaseDSN != "" {
		pg, err := notesx.OpenPostgresArchive(ctx, notesCfg.DatabaseDSN)
		if err != nil {
			log.Warn().Err(err).Msg("notes archive unavailable, saving files only")
		} else {
			defer pg.Close()
			archive = pg
		}
	}

	deps := toolx.Deps{
		Search: searchx.New(*searchCfg),
		Notes:  notesx.NewRecorder(notesx.NewFileSaver(notesCfg.Dir), archive),
	}
	agent, err := researcherx.NewFromConfig(ctx, *llmCfg, *gemCfg, deps, researcherx.WithMaxSteps(researchMaxSteps))
	if err != nil {
		return err
	}

	var opts []console.Option
	if researchPlain {
		opts = append(opts, console.WithPlain())
	}
	repl := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), researcherx.NewConversation(agent), opts...)
	return repl.Run(ctx)
}
