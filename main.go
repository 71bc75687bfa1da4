package main

import (
	"context"
	"os/signal"
	"syscall"

	resolverx "github.com/tanpawarit/qbd-assistant/agent/agents/resolver"
	classifierx "github.com/tanpawarit/qbd-assistant/agent/classifier"
	composerx "github.com/tanpawarit/qbd-assistant/agent/composer"
	llmx "github.com/tanpawarit/qbd-assistant/agent/llm"
	promptx "github.com/tanpawarit/qbd-assistant/agent/prompt"
	"github.com/tanpawarit/qbd-assistant/api"
	"github.com/tanpawarit/qbd-assistant/importer"
	"github.com/tanpawarit/qbd-assistant/inventory"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	configx "github.com/tanpawarit/qbd-assistant/pkg/config"
	logx "github.com/tanpawarit/qbd-assistant/pkg/logger"
	_ "github.com/tanpawarit/qbd-assistant/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/qbd-assistant/pkg/openrouter"
)

func main() {
	log := logx.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conductorCfg := configx.MustNew[conductorx.Config]("CONDUCTOR")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	inventoryCfg := configx.MustNew[inventory.Config]("ASSISTANT")
	resolverCfg := configx.MustNew[resolverx.Config]("ASSISTANT")
	httpCfg := configx.MustNew[api.Config]("HTTP")

	prompts := promptx.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		log.Fatal().Err(err).Msg("prompts")
	}

	gateway := conductorx.MustNew(*conductorCfg)

	invSvc, err := inventory.New(gateway, *inventoryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inventory service")
	}
	if !invSvc.CanAdjustQuantity() {
		log.Warn().Str("setting", inventory.AdjustmentAccountSetting).Msg("quantity changes are disabled until the adjustment account is configured")
	}

	classifierModelCfg := llmCfg.OpenRouterFor(llmx.RoleClassifier)
	chatModel, err := classifierModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("classifier chat model")
	}
	classifier, err := classifierx.New(ctx, chatModel, prompts.Classifier)
	if err != nil {
		log.Fatal().Err(err).Msg("intent classifier")
	}

	composerModelCfg := llmCfg.OpenRouterFor(llmx.RoleComposer)
	phraser, err := composerx.NewOpenAIPhraser(openrouterx.NewClient(composerModelCfg), composerx.PhraserConfig{
		Model:       composerModelCfg.Model,
		Instruction: prompts.Composer,
		MaxTokens:   *composerModelCfg.MaxCompletionToken,
		Temperature: composerModelCfg.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("phraser")
	}

	resolver, err := resolverx.New(classifier, invSvc, composerx.New(phraser), *resolverCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("intent resolver")
	}

	processor, err := importer.NewProcessor(invSvc, resolverCfg.CallTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("import processor")
	}

	server, err := api.New(gateway, resolver, processor, *httpCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("http server")
	}

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("bye")
}
