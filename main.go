package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	contractx "github.com/voyagent/voyagent/agent/contract"
	orchestratorx "github.com/voyagent/voyagent/agent/orchestrator"
	promptx "github.com/voyagent/voyagent/agent/prompt"
	routerx "github.com/voyagent/voyagent/agent/router"
	skillx "github.com/voyagent/voyagent/agent/skills"
	statex "github.com/voyagent/voyagent/agent/state"
	catalogx "github.com/voyagent/voyagent/pkg/catalog"
	configx "github.com/voyagent/voyagent/pkg/config"
	kbx "github.com/voyagent/voyagent/pkg/kb"
	llmx "github.com/voyagent/voyagent/pkg/llm"
	logx "github.com/voyagent/voyagent/pkg/logger"
	notifyx "github.com/voyagent/voyagent/pkg/notify"
	searchx "github.com/voyagent/voyagent/pkg/search"
	secretsx "github.com/voyagent/voyagent/pkg/secrets"
	weatherx "github.com/voyagent/voyagent/pkg/weather"
)

type AppConfig struct {
	Addr                   string `split_words:"true" default:":8080"`
	KnowledgeBaseID        string `envconfig:"KNOWLEDGE_BASE_ID" required:"true"`
	OpenweatherSecretName  string `split_words:"true" required:"true"`
	GoogleSearchSecretName string `split_words:"true" required:"true"`
	CatalogSecretName      string `split_words:"true"`
	CatalogURL             string `split_words:"true"`
	UseCatalog             bool   `split_words:"true" default:"false"`
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
	appCfg := configx.MustNew[AppConfig]("")

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("load aws config")
	}

	secretsClient, err := secretsx.New(secretsmanager.NewFromConfig(awsCfg))
	if err != nil {
		logx.Fatal().Err(err).Msg("create secrets client")
	}

	weatherKeys, err := secretsClient.GetJSON(ctx, appCfg.OpenweatherSecretName)
	if err != nil {
		logx.Fatal().Err(err).Msg("resolve openweather secret")
	}
	googleKeys, err := secretsClient.GetJSON(ctx, appCfg.GoogleSearchSecretName)
	if err != nil {
		logx.Fatal().Err(err).Msg("resolve google search secret")
	}

	templates := promptx.MustLoad()
	gateway, err := llmx.New(ctx, *configx.MustNew[llmx.Config]("LLM"), templates)
	if err != nil {
		logx.Fatal().Err(err).Msg("create model gateway")
	}

	forecaster := weatherx.MustNew(weatherx.Config{APIKey: weatherKeys["openweather_key"]})
	web := searchx.MustNew(searchx.Config{
		APIKey: googleKeys["google_api_key"],
		CSEID:  googleKeys["cse_id"],
	})

	// Catalog credentials are optional: a missing or broken set swaps in
	// the fallback handlers at wiring time.
	var catalogClient contractx.CatalogSearcher
	if appCfg.UseCatalog {
		catalogKeys, err := secretsClient.GetJSON(ctx, appCfg.CatalogSecretName)
		if err != nil {
			logx.Warn().Err(err).Msg("catalog secret unavailable, catalog disabled")
		} else {
			client, err := catalogx.NewClient(catalogx.Config{
				URL:        appCfg.CatalogURL,
				AccessKey:  catalogKeys["paapi_public"],
				SecretKey:  catalogKeys["paapi_secret"],
				PartnerTag: catalogKeys["partner_tag"],
			})
			if err != nil {
				logx.Warn().Err(err).Msg("catalog setup failed, catalog disabled")
			} else {
				catalogClient = client
			}
		}
	} else {
		logx.Info().Msg("catalog disabled")
	}

	retriever, err := kbx.New(bedrockagentruntime.NewFromConfig(awsCfg), appCfg.KnowledgeBaseID)
	if err != nil {
		logx.Fatal().Err(err).Msg("create knowledge base retriever")
	}

	store, err := statex.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), *configx.MustNew[statex.Tables](""))
	if err != nil {
		logx.Fatal().Err(err).Msg("create state store")
	}

	var notifier contractx.Notifier = contractx.NoopNotifier{}
	notifyCfg := configx.MustNew[notifyx.Config]("NOTIFY")
	if strings.TrimSpace(notifyCfg.URL) != "" {
		notifier = notifyx.MustNew(*notifyCfg)
	}

	registry := skillx.NewRegistry(skillx.Deps{
		Gateway:    gateway,
		Store:      store,
		Catalog:    catalogClient,
		Web:        web,
		Retriever:  retriever,
		Forecaster: forecaster,
		Notifier:   notifier,
	})

	orch, err := orchestratorx.New(ctx, store, routerx.New(gateway), registry)
	if err != nil {
		logx.Fatal().Err(err).Msg("create orchestrator")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", handleChat(orch))

	server := &http.Server{
		Addr:              appCfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logx.Info().Str("addr", appCfg.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}

type chatRequest struct {
	Input  string `json:"input"`
	UserID string `json:"user_id"`
}

func handleChat(orch *orchestratorx.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Input) == "" || strings.TrimSpace(req.UserID) == "" {
			http.Error(w, "input and user_id are required", http.StatusBadRequest)
			return
		}

		env, err := orch.Run(r.Context(), req.Input, req.UserID)
		if err != nil {
			logx.Error().Err(err).Msg("turn failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(env); err != nil {
			logx.Error().Err(err).Msg("encode response")
		}
	}
}
