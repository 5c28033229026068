package bootstrap

import (
	"log"
	"time"

	"cognihub-be/internal/config"
	"cognihub-be/internal/controller"
	"cognihub-be/internal/pkg/logger"
	"cognihub-be/internal/repository/implementation"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/internal/service"
	"cognihub-be/pkg/cache"
	"cognihub-be/pkg/embedding"
	"cognihub-be/pkg/kiwix"
	"cognihub-be/pkg/llm/ollama"
	"cognihub-be/pkg/llmjson"
	"cognihub-be/pkg/rag/rerank"
	"cognihub-be/pkg/rag/retrieval"
	"cognihub-be/pkg/rag/routing"
	"cognihub-be/pkg/webfetch"

	pktNats "cognihub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// DocumentIngestTopic is the watermill topic carrying embed jobs from the
// docs API to the ingest consumer.
const DocumentIngestTopic = "INGEST_DOCUMENT"

type Container struct {
	// Controllers
	StatusController    controller.IStatusController
	DocumentController  controller.IDocumentController
	RetrievalController controller.IRetrievalController
	ChatController      controller.IChatController
	ResearchController  controller.IResearchController
	WebController       controller.IWebController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	Logger        logger.ILogger
	NatsPublisher *pktNats.Publisher
	StatusCache   *cache.Bounded
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogPath, cfg.App.LogLevel)
	ragLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional; a nil publisher drops events.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// 3. Model Providers
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel)
	llmProvider := ollama.NewOllamaProvider(cfg.Ollama.BaseURL, cfg.Ollama.ChatModel)
	log.Printf("[INFO] Using Ollama at %s (embed=%s, chat=%s)",
		cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, cfg.Ollama.ChatModel)

	// 4. Ingest Pipeline
	publisherService := service.NewPublisherService(DocumentIngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		DocumentIngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		embeddingProvider,
		cfg.Ollama.EmbedModel,
	)

	// 5. Retrieval Engine
	// Similarity search runs outside unit-of-work transactions, so the
	// providers get plain repositories.
	chunkRepo := implementation.NewChunkRepository(db)
	webChunkRepo := implementation.NewWebChunkRepository(db)

	extractor := llmjson.NewExtractor(cfg.Retrieval.JSONMaxParseSize)
	advisor := routing.NewAdvisor(llmProvider, extractor, routing.Config{
		Model:    cfg.Ollama.RouteModel,
		Timeout:  cfg.Retrieval.RouteTimeout,
		CacheTTL: cfg.Retrieval.RouteCacheTTL,
	}, ragLogger)
	reranker := rerank.NewReranker(llmProvider, extractor, rerank.Config{
		Model:   cfg.Ollama.RerankModel,
		Timeout: cfg.Retrieval.RerankTimeout,
	}, ragLogger)

	docProvider := retrieval.NewDocProvider(chunkRepo, embeddingProvider, ragLogger)
	webProvider := retrieval.NewWebProvider(webChunkRepo, embeddingProvider, ragLogger)

	var kiwixProvider retrieval.Provider
	if cfg.Kiwix.BaseURL != "" {
		kiwixClient := kiwix.NewClient(cfg.Kiwix.BaseURL)
		kiwixProvider = retrieval.NewKiwixProvider(kiwixClient, embeddingProvider, chunkRepo, documentService, ragLogger)
		log.Printf("[INFO] Kiwix provider enabled (%s)", cfg.Kiwix.BaseURL)
	}

	orchestrator := retrieval.NewOrchestrator(docProvider, webProvider, kiwixProvider, advisor, reranker, ragLogger)
	retrievalService := service.NewRetrievalService(
		orchestrator,
		cfg.Retrieval.TopKDefault,
		cfg.Retrieval.TopKMax,
		cfg.Retrieval.MMRLambda,
		cfg.Kiwix.Pages,
	)

	// 6. Feature Services
	webFetcher := webfetch.NewFetcher(webfetch.Config{
		AllowedHosts: webfetch.SplitHostList(cfg.Web.AllowedHosts),
		BlockedHosts: webfetch.SplitHostList(cfg.Web.BlockedHosts),
		UserAgent:    cfg.Web.UserAgent,
	})
	webService := service.NewWebService(uowFactory, webFetcher, embeddingProvider, cfg.Ollama.EmbedModel, natsPub)

	chatService := service.NewChatService(uowFactory, llmProvider, cfg.Ollama.ChatModel)
	researchService := service.NewResearchService(uowFactory, retrievalService, natsPub)

	statusCache := cache.NewBounded(cfg.Cache.StatusSize, time.Minute)
	statusService := service.NewStatusService(uowFactory, llmProvider, statusCache, cfg.Cache.StatusTTL)

	// 7. Controllers
	return &Container{
		StatusController:    controller.NewStatusController(statusService),
		DocumentController:  controller.NewDocumentController(documentService),
		RetrievalController: controller.NewRetrievalController(retrievalService),
		ChatController:      controller.NewChatController(chatService),
		ResearchController:  controller.NewResearchController(researchService),
		WebController:       controller.NewWebController(webService),

		ConsumerService: consumerService,

		Logger:        sysLogger,
		NatsPublisher: natsPub,
		StatusCache:   statusCache,
	}
}
