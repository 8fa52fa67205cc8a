package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"classroom-ai-be/internal/config"
	"classroom-ai-be/internal/controller"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/internal/repository/memory"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/internal/service"
	"classroom-ai-be/pkg/chunker"
	"classroom-ai-be/pkg/embedding"
	embeddingOllama "classroom-ai-be/pkg/embedding/ollama"
	embeddingOpenAI "classroom-ai-be/pkg/embedding/openai"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/extractor"
	"classroom-ai-be/pkg/llm/factory"
	"classroom-ai-be/pkg/lock"
	"classroom-ai-be/pkg/rag/response"
	"classroom-ai-be/pkg/rag/retriever"
	"classroom-ai-be/pkg/vectorindex"

	pktNats "classroom-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventTypes are the domain events mirrored into the system log.
var EventTypes = []string{
	events.TypeIndexBuilt,
	events.TypeIndexInvalidated,
	events.TypeConversationSummarized,
	events.TypeConversationDeployed,
	events.TypeFeedbackGenerated,
}

type Container struct {
	AiChatController      controller.IAiChatController
	StudentChatController controller.IStudentChatController
	FeedbackController    controller.IFeedbackController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// Close releases connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Indexing is the retrieval pipeline shared by the REST server and ragctl.
type Indexing struct {
	Retriever *retriever.Retriever
	Recorder  *service.FileIndexRecorder
	Store     *vectorindex.Store
	Chunker   chunker.Chunker
	Extractor extractor.Extractor

	closers []func()
}

func (ix *Indexing) Close() {
	for i := len(ix.closers) - 1; i >= 0; i-- {
		ix.closers[i]()
	}
}

// NewRepositoryFactory returns the GORM unit of work, or the in-memory one
// when db is nil.
func NewRepositoryFactory(db *gorm.DB) unitofwork.RepositoryFactory {
	if db == nil {
		log.Printf("[WARN] No database configured, using in-memory store")
		return memory.NewRepositoryFactory(memory.NewStore())
	}
	return unitofwork.NewRepositoryFactory(db)
}

func NewEmbeddingProvider(cfg *config.Config) (embedding.Provider, error) {
	var provider embedding.Provider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embeddingOllama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "openai":
		if cfg.Keys.OpenAI == "" {
			return nil, fmt.Errorf("openai embedding provider requires OPENAI_API_KEY")
		}
		provider = embeddingOpenAI.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.OpenAIEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.OpenAIEmbeddingModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
	return embedding.Timed{Provider: provider, Timeout: cfg.Ai.EmbeddingTimeout}, nil
}

// NewRedisClient returns nil when no URL is configured or the server does
// not answer.
func NewRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// NewNatsPublisher returns nil when NATS is not configured or unreachable.
func NewNatsPublisher(url string) *pktNats.Publisher {
	if url == "" {
		return nil
	}
	pub, err := pktNats.NewPublisher(url)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		return nil
	}
	return pub
}

func NewIndexing(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, sysLogger logger.ILogger) (*Indexing, error) {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	ix := &Indexing{
		Chunker:   chunker.NewSentenceChunker(),
		Extractor: extractor.NewFileExtractor(sysLogger),
	}

	embedder, err := NewEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}

	var storage vectorindex.ArtifactStorage
	switch cfg.Rag.IndexStorage {
	case "badger":
		bs, err := vectorindex.OpenBadgerStorage(cfg.Rag.IndexDir)
		if err != nil {
			return nil, err
		}
		ix.closers = append(ix.closers, func() { _ = bs.Close() })
		storage = bs
	case "file", "":
		fs, err := vectorindex.NewFileStorage(cfg.Rag.IndexDir)
		if err != nil {
			return nil, err
		}
		storage = fs
	default:
		return nil, fmt.Errorf("unsupported index storage: %s", cfg.Rag.IndexStorage)
	}
	ix.Store = vectorindex.NewStore(storage, vectorindex.WithCache(cfg.Rag.IndexCacheTTL))

	var locker lock.Locker = lock.NewKeyedMutex()
	if rdb := NewRedisClient(cfg.App.RedisURL); rdb != nil {
		locker = lock.NewRedisLocker(rdb, "classroom-ai:index-lock:", cfg.Rag.LockTTL)
		ix.closers = append(ix.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Using Redis index build lock")
	}

	ix.Recorder = service.NewFileIndexRecorder(uowFactory)
	ix.Retriever = retriever.New(
		ix.Extractor,
		ix.Chunker,
		embedder,
		ix.Store,
		sysLogger,
		retriever.WithLocker(locker),
		retriever.WithRecorder(ix.Recorder),
		retriever.WithPublisher(publisher),
		retriever.WithTopK(cfg.Rag.TopK),
	)
	return ix, nil
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	traceLogger := logger.NewIsolatedLogger(cfg.App.TraceLogFilePath)
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisher := events.Multi{events.NewChannelPublisher(pubSub)}
	if natsPub := NewNatsPublisher(cfg.App.NatsURL); natsPub != nil {
		publisher = append(publisher, natsPub)
		c.closers = append(c.closers, natsPub.Close)
	}
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Providers
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:  cfg.Ai.LLMProvider,
		Model:     cfg.Ai.LLMModel,
		BaseURL:   llmBaseURL(cfg),
		APIKey:    cfg.Keys.OpenAI,
		MaxTokens: cfg.Ai.LLMMaxTokens,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	indexing, err := NewIndexing(cfg, uowFactory, publisher, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize indexing: %v", err)
	}
	c.closers = append(c.closers, indexing.Close)

	generator := response.NewGenerator(llmProvider, sysLogger, traceLogger, cfg.Ai.LLMTimeout)

	// 4. Services
	aiChatService := service.NewAiChatService(uowFactory, indexing.Retriever, generator, publisher, sysLogger, cfg.Rag.UploadDir)
	studentChatService := service.NewStudentChatService(uowFactory, generator, sysLogger)
	feedbackService := service.NewFeedbackService(uowFactory, generator, publisher, sysLogger)

	// 5. Controllers
	c.AiChatController = controller.NewAiChatController(aiChatService)
	c.StudentChatController = controller.NewStudentChatController(studentChatService)
	c.FeedbackController = controller.NewFeedbackController(feedbackService)
	c.ConsumerService = service.NewConsumerService(pubSub, sysLogger, EventTypes...)

	return c
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}
