package bootstrap

import (
	"context"
	"log"

	"studybuddy-be/internal/config"
	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/controller"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/mailer"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/internal/service"
	"studybuddy-be/internal/websocket"
	"studybuddy-be/pkg/embedding"
	"studybuddy-be/pkg/events"
	"studybuddy-be/pkg/ingest"
	"studybuddy-be/pkg/llm/gemini"
	pktNats "studybuddy-be/pkg/nats"
	"studybuddy-be/pkg/rag"
	"studybuddy-be/pkg/textsplit"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	StudySessionController controller.IStudySessionController
	NoteController         controller.INoteController
	DocumentController     controller.IDocumentController
	ChatController         controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 3. AI Stack
	embeddingProvider := embedding.NewGeminiProvider(
		cfg.Keys.GoogleGemini,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDimension,
	)
	llmProvider := gemini.New(cfg.Keys.GoogleGemini, cfg.Ai.LLMModel)
	log.Printf("[INFO] Using Gemini: llm=%s embedding=%s (%d dims)",
		cfg.Ai.LLMModel, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimension)

	splitter := textsplit.NewSplitter(cfg.Ai.ChunkSize, cfg.Ai.ChunkOverlap)
	corpusCache := memory.NewCorpusCache()

	// Durable consumer so failed ingestions end up in the ops log even
	// when the failure happened on another instance.
	if natsSub != nil {
		err := natsSub.Subscribe("events."+constant.EventDocumentFailed, "studybuddy-failed-docs",
			func(ctx context.Context, event events.Event) error {
				sysLogger.Error("events", "document processing failed", event.Payload())
				return nil
			})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to document failure events: %v", err)
		}
	}

	pipeline := ingest.NewPipeline(uowFactory, splitter, embeddingProvider, corpusCache, sysLogger)
	orchestrator := rag.NewOrchestrator(
		llmProvider,
		embeddingProvider,
		corpusCache,
		cfg.Ai.RetrievalTopK,
		cfg.Ai.ScoreThreshold,
		sysLogger,
	)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.DocumentUploadedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.DocumentUploadedTopic,
		pipeline,
		uowFactory,
		publisherService,
		natsPub,
		wsHub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	sessionService := service.NewStudySessionService(uowFactory)
	noteService := service.NewNoteService(uowFactory)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		natsPub,
		corpusCache,
		cfg.Storage.UploadDir,
		cfg.Storage.MaxUploadSizeMB,
	)
	chatService := service.NewChatService(uowFactory, orchestrator, cfg.Ai.MaxHistoryMessages)

	// 5. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		StudySessionController: controller.NewStudySessionController(sessionService),
		NoteController:         controller.NewNoteController(noteService),
		DocumentController:     controller.NewDocumentController(documentService),
		ChatController:         controller.NewChatController(chatService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
