package main

import (
	"context"
	"log"
	"net/http"
	"time"

	httpadapter "github.com/dentalschoolguide/eden-agent/internal/adapters/http"
	"github.com/dentalschoolguide/eden-agent/internal/adapters/llm"
	"github.com/dentalschoolguide/eden-agent/internal/adapters/search"
	memstore "github.com/dentalschoolguide/eden-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/dentalschoolguide/eden-agent/internal/adapters/storage/sqlite"
	"github.com/dentalschoolguide/eden-agent/internal/app/agents"
	"github.com/dentalschoolguide/eden-agent/internal/app/chat"
	"github.com/dentalschoolguide/eden-agent/internal/app/retrieval"
	"github.com/dentalschoolguide/eden-agent/internal/app/tools"
	"github.com/dentalschoolguide/eden-agent/internal/config"
	"github.com/dentalschoolguide/eden-agent/internal/domain"
	"github.com/dentalschoolguide/eden-agent/internal/observability"
)

const docCacheTTL = 10 * time.Minute

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := observability.Logger()

	// Agent runtime: mock for dev, Gemini otherwise.
	var (
		runtime  chat.AgentRuntime
		embedder retrieval.Embedder
	)
	if cfg.UseMockLLM {
		logger.Info("using mock agent runtime")
		runtime = llm.NewMockRuntime()
	} else {
		logger.Info("using gemini agent runtime", "vertex", cfg.Mode == config.ModeGCP)
		gemini, err := llm.NewGeminiRuntime(ctx, llm.GeminiOptions{
			APIKey:         cfg.GeminiAPIKey,
			Project:        cfg.GCPProjectID,
			Location:       cfg.GCPLocation,
			UseVertex:      cfg.Mode == config.ModeGCP,
			EmbeddingModel: cfg.EmbeddingModel,
		})
		if err != nil {
			log.Fatalf("initializing gemini runtime: %v", err)
		}
		runtime = gemini
		embedder = gemini
	}

	// Storage: SQLite or memory. One store implements all three ports.
	var (
		conversations domain.ConversationStore
		messages      domain.MessageStore
		links         domain.SourceLinkStore
	)
	switch cfg.StorageBackend {
	case "sqlite":
		logger.Info("using sqlite storage", "path", cfg.SQLitePath)
		store, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("initializing sqlite store: %v", err)
		}
		defer store.Close()
		conversations, messages, links = store, store, store
	default:
		logger.Info("using in-memory storage")
		store := memstore.NewStore()
		conversations, messages, links = store, store, store
	}

	// Knowledge-base retrieval is only wired when both the search RPC and
	// an embedder are available.
	var retriever retrieval.Retriever
	if cfg.VectorSearchURL != "" && embedder != nil {
		logger.Info("knowledge base retrieval enabled", "url", cfg.VectorSearchURL)
		searcher := search.NewClient(cfg.VectorSearchURL, cfg.VectorSearchKey)
		retriever = retrieval.NewLessonRetriever(embedder, searcher)
	}

	cache := tools.NewDocCache(&http.Client{Timeout: 20 * time.Second}, docCacheTTL)
	toolset := agents.Toolset{
		SchoolWebsite: tools.NewSchoolWebsiteTool(),
		EssayScoring:  tools.NewEssayScoringTool(),
	}
	if cfg.StatsSheetURL != "" {
		toolset.SchoolStats = tools.NewSchoolStatsTool(cache, cfg.StatsSheetURL)
	}
	if cfg.FAQDocURL != "" {
		toolset.FAQ = tools.NewFAQTool(cache, cfg.FAQDocURL)
	}
	if cfg.InterviewDocURL != "" {
		toolset.InterviewQuestions = tools.NewInterviewQuestionsTool(cache, cfg.InterviewDocURL)
	}
	if cfg.VolunteerDocURL != "" {
		toolset.Volunteer = tools.NewVolunteerTool(cache, cfg.VolunteerDocURL)
	}

	registry := agents.NewRegistry(agents.Models{Pro: cfg.ProModel, Flash: cfg.FlashModel}, toolset, retriever)

	svc := chat.NewService(registry, runtime, conversations, messages, links, chat.Options{
		TitleModel: cfg.TitleModel,
		PatchDelay: cfg.SourcePatchDelay,
	})

	verifier := httpadapter.NewStaticTokenVerifier(cfg.AuthTokens)
	handler := httpadapter.NewServer(svc, verifier)

	addr := ":" + cfg.Port
	logger.Info("eden api listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
