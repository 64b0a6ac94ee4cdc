package chatd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/logger"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
	"github.com/kart-io/sentinel-x/internal/classifier"
	"github.com/kart-io/sentinel-x/internal/conversation"
	"github.com/kart-io/sentinel-x/internal/memory/buffer"
	"github.com/kart-io/sentinel-x/internal/memory/embed"
	"github.com/kart-io/sentinel-x/internal/memory/intelligence"
	memstore "github.com/kart-io/sentinel-x/internal/memory/store"
	"github.com/kart-io/sentinel-x/internal/orchestrator"
	"github.com/kart-io/sentinel-x/internal/prompt"
	"github.com/kart-io/sentinel-x/internal/session"
	"github.com/kart-io/sentinel-x/internal/userstate"

	jwtauth "github.com/kart-io/sentinel-x/pkg/auth/jwt"
	milvuscomponent "github.com/kart-io/sentinel-x/pkg/component/milvus"
	"github.com/kart-io/sentinel-x/pkg/component/mongodb"
	"github.com/kart-io/sentinel-x/pkg/component/postgres"
	rediscomponent "github.com/kart-io/sentinel-x/pkg/component/redis"
	"github.com/kart-io/sentinel-x/pkg/id"
	infraMiddleware "github.com/kart-io/sentinel-x/pkg/infra/middleware"
	"github.com/kart-io/sentinel-x/pkg/infra/pool"
	"github.com/kart-io/sentinel-x/pkg/llm"
	mwopts "github.com/kart-io/sentinel-x/pkg/options/middleware"

	// Provider packages self-register via init(); blank-import every provider
	// this build supports so ProviderOptions.Provider can select any of them.
	_ "github.com/kart-io/sentinel-x/pkg/llm/deepseek"
	_ "github.com/kart-io/sentinel-x/pkg/llm/gemini"
	_ "github.com/kart-io/sentinel-x/pkg/llm/huggingface"
	_ "github.com/kart-io/sentinel-x/pkg/llm/ollama"
	_ "github.com/kart-io/sentinel-x/pkg/llm/openai"
	_ "github.com/kart-io/sentinel-x/pkg/llm/siliconflow"
)

// App holds every wired component a running chatd process needs, so serve
// and migrate can share one construction path.
type App struct {
	opts *Options

	pg     *postgres.Client
	redis  *rediscomponent.Client
	mongo  *mongodb.Client
	milvus *milvuscomponent.Client

	authn *jwtauth.JWT
	users *UserResolver

	orch *orchestrator.Orchestrator

	bgPool *pool.Pool
}

// Build constructs every component New* calls for, composing them into a
// runnable server the same way this codebase's other app packages compose
// their Config, generalized to this domain's dependency graph.
func Build(ctx context.Context, opts *Options) (*App, error) {
	if err := opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}

	pg, err := postgres.NewWithContext(ctx, opts.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := rediscomponent.NewWithContext(ctx, opts.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	mongoClient, err := mongodb.NewWithContext(ctx, opts.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	milvusClient, err := milvuscomponent.New(opts.Milvus)
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	embeddingProvider, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("build embedding provider: %w", err)
	}
	chatProvider, err := llm.NewChatProvider(opts.Chat.Provider, opts.Chat.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("build chat provider: %w", err)
	}

	authn, err := jwtauth.New(
		jwtauth.WithOptions(opts.JWT),
		jwtauth.WithStore(jwtauth.NewMemoryStore()),
	)
	if err != nil {
		return nil, fmt.Errorf("build jwt authenticator: %w", err)
	}

	idgen := id.NewULIDGenerator()
	genID := idgen.Generate

	bgPool, err := pool.NewPool("chatd-extraction", pool.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("build background pool: %w", err)
	}

	db := pg.DB()
	users := NewUserResolver(db, genID)
	systemUserID, err := users.EnsureSystemUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensure system user: %w", err)
	}

	sessions := newSessionManager(opts, redisClient.Client())
	buf := newBuffer(opts, redisClient.Client())

	clf := classifier.New(chatProvider, mongoClient.Database())

	convStore := conversation.New(db, genID)
	embedder := embed.New(embeddingProvider, chatmodel.EmbeddingDimension)
	memories := memstore.New(db, milvusClient, chatmodel.EmbeddingDimension, 30*24*time.Hour, genID)
	if err := memories.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure milvus schema: %w", err)
	}

	userStore := userstate.NewStore(db, genID)
	preferences := userstate.NewPreferenceService(userStore)
	personality := userstate.NewPersonalityService(userStore)
	emotion := userstate.NewEmotionService(userStore, chatProvider, 0.6)
	goals := userstate.NewGoalService(userStore)

	categorizer := intelligence.NewCategorizer(chatProvider)
	extractor := intelligence.NewExtractor(categorizer, embedder, memories)

	cfg := orchestrator.DefaultConfig(opts.Persona, systemUserID)
	cfg.RouteLockTurns = opts.RouteLockTurns

	orch := orchestrator.New(
		cfg,
		sessions,
		clf,
		convStore,
		buf,
		embedder,
		memories,
		preferences,
		personality,
		emotion,
		goals,
		extractor,
		chatProvider,
		bgPool,
		genID,
	)

	return &App{
		opts:   opts,
		pg:     pg,
		redis:  redisClient,
		mongo:  mongoClient,
		milvus: milvusClient,
		authn:  authn,
		users:  users,
		orch:   orch,
		bgPool: bgPool,
	}, nil
}

func newSessionManager(opts *Options, redisClient *goredis.Client) session.Manager {
	if opts.SingleReplica {
		return session.NewInMemoryManager()
	}
	return session.NewRedisManager(redisClient, 30*time.Minute)
}

func newBuffer(opts *Options, redisClient *goredis.Client) buffer.Buffer {
	if opts.SingleReplica {
		return buffer.NewInMemoryBuffer(prompt.DefaultBufferLimit)
	}
	return buffer.NewRedisBuffer(redisClient, prompt.DefaultBufferLimit, 30*time.Minute)
}

// Close releases every component's underlying connection.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.pg.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.redis.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.mongo.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.milvus.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	a.bgPool.Release()
	return errors.Join(errs...)
}

// Migrate auto-migrates the relational schema for every gorm-tagged model.
// Memory and AuditRecord are intentionally excluded: Memory's canonical
// store is Milvus (memstore.Store.EnsureSchema handles it) and
// AuditRecord lives only in Mongo.
func (a *App) Migrate(ctx context.Context) error {
	db := a.pg.DB().WithContext(ctx)
	return db.AutoMigrate(
		&chatmodel.User{},
		&chatmodel.Conversation{},
		&chatmodel.Message{},
		&chatmodel.Memory{},
		&chatmodel.PersonalityProfile{},
		&chatmodel.Preferences{},
		&chatmodel.EmotionRecord{},
		&chatmodel.Goal{},
		&chatmodel.GoalProgress{},
	)
}

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully — the same signal.Notify/context.WithTimeout shape as
// pkg/server.Manager's Run/Stop, reproduced directly since that manager's
// own HTTP transport has no registered gin bridge for this build.
func (a *App) Serve(ctx context.Context) error {
	router := a.newRouter()

	srv := &http.Server{
		Addr:    a.opts.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("chatd listening", "addr", a.opts.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ambientMiddleware lists the ambient, always-on gin middleware names, in
// the order pkg/options/middleware.Options.Build applies them: recovery
// first so nothing downstream can crash the process, request-id and
// logger so every later entry is attributable, cors last.
var ambientMiddleware = []string{
	mwopts.MiddlewareRecovery,
	mwopts.MiddlewareRequestID,
	mwopts.MiddlewareLogger,
	mwopts.MiddlewareCORS,
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()

	for _, name := range ambientMiddleware {
		factory, ok := mwopts.GetFactory(name)
		if !ok {
			continue
		}
		cfg, err := mwopts.Create(name)
		if err != nil {
			logger.Warnw("skipping middleware, no default config", "middleware", name, "error", err.Error())
			continue
		}
		h, err := factory.Create(cfg)
		if err != nil {
			logger.Warnw("skipping middleware, factory failed", "middleware", name, "error", err.Error())
			continue
		}
		r.Use(h)
	}

	limiter := infraMiddleware.NewRedisRateLimiter(a.redis.Client(), 60, time.Minute)

	r.GET("/healthz", a.handleHealthz)

	v1 := r.Group("/v1")
	v1.Use(RequireAuth(a.authn))
	v1.Use(PerUserRateLimit(limiter))
	v1.POST("/chat", a.handleChat)

	return r
}

// SetupSignalContext returns a context canceled on SIGINT/SIGTERM, mirroring
// pkg/server/server.go's Run() shutdown trigger.
func SetupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
