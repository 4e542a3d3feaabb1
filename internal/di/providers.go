package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"todo-backend/internal/handlers"
	"todo-backend/internal/observability"
	"todo-backend/internal/repository"
	"todo-backend/internal/repository/ddb"
	"todo-backend/internal/repository/memstore"
	"todo-backend/internal/router"
	"todo-backend/internal/service/todo"
	"todo-backend/pkg/auth"
	"todo-backend/pkg/config"
)

// Version is reported by /health. Overridden at link time.
var Version = "dev"

const (
	serviceName      = "todo-backend"
	metricsNamespace = "todo"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideAWSConfig creates AWS configuration. The SDK middleware stack is
// instrumented for X-Ray when tracing is on.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client. DYNAMODB_ENDPOINT points
// it at DynamoDB Local.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideCollector returns the Prometheus collector, or nil when metrics
// are disabled.
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideRepository selects the store backend and wraps it with metrics and
// tracing. The DynamoDB client is only built for the dynamodb backend.
func ProvideRepository(
	ctx context.Context,
	cfg *config.Config,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (repository.TodoRepository, error) {
	var store repository.TodoRepository

	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		store = memstore.New()
	default:
		repoCfg := repository.NewConfig(cfg.TableName, cfg.IndexName)
		if err := repoCfg.Validate(); err != nil {
			return nil, err
		}
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = ddb.NewStore(ProvideDynamoDBClient(awsCfg, cfg), repoCfg, logger)
	}

	return observability.NewInstrumentedRepository(store, collector, tracer), nil
}

// ProvideService creates the todo service.
func ProvideService(repo repository.TodoRepository, logger *zap.Logger) todo.Service {
	return todo.NewService(repo, todo.WithLogger(logger))
}

// ProvideTodoHandler creates the todo HTTP handler.
func ProvideTodoHandler(svc todo.Service, logger *zap.Logger) *handlers.TodoHandler {
	return handlers.NewTodoHandler(svc, logger)
}

// ProvideHealthHandler creates the health handler.
func ProvideHealthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler(Version)
}

// ProvideVerifier returns a token validator when tokens must be verified
// in-process, nil otherwise.
func ProvideVerifier(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.VerifyTokens() {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: cfg.JWTSigningMethod,
		SecretKey:     cfg.JWTSecret,
		PublicKey:     cfg.JWTPublicKey,
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
	})
}

// ProvideRouterOptions maps configuration onto router features.
func ProvideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{
		BasePath:       cfg.BasePath,
		ExposeMetrics:  cfg.EnableMetrics && !cfg.IsLambda,
		CircuitBreaker: cfg.EnableCircuitBreaker,
	}
}

// ProvideRouter creates the router.
func ProvideRouter(
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
	collector *observability.Collector,
	verifier *auth.JWTValidator,
	logger *zap.Logger,
	options router.Options,
) *router.Router {
	return router.NewRouter(todoHandler, healthHandler, collector, verifier, logger, options)
}
