package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/awsx"
	"github.com/luislem95/api-gestor-pedidos/internal/catalog"
	"github.com/luislem95/api-gestor-pedidos/internal/config"
	"github.com/luislem95/api-gestor-pedidos/internal/handlers"
	"github.com/luislem95/api-gestor-pedidos/internal/middleware"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/receipts"
	"github.com/luislem95/api-gestor-pedidos/internal/sessions"
	"github.com/luislem95/api-gestor-pedidos/internal/storage"
	"github.com/sirupsen/logrus"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func setupRouter(cfg handlers.Config, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// frontend is served from a different origin; the API is fully open
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.Register(r, cfg)

	return r
}

func main() {
	log := newLogger()
	cfg := config.Load()

	ctx := context.Background()
	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to init aws clients")
	}

	dynamo := clients.DynamoDB
	if os.Getenv("STORAGE_BACKEND") == "memory" {
		// local development without a DynamoDB endpoint
		dynamo = storage.NewMemoryDynamo()
	}

	table := storage.NewTable(dynamo, cfg.TableName, cfg.OwnerIndex)
	sessionStore := sessions.NewStore(table, cfg.SessionTTL)
	orderStore := orders.NewStore(table)

	handlerCfg := handlers.Config{
		Sessions: sessionStore,
		Orders:   orderStore,
		Confirm:  orders.NewWorkflow(sessionStore, orderStore),
		Catalog:  catalog.NewStore(table),
		Receipts: receipts.NewService(clients.S3, clients.Presigner, table, cfg.Bucket, cfg.UploadPrefix, cfg.SignedURLTTL),
		Logger:   log,
	}

	r := setupRouter(handlerCfg, log)

	if cfg.RunLocal {
		addr := ":" + cfg.Port
		log.WithField("addr", addr).Info("running local server")
		if err := r.Run(addr); err != nil {
			log.WithError(err).Fatal("failed to run local server")
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
