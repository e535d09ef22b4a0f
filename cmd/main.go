package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"lojapix/config"
	"lojapix/internal/pkg/cache"
	"lojapix/internal/pkg/database"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/storage"
	"lojapix/internal/pkg/token"
	"lojapix/internal/pkg/webhook"

	// Camadas da aplicação para Injeção de Dependências
	"lojapix/internal/api/arquivo"
	"lojapix/internal/api/auth"
	"lojapix/internal/api/compra"
	apiconfig "lojapix/internal/api/config"
	"lojapix/internal/api/produto"
	"lojapix/internal/api/router"
	"lojapix/internal/domain"
	"lojapix/internal/repository/adminrepo"
	"lojapix/internal/repository/compraredisrepo"
	"lojapix/internal/repository/comprarepo"
	"lojapix/internal/repository/configrepo"
	"lojapix/internal/repository/produtorepo"
	"lojapix/internal/repository/staticrepo"
	"lojapix/internal/service/authservice"
	"lojapix/internal/service/compraservice"
	"lojapix/internal/service/configservice"
	"lojapix/internal/service/produtoservice"
)

// @title LojaPix API
// @version 1.0
// @description API da loja de produtos digitais com pagamento PIX: catálogo, checkout com token de acesso temporário e back-office.
// @BasePath /v1
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço LojaPix...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Cache (Redis). Sempre presente: cache do catálogo, rate limiting e
	// os registros de compra do modo demonstração.
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	logg.Info("Conexão Redis estabelecida.", nil)

	// B. Banco de Dados (PostgreSQL). A falha aqui NÃO derruba o serviço:
	// a loja degrada para o modo demonstração com o catálogo embutido.
	demoMode := false
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Warn("Banco de dados inacessível. Ativando modo demonstração.", map[string]interface{}{"err": err.Error()})
		demoMode = true
	} else {
		defer db.Close()
		logg.Info("Conexão PostgreSQL estabelecida.", nil)
	}

	// 3. Seleção do modo de operação (uma única vez, no startup)

	var (
		productRepo  domain.ProductRepository
		purchaseRepo domain.PurchaseRepository
		configRepo   domain.SiteConfigRepository
		adminRepo    domain.AdminRepository
	)

	if !demoMode {
		liveProducts := produtorepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, logg)

		probeCtx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		switch probeErr := liveProducts.Probe(probeCtx); probeErr {
		case nil:
			productRepo = liveProducts
			purchaseRepo = comprarepo.NewPurchaseRepository(db, cfg.DBTimeout, logg)
			configRepo = configrepo.NewSiteConfigRepository(db, cfg.DBTimeout, logg)
			adminRepo = adminrepo.NewAdminRepository(db, cfg.DBTimeout, logg)
		case produtorepo.ErrTableMissing:
			logg.Warn("Tabela de produtos ausente. Ativando modo demonstração.", nil)
			demoMode = true
		default:
			logg.Warn("Falha ao sondar o banco de dados. Ativando modo demonstração.", map[string]interface{}{"err": probeErr.Error()})
			demoMode = true
		}
		cancel()
	}

	if demoMode {
		productRepo = staticrepo.NewProductRepository()
		purchaseRepo = compraredisrepo.NewPurchaseRepository(cacheClient, logg)
		configRepo = staticrepo.NewSiteConfigRepository()
		adminRepo = adminrepo.NewDemoRepository(cacheClient, cfg.AdminEmail, cfg.AdminPassword, logg)
		logg.Info("🎭 Loja operando em modo demonstração.", nil)
	}

	// 4. Clientes Externos

	// Armazenamento de objetos (opcional: sem URL, o checkout segue sem URL assinada)
	var storageClient storage.Client
	if cfg.StorageURL != "" {
		storageClient = storage.NewHTTPClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageTimeout)
		logg.Debug("Cliente de armazenamento de objetos inicializado.", nil)
	}

	notifier := webhook.NewHTTPNotifier(cfg.WebhookURL, cfg.WebhookTimeout)

	// Serviço de Tokens (JWT de sessão do back-office)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	logg.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 5. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)

	productSvc := produtoservice.NewService(productRepo, logg)
	purchaseSvc := compraservice.NewService(productRepo, purchaseRepo, storageClient, notifier, compraservice.Params{
		TokenLength:   cfg.PurchaseTokenLength,
		ExpiryMinutes: cfg.PurchaseExpiryMin,
		PublicBaseURL: cfg.PublicBaseURL,
		BucketPDFs:    cfg.BucketPDFs,
	}, logg)
	configSvc := configservice.NewService(configRepo, logg)
	authSvc := authservice.NewService(adminRepo, tokenSvc, logg)
	logg.Debug("Serviços inicializados.", nil)

	produtoHandler := produto.NewHandler(productSvc, logg)
	compraHandler := compra.NewHandler(purchaseSvc, compraservice.NewCountdown(), logg)
	configHandler := apiconfig.NewHandler(configSvc, logg)
	authHandler := auth.NewHandler(authSvc, logg)
	arquivoHandler := arquivo.NewHandler(storageClient, cfg.BucketAssets, cfg.BucketPDFs, logg)
	logg.Debug("Handlers inicializados.", nil)

	// 6. Configuração e Início do Roteador/Servidor

	r := router.NewRouter(router.Deps{
		Produto:              produtoHandler,
		Compra:               compraHandler,
		Config:               configHandler,
		Auth:                 authHandler,
		Arquivo:              arquivoHandler,
		TokenService:         tokenSvc,
		Cache:                cacheClient,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Execução e Graceful Shutdown
	go func() {
		logg.Info("Servidor LojaPix ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}

	logg.Info("Servidor encerrado com sucesso.", nil)
}
