package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações da aplicação LojaPix.
type Config struct {
	// Geral
	Port          string
	Environment   string
	LogLevel      string
	PublicBaseURL string // base das URLs de acesso enviadas ao comprador

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT de sessão do back-office)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Fluxo de compra (token de acesso temporário)
	PurchaseTokenLength int
	PurchaseExpiryMin   int
	WebhookURL          string
	WebhookTimeout      time.Duration

	// Armazenamento de objetos
	StorageURL     string
	StorageKey     string
	StorageTimeout time.Duration
	BucketAssets   string
	BucketPDFs     string

	// Credenciais de fallback do modo demonstração
	AdminEmail    string
	AdminPassword string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		// 5. Fluxo de compra
		PurchaseTokenLength: getIntEnv("TOKEN_COMPRA_TAMANHO", 32),
		PurchaseExpiryMin:   getIntEnv("COMPRA_EXPIRACAO_MIN", 30),
		WebhookURL:          getEnv("WEBHOOK_URL", ""),
		WebhookTimeout:      getDurationEnv("WEBHOOK_TIMEOUT_SEC", 10) * time.Second,

		// 6. Armazenamento de objetos
		StorageURL:     getEnv("STORAGE_URL", ""),
		StorageKey:     getEnv("STORAGE_KEY", ""),
		StorageTimeout: getDurationEnv("STORAGE_TIMEOUT_SEC", 15) * time.Second,
		BucketAssets:   getEnv("STORAGE_BUCKET_PRODUTOS", "produtos"),
		BucketPDFs:     getEnv("STORAGE_BUCKET_PDFS", "pdfs"),

		// 7. Modo demonstração
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@lojapix.local"),
		AdminPassword: getEnv("ADMIN_SENHA", "admin123"),

		// 8. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
