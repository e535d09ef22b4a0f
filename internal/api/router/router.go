package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"lojapix/internal/api/arquivo"
	"lojapix/internal/api/auth"
	"lojapix/internal/api/compra"
	"lojapix/internal/api/config"
	"lojapix/internal/api/produto"
	"lojapix/internal/domain"
	"lojapix/internal/pkg/cache"
	"lojapix/internal/pkg/middleware"

	_ "lojapix/docs" // registro da documentação OpenAPI
)

// Deps agrupa os Handlers e a infraestrutura que o roteador precisa amarrar.
type Deps struct {
	Produto *produto.Handler
	Compra  *compra.Handler
	Config  *config.Handler
	Auth    *auth.Handler
	Arquivo *arquivo.Handler

	TokenService middleware.TokenService
	Cache        cache.Client

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(deps Deps) http.Handler {

	// ServeMux padrão do net/http, com os padrões método+rota do Go 1.22.
	mux := http.NewServeMux()

	// Cadeia das rotas do back-office: JWT válido + papel de administrador.
	authMW := middleware.NewAuthMiddleware(deps.TokenService)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return authMW(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}

	// Limite por IP nas rotas abertas a abuso (checkout e login).
	limited := func(next http.HandlerFunc) http.Handler {
		return middleware.RateLimiter(deps.Cache, deps.RateLimitMaxRequests, deps.RateLimitPeriod)(next)
	}

	// --- Health check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- Vitrine (público) ---
	mux.HandleFunc("GET /v1/produtos", deps.Produto.ListProductsHandler)
	mux.HandleFunc("GET /v1/produtos/{id}", deps.Produto.GetProductHandler)
	mux.HandleFunc("GET /v1/config", deps.Config.GetConfigHandler)

	// --- Fluxo de compra (público) ---
	mux.Handle("POST /v1/checkout", limited(deps.Compra.CheckoutHandler))
	mux.HandleFunc("GET /v1/produtos/{id}/acesso", deps.Compra.AccessHandler)
	mux.HandleFunc("GET /v1/produtos/{id}/acesso/contagem", deps.Compra.CountdownHandler)
	mux.HandleFunc("POST /v1/acesso/reenviar", deps.Compra.ResendHandler)

	// --- Autenticação ---
	mux.Handle("POST /v1/auth/login", limited(deps.Auth.LoginHandler))
	mux.HandleFunc("POST /v1/auth/logo", deps.Auth.LogoClickHandler)
	mux.HandleFunc("POST /v1/auth/senha", admin(deps.Auth.ChangePasswordHandler))

	// --- Back-office (restrito) ---
	mux.HandleFunc("POST /v1/produtos", admin(deps.Produto.CreateProductHandler))
	mux.HandleFunc("PUT /v1/produtos/{id}", admin(deps.Produto.UpdateProductHandler))
	mux.HandleFunc("DELETE /v1/produtos/{id}", admin(deps.Produto.DeleteProductHandler))
	mux.HandleFunc("PUT /v1/config", admin(deps.Config.SaveConfigHandler))
	mux.HandleFunc("POST /v1/arquivos", admin(deps.Arquivo.UploadHandler))
	mux.HandleFunc("DELETE /v1/arquivos", admin(deps.Arquivo.DeleteHandler))

	// --- Documentação OpenAPI ---
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	return mux
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
