package server

import (
	"context"
	"net/http"
	"strings"

	"backbar/internal/handlers"
	applog "backbar/internal/log"
	"backbar/internal/metrics"
)

func newRouter(cfg Config, limiter *clientLimiter) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/logout", handlers.Logout)
	mux.Handle("/metrics", metrics.Handler())
	applog.Debug(context.Background(), "public routes registered", "paths", "/healthz /login /logout /metrics")

	protected := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(handlers.RequireCostEditor(h))
	}
	mux.Handle("/app/api/ingredients", protected(handlers.IngredientResource))
	mux.Handle("/app/api/ingredients/", protected(handlers.IngredientResource))
	mux.Handle("/app/api/recipes", protected(handlers.RecipeResource))
	mux.Handle("/app/api/recipes/", protected(handlers.RecipeResource))
	mux.Handle("/app/api/match", protected(handlers.Match))
	mux.Handle("/app/api/import/recipe", limiter.limit(protected(handlers.ImportRecipe)))
	mux.Handle("/app/api/uploads", protected(handlers.UploadImage))
	mux.Handle("/app/recipes/", handlers.RequireAuthentication(http.HandlerFunc(handlers.RecipeCostingPage)))
	applog.Debug(context.Background(), "route registered", "path", "/app", "protected", true)

	if cfg.UploadDir != "" {
		prefix := strings.TrimRight(cfg.UploadURL, "/") + "/"
		mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir))))
		applog.Debug(context.Background(), "route registered", "path", prefix, "static", true)
	}
	return &profileLimiter{next: mux, limiter: limiter}
}

// profileLimiter applies the AI rate limit to the ingredient profile lookup,
// which shares its path prefix with the ingredient resource.
type profileLimiter struct {
	next    http.Handler
	limiter *clientLimiter
}

func (p *profileLimiter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && strings.TrimRight(r.URL.Path, "/") == "/app/api/ingredients/profile" {
		p.limiter.limit(p.next).ServeHTTP(w, r)
		return
	}
	p.next.ServeHTTP(w, r)
}
