package httptransport

import (
	"net/http"

	"guidedjournal/internal/config"
	"guidedjournal/internal/httpx"
	"guidedjournal/internal/metrics"
	"guidedjournal/internal/service"
	"guidedjournal/internal/storage"
	"guidedjournal/internal/storage/providers"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Templates *TemplateHandlers
	Guided    *GuidedHandlers
	Entries   *EntryHandlers
}

func Router(db storage.DB, cfg *config.Config) *mux.Router {
	allProviders := providers.New(db)

	templateService := service.NewTemplateService(allProviders.TemplateProvider)
	factsBuilder := service.NewFactsBuilder(allProviders.JournalProvider, cfg.Journal.DefaultTimezone)
	resolver := service.NewResolver(allProviders.TemplateProvider)
	guidedService := service.NewGuidedService(factsBuilder, resolver, templateService)
	entryService := service.NewEntryService(allProviders.JournalProvider, guidedService, factsBuilder)

	return NewRouter(Handlers{
		Templates: NewTemplateHandlers(templateService),
		Guided:    NewGuidedHandlers(guidedService),
		Entries:   NewEntryHandlers(entryService),
	}, allProviders.UserProvider, cfg)
}

func NewRouter(h Handlers, users httpx.UserProvider, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()
	router.Use(httpx.RequestID, metrics.Middleware)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, HealthStatus{Status: "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(
		httpx.Protected(cfg.JWT.Secret),
		httpx.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		httpx.Journaler(users),
	)

	templates := api.PathPrefix("/templates").Subrouter()
	templates.HandleFunc("", h.Templates.ListTemplates).Methods(http.MethodGet)
	templates.HandleFunc("", h.Templates.CreateTemplate).Methods(http.MethodPost)
	templates.HandleFunc("/{id:[0-9]+}", h.Templates.GetTemplate).Methods(http.MethodGet)
	templates.HandleFunc("/{id:[0-9]+}", h.Templates.UpdateTemplate).Methods(http.MethodPut)
	templates.HandleFunc("/{id:[0-9]+}", h.Templates.DeleteTemplate).Methods(http.MethodDelete)
	templates.HandleFunc("/{id:[0-9]+}/questions", h.Templates.AddQuestion).Methods(http.MethodPost)
	templates.HandleFunc("/{id:[0-9]+}/questions-order", h.Templates.ReorderQuestions).Methods(http.MethodPut)
	templates.HandleFunc("/{id:[0-9]+}/questions/{questionId}", h.Templates.UpdateQuestion).Methods(http.MethodPut)
	templates.HandleFunc("/{id:[0-9]+}/questions/{questionId}", h.Templates.RemoveQuestion).Methods(http.MethodDelete)

	api.HandleFunc("/guided", h.Guided.Questions).Methods(http.MethodGet)
	api.HandleFunc("/guided/preview", h.Guided.Preview).Methods(http.MethodPost)

	api.HandleFunc("/entries", h.Entries.SubmitEntry).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id:[0-9]+}", h.Entries.GetEntry).Methods(http.MethodGet)

	return router
}
