package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"guidedjournal/internal/config"
	"guidedjournal/internal/seed"
	"guidedjournal/internal/service"
	"guidedjournal/internal/storage"
	"guidedjournal/internal/storage/providers"
)

func main() {
	var seedsPath string
	flag.StringVar(&seedsPath, "seeds", "./seeds/system_templates.yaml", "system template seed file")
	cfg := config.MustLoad()

	templates, err := seed.Load(seedsPath)
	if err != nil {
		slog.Error("failed to load seeds", "err", err, "path", seedsPath)
		os.Exit(1)
	}

	db, err := storage.InitDB(cfg.DatabaseUrl, cfg.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	templateService := service.NewTemplateService(providers.New(db).TemplateProvider)
	created := 0
	for _, t := range templates {
		questions, err := t.QuestionCreates()
		if err != nil {
			slog.Error("invalid seed template", "err", err, "name", t.Name)
			os.Exit(1)
		}
		tpl, isNew, err := templateService.SeedSystemTemplate(ctx, t.Create(), questions)
		if err != nil {
			slog.Error("failed to seed template", "err", err, "name", t.Name)
			os.Exit(1)
		}
		if isNew {
			created++
		} else {
			slog.Info("system template already present", "template_id", tpl.ID, "name", tpl.Name)
		}
	}
	slog.Info("seeding finished", "templates", len(templates), "created", created)
}
