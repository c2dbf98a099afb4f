package main

import (
	"errors"
	"log"
	"net/http"

	_ "CommitBuddy_NutritionAdvisor/docs"
	"CommitBuddy_NutritionAdvisor/internal/advisor"
	"CommitBuddy_NutritionAdvisor/internal/config"
	"CommitBuddy_NutritionAdvisor/internal/handler"
	"CommitBuddy_NutritionAdvisor/internal/llm"
	"CommitBuddy_NutritionAdvisor/internal/render"
	"CommitBuddy_NutritionAdvisor/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title        CommitBuddy Nutrition Advisor API
// @version      1.0
// @description  Personalized nutrition plans from a three-stage agent crew (Groq + Serper).
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrMissingCredentials) {
			log.Fatalf("main(): config.Load failed: %v", err)
		}
		log.Printf("[WARN] main(): %v", err)
	}

	def, err := advisor.LoadDefinition(cfg.CrewConfig, advisor.SearchToolKey)
	if err != nil {
		log.Fatalf("main(): advisor.LoadDefinition failed: %v", err)
	}

	model := llm.NewClient(cfg.GroqAPIKey, cfg.Model, cfg.Temperature,
		llm.WithBaseURL(cfg.GroqBaseURL),
		llm.WithTimeout(cfg.HTTPTimeout),
	)
	serper := search.NewSerperTool(cfg.SerperAPIKey,
		search.WithBaseURL(cfg.SerperBaseURL),
		search.WithMaxResults(cfg.SerperResults),
		search.WithCountry(cfg.SerperCountry),
		search.WithHttpClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	adv := advisor.New(def, model,
		advisor.WithTool(advisor.SearchToolKey, serper),
		advisor.WithMaxIter(cfg.MaxIter),
	)

	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))

	handler.SetupRoutes(router, handler.NewPlanHandler(adv, render.New()), cfg)

	log.Printf("main(): listening on %s (model %s)", cfg.Addr(), model.Model())
	log.Fatal(router.Run(cfg.Addr()))
}
