package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"

	"smartpath-backend/internal/ai"
	"smartpath-backend/internal/analytics"
	"smartpath-backend/internal/auth"
	"smartpath-backend/internal/config"
	"smartpath-backend/internal/db"
	"smartpath-backend/internal/goals"
	"smartpath-backend/internal/ner"
	"smartpath-backend/internal/tasks"
	"smartpath-backend/internal/topics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Config error:", err)
	}

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	// The tagger must be up before we serve anything.
	tagger := ner.NewClient(cfg.NERModelURL)
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := tagger.Load(loadCtx); err != nil {
		log.Fatal("❌ Failed to load NER model:", err)
	}

	log.Println("✅ NER model ready!")

	llm := ai.New(cfg.AnthropicKey, cfg.AnthropicModel)
	aiHandler := ai.NewHandler(tagger, llm, database)

	topicRepo := topics.NewRepository()
	topicHandler := topics.New(topicRepo)

	secret := []byte(cfg.JWTSecret)
	authMW := auth.New(secret)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AI PIPELINE -----
	mux.HandleFunc("/ai/validate", postOnly(aiHandler.Validate))
	mux.HandleFunc("/ai/generate-questions", postOnly(aiHandler.GenerateQuestions))
	mux.HandleFunc("/ai/submit-question", postOnly(aiHandler.SubmitQuestion))
	mux.HandleFunc("/ai/generate-task", postOnly(aiHandler.GenerateTask))

	// ----- GOALS / TASKS (SQL) -----
	mux.HandleFunc("/goals", goals.CollectionHandler(database))
	mux.HandleFunc("/goals/", goals.ItemHandler(database))
	mux.HandleFunc("/tasks", tasks.CollectionHandler(database))
	mux.HandleFunc("/tasks/", tasks.ItemHandler(database))

	// ----- TOPICS (in-memory prototype store) -----
	mux.HandleFunc("/topics", topicHandler.Collection)
	mux.HandleFunc("/topics/", topicHandler.Item)

	// ----- AUTH -----
	mux.HandleFunc("/auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("/auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("/auth/me", authMW.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("/auth/account", authMW.Wrap(auth.DeleteAccountHandler(database)))

	// ----- ANALYTICS -----
	mux.HandleFunc("/analytics/app-opened", authMW.Wrap(analytics.AppOpenedHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("🚀 API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			next(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
