package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Jiegrein/PersonalBankNote/internal/archive"
	"github.com/Jiegrein/PersonalBankNote/internal/mail"
	"github.com/Jiegrein/PersonalBankNote/internal/server"
	"github.com/Jiegrein/PersonalBankNote/internal/service"
	"github.com/Jiegrein/PersonalBankNote/internal/store"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8111"
	}

	ctx := context.Background()

	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"

	var storeImpl store.Store
	if useMemoryStore {
		log.Println("Using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			log.Fatal("GOOGLE_CLOUD_PROJECT is required when not using the memory store")
		}

		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	financeService := service.NewFinanceService(storeImpl)

	// Email sync stays disabled unless a Graph token is supplied.
	if token := os.Getenv("GRAPH_ACCESS_TOKEN"); token != "" {
		financeService.SetMailSource(mail.NewGraphClient(mail.StaticToken(token)))
		log.Println("Email sync enabled via Microsoft Graph")
	}

	if bucket := os.Getenv("ARCHIVE_BUCKET"); bucket != "" {
		gcsClient, err := gcs.NewClient(ctx)
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
		defer gcsClient.Close()
		financeService.SetArchiver(archive.NewGCSArchive(gcsClient.Bucket(bucket)))
		log.Printf("Email archival enabled to bucket %s", bucket)
	}

	mux := http.NewServeMux()
	mux.Handle("/", server.New(financeService))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
		},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Printf("Starting server on port %s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
