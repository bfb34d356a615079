package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"inventory_back_end/internal/config"
	"inventory_back_end/internal/database"
	"inventory_back_end/internal/handlers/product"
	"inventory_back_end/internal/middleware"
	"inventory_back_end/internal/routes"
	"inventory_back_end/internal/service"
	"inventory_back_end/internal/store"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.CloseScylla()

	// Les passerelles sont injectées explicitement dans le service pour
	// pouvoir les remplacer par des fakes dans les tests
	productStore := store.NewScyllaProductStore(database.Scylla)
	blobStore := store.NewMinioBlobStore(
		database.MinIO,
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_BUCKET"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)

	svc := service.NewProductService(productStore, blobStore)
	handler := product.NewHandler(svc)

	r := gin.Default()

	// CORS ouvert — le panneau d'administration est servi depuis une autre origine
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type"}
	r.Use(cors.New(corsConfig))

	r.Use(middleware.APIRateLimit())

	routes.RegisterRoutes(r, handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur inventaire lancé sur le port", port)
	r.Run(":" + port)
}
