package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizdesk/internal/dbmysql"
	"bizdesk/internal/wire"

	"github.com/gorilla/mux"
)

func main() {
	log.Println("Initializing application...")
	app, err := wire.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Collaborator tables are owned by the CRUD side of the backend; the
	// migration here only keeps local development self-contained.
	if err := app.DB.AutoMigrate(
		&dbmysql.User{},
		&dbmysql.Client{},
		&dbmysql.Budget{},
		&dbmysql.LoginRecord{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app.Scheduler.Start()

	router := mux.NewRouter()
	app.Handler.Register(router)

	srv := &http.Server{
		Addr:         app.Config.Server.Host + ":" + app.Config.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	app.Scheduler.Stop()
	if app.Hub != nil {
		app.Hub.Shutdown()
	}
	log.Println("Server stopped")
}
