// Command ecosocial-dashboard serves the CO2 emissions vs food
// affordability dashboard over HTTP. The dataset is read once at startup
// from a SQLite database or a CSV file and cached until an explicit reload
// through the API.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecosocial/dashboard/dashboard"
	"github.com/ecosocial/dashboard/internal/log"
	"github.com/ecosocial/dashboard/store"
)

func main() {
	dbPath := flag.String("db", "data/database/south_africa_analysis.db", "path to the SQLite database")
	table := flag.String("table", "environmental_social_data", "indicator table name")
	csvPath := flag.String("csv", "", "load from a CSV file instead of SQLite")
	addr := flag.String("addr", ":8080", "listen address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	var loader store.Loader
	if *csvPath != "" {
		loader = store.NewCSVLoader(*csvPath)
	} else {
		sqliteLoader, err := store.OpenSQLite(*dbPath, *table)
		if err != nil {
			log.Fatalf("unable to open data source: %v", err)
		}
		defer sqliteLoader.Close()
		loader = sqliteLoader
	}

	cache := store.NewCache(loader)
	ds, err := cache.Dataset()
	if err != nil {
		log.Fatalf("unable to load dataset from %s: %v", loader.Source(), err)
	}
	log.Infow("dataset loaded",
		"source", loader.Source(),
		"records", ds.Len(),
		"min_year", ds.MinYear(),
		"max_year", ds.MaxYear(),
	)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      dashboard.NewServer(cache, log.GetSugaredLogger()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("dashboard listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infof("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown failed", "error", err)
	}
}
