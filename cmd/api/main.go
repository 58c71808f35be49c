package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/access"
	accessStore "github.com/MrJamesThe3rd/tally/internal/access/store"
	"github.com/MrJamesThe3rd/tally/internal/account"
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/calendar"
	calendarStore "github.com/MrJamesThe3rd/tally/internal/calendar/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/currency"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/document"
	documentStore "github.com/MrJamesThe3rd/tally/internal/document/store"
	"github.com/MrJamesThe3rd/tally/internal/export"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	accountHandler "github.com/MrJamesThe3rd/tally/internal/http/account"
	calendarHandler "github.com/MrJamesThe3rd/tally/internal/http/calendar"
	categoryHandler "github.com/MrJamesThe3rd/tally/internal/http/category"
	documentHandler "github.com/MrJamesThe3rd/tally/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/tally/internal/http/matching"
	movementHandler "github.com/MrJamesThe3rd/tally/internal/http/movement"
	reportHandler "github.com/MrJamesThe3rd/tally/internal/http/report"
	tagHandler "github.com/MrJamesThe3rd/tally/internal/http/tag"
	taskHandler "github.com/MrJamesThe3rd/tally/internal/http/task"
	userHandler "github.com/MrJamesThe3rd/tally/internal/http/user"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/importer/cgd"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
	"github.com/MrJamesThe3rd/tally/internal/movement"
	movementStore "github.com/MrJamesThe3rd/tally/internal/movement/store"
	"github.com/MrJamesThe3rd/tally/internal/report"
	reportStore "github.com/MrJamesThe3rd/tally/internal/report/store"
	"github.com/MrJamesThe3rd/tally/internal/tag"
	tagStore "github.com/MrJamesThe3rd/tally/internal/tag/store"
	"github.com/MrJamesThe3rd/tally/internal/task"
	taskStore "github.com/MrJamesThe3rd/tally/internal/task/store"
	"github.com/MrJamesThe3rd/tally/internal/user"
	userStore "github.com/MrJamesThe3rd/tally/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	var (
		engine    = access.NewEngine(accessStore.New(db))
		converter = currency.NewConverter(currency.DefaultRates())
		importers = importer.NewService(map[importer.Bank]importer.Parser{
			importer.BankCGD:     cgd.New(),
			importer.BankGeneric: importer.NewTableParser(importer.BankGeneric, importer.GenericProfiles...),
		})
	)

	var (
		userService     = user.NewService(userStore.New(db), auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry), auth.NewHasher(cfg.Auth.BcryptCost))
		accountService  = account.NewService(accountStore.New(db), converter, cfg.App.BaseCurrency)
		categoryService = category.NewService(categoryStore.New(db))
		movementService = movement.NewService(movementStore.New(db))
		matchingService = matching.NewService(matchingStore.New(db))
		tagService      = tag.NewService(tagStore.New(db))
		documentService = document.NewService(documentStore.New(db))
		taskService     = task.NewService(taskStore.New(db))
		calendarService = calendar.NewService(calendarStore.New(db))
		reportService   = report.NewService(reportStore.New(db))
	)

	exportService, err := export.NewService(movementService, documentService, cfg.Export.BaseURL, cfg.Export.Token)
	if err != nil {
		slog.Error("failed to configure export", "error", err)
		os.Exit(1)
	}

	router := tallyHttp.New(userService, cfg.CORS.Origins, tallyHttp.Handlers{
		Users:      userHandler.NewHandler(userService),
		Accounts:   accountHandler.NewHandler(accountService, engine),
		Categories: categoryHandler.NewHandler(categoryService, engine),
		Movements:  movementHandler.NewHandler(movementService, engine),
		Import:     importHandler.NewHandler(importers, movementService, matchingService, engine),
		Tags:       tagHandler.NewHandler(tagService, movementService, engine),
		Documents:  documentHandler.NewHandler(documentService, engine),
		Tasks:      taskHandler.NewHandler(taskService, engine),
		Calendar:   calendarHandler.NewHandler(calendarService, engine),
		Reports:    reportHandler.NewHandler(reportService, engine),
		Matching:   matchingHandler.NewHandler(matchingService),
		Export:     exportHandler.NewHandler(exportService, engine),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      2 * cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
