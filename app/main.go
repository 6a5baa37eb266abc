package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/soratane/feedwatch/app/archive"
	"github.com/soratane/feedwatch/app/cfg"
	"github.com/soratane/feedwatch/app/database"
	"github.com/soratane/feedwatch/app/feed"
	"github.com/soratane/feedwatch/app/fetch"
	"github.com/soratane/feedwatch/app/state"
	"github.com/soratane/feedwatch/app/tasks"
	"github.com/soratane/feedwatch/app/telegram"
	"github.com/soratane/feedwatch/app/watch"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedwatch", "version", appCfg.Version)

	loader := watch.NewLoader(appCfg.WatchDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load watch configurations", "dir", appCfg.WatchDir, "error", err)
		os.Exit(1)
	}
	if len(configs) == 0 {
		slog.Warn("No watch configurations found", "dir", appCfg.WatchDir)
		return
	}
	slog.Info("Loaded watch configurations", "count", len(configs))

	httpTimeout := time.Duration(appCfg.FetchTimeout) * time.Second
	client := fetch.NewClient(&http.Client{Timeout: httpTimeout}, appCfg.UserAgent, appCfg.RatePerSec)

	var notifier *telegram.Client
	switch {
	case appCfg.DryRun:
		slog.Info("Dry run, notifications disabled")
	case appCfg.TGToken == "" || appCfg.TGChatID == "":
		slog.Info("Telegram not configured, notifications disabled")
	default:
		notifier = telegram.NewClient(appCfg.TGToken, appCfg.TGChatID, &http.Client{Timeout: httpTimeout})
	}

	// The audit log is best effort: a broken database downgrades the run to
	// archive-and-notify only.
	var audit tasks.AuditLog
	var auditRepo *database.NotificationRepository
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Warn("Audit database unavailable, continuing without it", "path", appCfg.DBPath, "error", err)
	} else {
		defer db.Close()
		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Warn("Failed to run migrations, continuing without audit log", "error", err)
		} else {
			slog.Info("Database ready", "migration_version", version, "dirty", dirty)
			auditRepo = database.NewNotificationRepository(db)
			audit = auditRepo
		}
	}

	taskList := buildTasks(appCfg, configs, client, audit, notifier)
	if len(taskList) == 0 {
		slog.Warn("No enabled watch targets")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := tasks.NewRunner(taskList)
	if err := runner.Run(ctx); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}

	if auditRepo != nil {
		logNotificationTotals(auditRepo, taskList)
	}

	slog.Info("Run complete", "targets", len(taskList))
}

// logNotificationTotals reports the lifetime notification counts per watch
// from the audit log, giving each run a cumulative summary.
func logNotificationTotals(repo *database.NotificationRepository, taskList []tasks.TaskInterface) {
	for _, task := range taskList {
		counts, err := repo.CountByStatus(task.GetWatchName())
		if err != nil {
			slog.Warn("Failed to read notification totals", "watch", task.GetWatchName(), "error", err)
			continue
		}
		slog.Info("Notification totals",
			"watch", task.GetWatchName(),
			"new", counts["new"],
			"edited", counts["edited"],
			"deleted", counts["deleted"])
	}
}

func buildTasks(appCfg *cfg.Cfg, configs map[string]*watch.Config, client *fetch.Client,
	audit tasks.AuditLog, notifier *telegram.Client) []tasks.TaskInterface {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	var taskList []tasks.TaskInterface
	for _, name := range names {
		watchConfig := configs[name]
		if !watchConfig.Settings.Enabled {
			slog.Debug("Watch disabled, skipping", "watch", name)
			continue
		}

		store := state.NewStore(appCfg.DataDir, name)
		reconciler := state.NewReconciler(watchConfig.Settings.DeleteThreshold)
		archiver := archive.NewWriter(filepath.Join(appCfg.DataDir, "archive", name))

		if watchConfig.Kind == watch.KindManifest {
			taskList = append(taskList, tasks.NewCheckManifestTask(name, watchConfig, client,
				store, reconciler, archiver, audit, notifier))
			continue
		}

		normalizer, err := feed.ForKind(string(watchConfig.Kind), watchConfig.Username)
		if err != nil {
			slog.Warn("Unsupported watch kind, skipping", "watch", name, "kind", string(watchConfig.Kind), "error", err)
			continue
		}
		taskList = append(taskList, tasks.NewWatchFeedTask(name, watchConfig, client, normalizer,
			store, reconciler, archiver, audit, notifier))
	}

	return taskList
}
