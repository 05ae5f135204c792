package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/locvowork/hr_data_bridge/internal/analysis"
	"github.com/locvowork/hr_data_bridge/internal/backup"
	"github.com/locvowork/hr_data_bridge/internal/config"
	"github.com/locvowork/hr_data_bridge/internal/database"
	"github.com/locvowork/hr_data_bridge/internal/logger"
	"github.com/locvowork/hr_data_bridge/internal/monitor"
)

const checkTimeout = 2 * time.Minute

func main() {
	if err := config.LoadEnvConfig(); err != nil {
		log.Fatal(err)
	}
	env := config.DefaultEnvConfig
	logger.InitLogging(env.LOG_FILE_PATH)

	monitorCfg, err := monitor.LoadConfig(env.MONITOR_CONFIG_PATH)
	if err != nil {
		log.Fatal(err)
	}

	collector := monitor.NewCollector(monitorCfg)
	analyzer := analysis.NewAnalyzer(monitorCfg.Thresholds)
	backups := backup.NewService(backup.Config{
		Dir:           env.BACKUP_DIR,
		RetentionDays: env.BACKUP_RETENTION_DAYS,
		ManifestPath:  env.BACKUP_LOG_PATH,
	}, database.Config{
		Host:     env.DB_HOST,
		Port:     env.DB_PORT,
		User:     env.DB_USER,
		Password: env.DB_PASSWORD,
		DBName:   env.DB_NAME,
	})

	c := cron.New()

	monitorCtx := logger.WithComponent(context.Background(), "monitor")
	_, err = c.AddFunc(fmt.Sprintf("@every %s", env.MONITOR_INTERVAL), func() {
		ctx, cancel := context.WithTimeout(monitorCtx, checkTimeout)
		defer cancel()
		if _, _, err := collector.Check(ctx); err != nil {
			logger.ErrorLog(ctx, "Resource check failed: %v", err)
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	// Trend analysis wants a decent history, so it runs much less often
	// than the raw checks.
	_, err = c.AddFunc("@hourly", func() {
		report, err := analyzer.Analyze(collector.History())
		if err != nil {
			logger.InfoLog(monitorCtx, "Skipping trend analysis: %v", err)
			return
		}
		logger.InfoLog(monitorCtx, "Trend over %d samples: cpu=%s memory=%s disk=%s",
			report.SampleCount, report.CPU.RiskLevel, report.Memory.RiskLevel, report.Disk.RiskLevel)
	})
	if err != nil {
		log.Fatal(err)
	}

	backupCtx := logger.WithComponent(context.Background(), "backup")
	_, err = c.AddFunc(env.BACKUP_SCHEDULE, func() {
		if _, err := backups.DumpDatabase(backupCtx); err != nil {
			logger.ErrorLog(backupCtx, "Scheduled backup failed: %v", err)
			return
		}
		if _, err := backups.Cleanup(backupCtx); err != nil {
			logger.ErrorLog(backupCtx, "Backup cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	logger.InfoLog(monitorCtx, "Monitoring daemon started (interval %s, backup schedule %q)",
		env.MONITOR_INTERVAL, env.BACKUP_SCHEDULE)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.InfoLog(monitorCtx, "Shutting down monitoring daemon")
	<-c.Stop().Done()
}
