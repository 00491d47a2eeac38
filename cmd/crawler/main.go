package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-bili-comments/internal/bili"
	"github.com/pribylovaa/go-bili-comments/internal/bvid"
	"github.com/pribylovaa/go-bili-comments/internal/config"
	"github.com/pribylovaa/go-bili-comments/internal/flatten"
	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
	"github.com/pribylovaa/go-bili-comments/internal/report"
	"github.com/pribylovaa/go-bili-comments/internal/service"
	"github.com/pribylovaa/go-bili-comments/internal/sign"
	"github.com/pribylovaa/go-bili-comments/internal/storage/postgres"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath, videoID string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&videoID, "video", "", "video id: BV... or av<number>")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	lg := setupLogger(cfg.Env)
	slog.SetDefault(lg)
	lg.Info("starting crawler", "env", cfg.Env, "mode", cfg.Crawler.Mode)

	display, aid, err := resolveVideo(videoID)
	if err != nil {
		lg.Error("bad_video_id", slog.String("err", err.Error()))
		os.Exit(2)
	}
	lg.Info("video_resolved", slog.String("bvid", display), slog.Int64("aid", aid))

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCtx = log.Into(rootCtx, lg)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.URL)
	dbCancel()
	if err != nil {
		lg.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	lg.Info("postgres_connected")

	httpClient := &http.Client{Timeout: cfg.Client.Timeout}
	client := bili.New(httpClient, sign.New(""), bili.Options{
		Cookie:    cfg.Client.Cookie,
		UserAgent: cfg.Client.UserAgent,
	})

	src := flatten.NewSource(client, cfg.Crawler.PageSize)
	svc := service.New(src, store, *cfg)
	lg.Info("service_initialized")

	video, err := client.VideoInfo(rootCtx, display)
	if err != nil {
		lg.Error("video_info_failed", slog.String("err", err.Error()))
		rootCancel()
		store.Close()
		os.Exit(1)
	}
	lg.Info("video_info",
		slog.String("title", video.Title),
		slog.Int64("replies", video.Stat.Replies),
	)

	startedAt := time.Now().UTC()
	crawlReport, err := svc.Run(rootCtx, aid)
	if err != nil {
		if errors.Is(err, bili.ErrRateLimited) {
			lg.Error("crawl_rate_limited", slog.String("err", err.Error()))
		} else {
			lg.Error("crawl_failed", slog.String("err", err.Error()))
		}
		rootCancel()
		store.Close()
		os.Exit(1)
	}

	for _, pass := range crawlReport.Passes {
		lg.Info("pass_summary",
			slog.String("label", pass.Label),
			slog.Int("pages", pass.Pages),
			slog.Int("records", len(pass.Records)),
			slog.String("outcome", pass.Reason.Describe()),
		)
	}
	lg.Info("crawl_finished",
		slog.Int("passes", len(crawlReport.Passes)),
		slog.Int("comments", len(crawlReport.Result.Merged)),
		slog.Int("duplicates", len(crawlReport.Result.Duplicates)),
	)

	for gran, buckets := range report.Distributions(*video, crawlReport.Result.Merged) {
		lg.Debug("time_distribution",
			slog.String("granularity", string(gran)),
			slog.Int("buckets", len(buckets)),
		)
	}

	run := models.CrawlRun{
		ID:         uuid.New(),
		Bvid:       video.Bvid,
		Aid:        video.Aid,
		Title:      video.Title,
		Mode:       cfg.Crawler.Mode,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Report:     *crawlReport,
	}

	saveCtx, saveCancel := context.WithTimeout(log.Into(context.Background(), lg), 30*time.Second)
	err = svc.Archive(saveCtx, run)
	saveCancel()
	if err != nil {
		lg.Error("archive_failed", slog.String("err", err.Error()))
		rootCancel()
		store.Close()
		os.Exit(1)
	}

	rootCancel()
	store.Close()

	lg.Info("crawler_stopped", slog.String("run_id", run.ID.String()))
	os.Exit(0)
}

// resolveVideo приводит идентификатор видео к паре (bvid, aid).
// Принимает отображаемый идентификатор BV..., av<число> или голое число.
func resolveVideo(id string) (string, int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", 0, errors.New("video id is required (--video)")
	}

	if strings.HasPrefix(strings.ToLower(id), "bv") {
		aid, err := bvid.Decode(id)
		if err != nil {
			return "", 0, err
		}
		return id, aid, nil
	}

	aid, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(id), "av"), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("unrecognized video id %q", id)
	}

	display, err := bvid.Encode(aid)
	if err != nil {
		return "", 0, err
	}
	return display, aid, nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var lg *slog.Logger

	switch env {
	case envLocal:
		lg = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		lg = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		lg = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		lg = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return lg
}
