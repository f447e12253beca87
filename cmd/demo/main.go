// Command demo boots the engine against the configured stores and walks one
// scripted session through it: register, log in, browse the feed, like,
// chat, block. There is no network transport in this project; a
// presentation layer would call the same operations this script calls.
package main

import (
	"context"

	"github.com/oggyb/sparkmatch/internal/app"
	"github.com/oggyb/sparkmatch/internal/cache"
	"github.com/oggyb/sparkmatch/internal/config"
	"github.com/oggyb/sparkmatch/internal/db"
	"github.com/oggyb/sparkmatch/internal/logger"
	"github.com/oggyb/sparkmatch/internal/service/engine"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	ctx := context.Background()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)
	svc := engine.NewService(appCtx)

	if cfg.App.Env == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
			return
		}
	}

	// One scripted session against the seeded demo directory.
	snap, err := svc.Register(ctx, "Linh", "linh@example.com", "123456")
	if err != nil {
		log.Error("register failed", "err", err)
		return
	}
	log.Info("registered", "id", snap.ID, "email", snap.Email)

	token, me, err := svc.Login(ctx, "linh@example.com", "123456")
	if err != nil {
		log.Error("login failed", "err", err)
		return
	}
	log.Info("logged in", "user", me.FullName)

	feedList, err := svc.GetFeed(ctx, token)
	if err != nil {
		log.Error("feed failed", "err", err)
		return
	}
	log.Info("feed loaded", "candidates", len(feedList))

	if current, ok, _ := svc.Current(ctx, token); ok {
		if err := svc.Like(ctx, token, current.ID); err != nil {
			log.Error("like failed", "err", err)
			return
		}
		log.Info("liked", "target", current.Name)

		if err := svc.SendChat(ctx, token, "Hi there!"); err != nil {
			log.Error("chat failed", "err", err)
			return
		}
		status, _ := svc.MatchStatusFor(token, current.ID)
		log.Info("chatted", "match", current.Name, "status", string(status))
	}

	if current, ok, _ := svc.Current(ctx, token); ok {
		if err := svc.Block(ctx, token, current.ID); err != nil {
			log.Error("block failed", "err", err)
			return
		}
		log.Info("blocked", "target", current.Name)
	}

	stats, err := svc.SessionStats(ctx, token)
	if err != nil {
		log.Error("stats failed", "err", err)
		return
	}
	log.Info("session stats", "viewed", stats.Viewed, "liked", stats.Liked, "skipped", stats.Skipped)

	events, _ := svc.Activities(token)
	for _, e := range events {
		log.Info("activity", "seq", e.Seq, "kind", string(e.Kind), "msg", e.Message)
	}
}
