package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pixelpal/pixelpal-service/docs"
	"github.com/pixelpal/pixelpal-service/internal/cache"
	"github.com/pixelpal/pixelpal-service/internal/config"
	"github.com/pixelpal/pixelpal-service/internal/events"
	chathandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/chat"
	mediahandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/media"
	posthandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/posts"
	userhandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/users"
	wshandlers "github.com/pixelpal/pixelpal-service/internal/http/handlers/websocket"
	"github.com/pixelpal/pixelpal-service/internal/http/middleware"
	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
	chatsvc "github.com/pixelpal/pixelpal-service/internal/services/chat"
	mediasvc "github.com/pixelpal/pixelpal-service/internal/services/media"
	postdir "github.com/pixelpal/pixelpal-service/internal/services/posts"
	"github.com/pixelpal/pixelpal-service/internal/services/session"
	userdir "github.com/pixelpal/pixelpal-service/internal/services/users"
	ws "github.com/pixelpal/pixelpal-service/internal/websocket"
)

// @title PixelPal API
// @version 1.0
// @description Photo sharing social network service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()

	// storage setup
	store, err := kv.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer store.Close()
	slog.Info("Storage ready", slog.String("backend", cfg.Storage.Backend))

	// seeding is an explicit startup step, never a read side effect
	seeder := seed.New(store, seed.DefaultFixtures())
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		log.Fatal("Failed to seed storage:", err)
	}

	// directory services
	sessions := session.New(store)
	users := userdir.New(store)
	posts := postdir.New(store, sessions)
	chat := chatsvc.New(store, users, sessions)

	// notification hub
	hub := ws.NewHub()
	go hub.Run()
	posts.SetPublisher(events.NewEventPublisher(hub))

	// optional redis: feed cache + rate limiting
	var (
		redisClient *redis.Client
		feedCache   *cache.FeedCache
		limits      *middleware.RateLimitConfig
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		feedCache = cache.NewFeedCache(posts, redisClient)
		limits = middleware.NewRateLimitConfig(redisClient)
		slog.Info("Connected to Redis", slog.String("addr", cfg.Redis.Addr))
	}

	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	// rate limit an authenticated handler when redis is around
	limited := func(action string, h http.HandlerFunc) http.Handler {
		if limits == nil {
			return auth(h)
		}
		return auth(limits.RateLimitedHandler(action, h))
	}

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PixelPal API"))
	})

	router.HandleFunc("POST /signup", userhandlers.SignUp(users, sessions, cfg.JWTSecret))
	router.HandleFunc("POST /login", userhandlers.Login(users, sessions, cfg.JWTSecret))
	router.Handle("POST /logout", auth(userhandlers.Logout(sessions)))
	router.Handle("GET /me", auth(userhandlers.Me(users)))
	router.Handle("PUT /me", auth(userhandlers.UpdateProfile(users, sessions)))
	router.HandleFunc("GET /users/search", userhandlers.Search(users))
	router.HandleFunc("GET /users/{username}", userhandlers.GetByUsername(users))
	router.HandleFunc("GET /users/{user_id}/posts", posthandlers.UserPosts(posts))

	router.HandleFunc("GET /feed", posthandlers.Feed(posts, feedCache))
	router.HandleFunc("GET /posts/{id}", posthandlers.GetPost(posts))
	router.Handle("POST /posts", limited(middleware.ActionPosts, posthandlers.CreatePost(posts, feedCache)))
	router.Handle("POST /posts/{id}/like", limited(middleware.ActionLikes, posthandlers.ToggleLike(posts, feedCache)))

	router.Handle("GET /conversations", auth(chathandlers.Conversations(chat)))
	router.Handle("GET /conversations/{peer_id}/messages", auth(chathandlers.Messages(chat)))
	router.Handle("POST /conversations/{peer_id}/messages", auth(chathandlers.Send(chat)))

	router.HandleFunc("GET /ws", wshandlers.WebSocketHandler(hub, cfg.JWTSecret))
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// optional object storage for photo uploads
	if cfg.MinIO.Endpoint != "" {
		media, err := mediasvc.NewService(cfg)
		if err != nil {
			log.Fatal("Failed to initialize media service:", err)
		}
		handlers := mediahandlers.NewMediaHandlers(media)
		router.Handle("POST /media/upload-url", auth(handlers.GenerateUploadURL()))
		router.HandleFunc("GET /media/{object_key...}", handlers.GetPhoto())
		slog.Info("Media service ready", slog.String("bucket", cfg.MinIO.BucketName))
	}

	if redisClient != nil {
		router.Handle("GET /cache/stats", auth(cache.GetCacheStats(redisClient)))
	}

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
