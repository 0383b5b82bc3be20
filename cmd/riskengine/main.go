package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/wyfcoding/pkg/logging"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	bondapp "github.com/wyfcoding/riskengine/internal/bond/application"
	bondhttp "github.com/wyfcoding/riskengine/internal/bond/interfaces/http"
	curveapp "github.com/wyfcoding/riskengine/internal/curve/application"
	curvehttp "github.com/wyfcoding/riskengine/internal/curve/interfaces/http"
	optionapp "github.com/wyfcoding/riskengine/internal/option/application"
	optionhttp "github.com/wyfcoding/riskengine/internal/option/interfaces/http"
	portfolioapp "github.com/wyfcoding/riskengine/internal/portfolio/application"
	portfoliohttp "github.com/wyfcoding/riskengine/internal/portfolio/interfaces/http"
	riskapp "github.com/wyfcoding/riskengine/internal/risk/application"
	riskhttp "github.com/wyfcoding/riskengine/internal/risk/interfaces/http"
	stressapp "github.com/wyfcoding/riskengine/internal/stress/application"
	stresshttp "github.com/wyfcoding/riskengine/internal/stress/interfaces/http"
)

// requestID 为每个请求注入 X-Request-ID，便于跨日志关联。
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/riskengine/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Sprintf("read config failed: %v", err))
	}

	// 2. Logger
	logger := logging.NewLogger("riskengine", "main", viper.GetString("log.level"))
	slog.SetDefault(logger.Logger)

	// 3. Application
	optionSvc := optionapp.NewService(logger.Logger)
	bondSvc := bondapp.NewService(logger.Logger)
	curveSvc := curveapp.NewService(logger.Logger)
	riskSvc := riskapp.NewService(logger.Logger)
	stressSvc := stressapp.NewService(logger.Logger)
	portfolioSvc := portfolioapp.NewService(logger.Logger)

	// 4. Interfaces
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	root := r.Group("")
	optionhttp.NewOptionHandler(optionSvc).RegisterRoutes(root)
	bondhttp.NewBondHandler(bondSvc).RegisterRoutes(root)
	curvehttp.NewCurveHandler(curveSvc).RegisterRoutes(root)
	riskhttp.NewRiskHandler(riskSvc).RegisterRoutes(root)
	stresshttp.NewStressHandler(stressSvc).RegisterRoutes(root)
	portfoliohttp.NewPortfolioHandler(portfolioSvc).RegisterRoutes(root)

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "# HELP riskengine_running Status of risk engine\n# TYPE riskengine_running gauge\nriskengine_running 1")
	})
	pp := r.Group("/debug/pprof")
	{
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
	}

	// gRPC 侧车：健康检查与反射，供探针和服务发现使用。
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	// 5. Start
	g, ctx := errgroup.WithContext(context.Background())

	httpPort := viper.GetString("server.http_port")
	if httpPort == "" {
		httpPort = "8090"
	}
	server := &http.Server{Addr: fmt.Sprintf(":%s", httpPort), Handler: r}
	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	grpcPort := viper.GetString("server.grpc_port")
	if grpcPort == "" {
		grpcPort = "9090"
	}
	g.Go(func() error {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", grpcPort))
		if err != nil {
			return err
		}
		slog.Info("Starting gRPC server", "port", grpcPort)
		return grpcSrv.Serve(lis)
	})

	// 6. Graceful Shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown failed", "error", err)
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
