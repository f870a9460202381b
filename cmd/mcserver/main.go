// Command mcserver runs a Minecraft Java Edition server that takes players
// through login and configuration into an empty world.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cloudflare/tableflip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/auth"
	"github.com/gstoney/mcserver/config"
	"github.com/gstoney/mcserver/internal/admin"
	"github.com/gstoney/mcserver/internal/logging"
	"github.com/gstoney/mcserver/server"
)

func main() {
	var (
		cfgPath = flag.String("config", config.DefaultConfigFile, "`Path` to the TOML config file")
		envFile = flag.String("env", config.DefaultEnvFile, "`Path` to a .env file")
		pidFile = flag.String("pid-file", "", "`Path` to pid file, enables upgrades on SIGHUP")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logging")
	}
	defer closeLog()

	if err := run(cfg, *pidFile); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, pidFile string) error {
	logger := logging.Component("main")

	srvCfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}

	regs, err := config.LoadRegistries(cfg.Server.RegistryFile)
	if err != nil {
		return err
	}

	srv := server.New(srvCfg)
	srv.Registries = regs
	srv.Joiner = server.NewJoiner(regs, joinConfig(cfg))
	srv.Metrics = server.NewMetrics(prometheus.DefaultRegisterer)
	if cfg.Server.OnlineMode {
		srv.Resolver = auth.NewMojang(auth.MojangConfig{
			APIURL:     cfg.Auth.APIURL,
			SessionURL: cfg.Auth.SessionURL,
			Timeout:    cfg.Server.AuthTimeout.Duration,
			CacheSize:  cfg.Auth.CacheSize,
			CacheTTL:   cfg.Auth.CacheTTL.Duration,
		})
	}

	// tableflip hands listeners to the upgraded process; it has no Windows support.
	useUpgrader := pidFile != "" && runtime.GOOS != "windows"

	var upg *tableflip.Upgrader
	listen := net.Listen
	if useUpgrader {
		upg, err = tableflip.New(tableflip.Options{PIDFile: pidFile})
		if err != nil {
			return err
		}
		defer upg.Stop()

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGHUP)
			for range sig {
				logger.Info().Msg("upgrade requested")
				if err := upg.Upgrade(); err != nil {
					logger.Error().Err(err).Msg("upgrade failed")
				}
			}
		}()
		listen = upg.Listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		ml, err := listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metrics := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			<-ctx.Done()
			metrics.Close()
		}()
		go func() {
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listening")
			if err := metrics.Serve(ml); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	if cfg.Admin.Addr != "" {
		al, err := listen("tcp", cfg.Admin.Addr)
		if err != nil {
			return err
		}
		api := admin.New(srv)
		go func() {
			if err := api.Serve(ctx, al); err != nil {
				logger.Error().Err(err).Msg("admin API failed")
			}
		}()
	}

	ln, err := listen("tcp", srvCfg.Addr)
	if err != nil {
		return err
	}

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	var exit <-chan struct{}
	if upg != nil {
		if err := upg.Ready(); err != nil {
			return err
		}
		exit = upg.Exit()
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case <-exit:
		logger.Info().Msg("upgrade complete, handing over")
	case err := <-served:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	stop()
	return srv.Shutdown(shutdownCtx)
}

func serverConfig(cfg *config.Config) (server.Config, error) {
	sc := cfg.Server

	out := server.Config{
		Addr:                 sc.Addr,
		MOTD:                 sc.MOTD,
		MaxPlayers:           sc.MaxPlayers,
		OnlineMode:           sc.OnlineMode,
		CompressionThreshold: sc.CompressionThreshold,
		ProxyProtocol:        sc.ProxyProtocol,
		Brand:                sc.Brand,
		KeepAliveInterval:    sc.KeepAliveInterval.Duration,
		AuthTimeout:          sc.AuthTimeout.Duration,
		Conn:                 mcserver.DefaultConnConfig(),
	}
	out.Conn.ReadTimeout = sc.ReadTimeout.Duration
	out.Conn.WriteTimeout = sc.WriteTimeout.Duration
	out.Conn.Transport = mcserver.TransportConfig{
		MaxPacketLen:       sc.MaxPacketLen,
		MaxDecompressedLen: sc.MaxDecompressedLen,
	}

	if sc.Favicon != "" {
		icon, err := server.LoadFavicon(sc.Favicon)
		if err != nil {
			return out, err
		}
		out.Favicon = icon
	}
	return out, nil
}

func joinConfig(cfg *config.Config) server.JoinConfig {
	jc := server.DefaultJoinConfig()
	jc.MaxPlayers = int32(cfg.Server.MaxPlayers)
	jc.ViewDistance = cfg.Server.ViewDistance
	jc.SimulationDistance = cfg.Server.SimulationDistance
	jc.GameMode = cfg.Server.GameMode
	jc.Hardcore = cfg.Server.Hardcore
	jc.Welcome = cfg.Server.Welcome
	return jc
}
