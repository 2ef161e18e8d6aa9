package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transease/core/database"
	"transease/core/events"
	"transease/core/ftp"
	"transease/core/loader"
	"transease/core/logger"
	"transease/core/middleware/auth"
	"transease/core/middleware/rayid"
	"transease/core/server"
	"transease/core/storage"

	"transease/feature/control"
	"transease/feature/history"
	"transease/feature/logarchive"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	_ "transease/docs/swagger"
)

// @title TransEase Admin API
// @version 1.0
// @description Control API for the TransEase anonymous FTP server.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var startFlag bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FTP server supervisor and the admin API",
	Long: `Loads the settings file, prepares the log bridge and serves the admin API.
The FTP server itself is started through the API, or right away with --start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Load Configuration
	cfg, base, err := loadConfig()
	if err != nil {
		return err
	}
	logPath, err := logFilePath(cfg.Settings)
	if err != nil {
		return err
	}

	// 2. Event bus, log view and log bridge
	bus := events.NewBus()
	defer bus.Close()

	logs := control.NewLogBuffer()
	defer logs.Follow(bus).Close()

	bridge := logger.NewBridge(bus, logger.BridgeOptions{
		Path:       logPath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer bridge.Close()

	logg := logger.Attach(base, bridge)
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	// 3. Settings
	store, err := openStore(cfg.Settings, logg)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	if err := bridge.Configure(snap.LogLevel, snap.SaveLog); err != nil {
		logg.Warn("Failed to configure log file", zap.String("path", logPath), zap.Error(err))
	}
	logg.Info("Settings loaded",
		zap.String("path", store.Path()),
		zap.Int("port", snap.Port),
		zap.String("root_path", snap.RootPath),
		zap.String("encoding", snap.Encoding))

	// 4. Supervisor
	sup := server.New(cfg.Server, store, bus, ftp.NewEngine, server.WithLogger(logg.Named("server")))

	// 5. Connect to Database (Optional)
	var db *gorm.DB
	if cfg.Database.Enabled {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}
	}

	// 6. Initialize Storage (Optional)
	var objects storage.Client
	if cfg.Storage.Enabled {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			objects = client
		}
	}

	// 7. Initialize Fiber App and features
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager(logg)
	svc := control.NewService(sup, store, bridge, logs, bus, logg.Named("control"))
	mgr.Register(control.NewFeature(svc))
	mgr.Register(history.NewFeature(db, logg.Named("history")))
	mgr.Register(logarchive.NewFeature(objects, cfg.Storage, logPath, afero.NewOsFs(), logg.Named("logarchive")))

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Swagger stays public.
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use(auth.New(auth.Config{ApiKey: cfg.Admin.ApiKey, Skip: []string{"/swagger"}}))

	if err := mgr.LoadAll(app); err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}

	// Sessions are recorded once the history table is migrated.
	if db != nil {
		rec := history.NewRecorder(db, sup, logg.Named("history"))
		rec.Follow(bus)
		defer rec.Close()
	}

	// 8. Run
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Admin.Enabled {
		g.Go(func() error {
			logg.Info("Starting admin API", zap.String("address", cfg.Admin.Addr()))
			if err := app.Listen(cfg.Admin.Addr()); err != nil {
				return fmt.Errorf("admin API failed: %w", err)
			}
			return nil
		})
	}

	if startFlag {
		if _, err := sup.Start(); err != nil {
			logg.Error("Failed to start server", zap.Error(err))
		}
	}

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	prompt := &shutdownPrompt{
		server:      sup,
		interactive: isatty.IsTerminal(os.Stdin.Fd()),
		out:         os.Stderr,
		timeout:     PromptTimeout,
	}
	if prompt.interactive {
		prompt.answers = readLines(os.Stdin)
	}

	// 9. Graceful Shutdown
	g.Go(func() error {
		prompt.wait(gctx, sigs)
		logg.Info("Shutting down...")

		var errs []error
		if err := sup.Stop(); err != nil {
			if errors.Is(err, server.ErrShutdownTimeout) {
				logg.Warn("Server stop timed out", zap.Error(err))
			} else {
				errs = append(errs, err)
			}
		}
		if cfg.Admin.Enabled {
			if err := app.Shutdown(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().BoolVar(&startFlag, "start", false, "start the FTP server immediately")
	RootCmd.AddCommand(serveCmd)
}
