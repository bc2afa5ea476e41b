package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/store"
	"storefront/pkg/rabbitmq"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	Long: `Start the storefront API server. When admin.email and admin.password are
set, the admin account is created or promoted before the server accepts
requests. When rabbitmq.url is set, an order.created event is published for
every placed order.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Error closing store")
		}
	}()

	if cfg.Admin.Enabled() {
		authService, err := newAuthService(cfg, st)
		if err != nil {
			return err
		}
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
	}

	// --- Initialize RabbitMQ Client ---
	var publisher services.OrderEventPublisher
	if cfg.RabbitMQ.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeOrderEvents(auditOrderEvent); err != nil {
			log.WithError(err).Warn("Failed to start RabbitMQ consumer")
		}
	}

	application, err := app.New(cfg, st, publisher)
	if err != nil {
		return err
	}

	// --- Start HTTP Server ---
	log.WithFields(log.Fields{"addr": cfg.App.Addr(), "store": st.Driver}).Info("Starting server")
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- application.Listen(cfg.App.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")
	if err := application.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
	return nil
}

// auditOrderEvent writes every order event to the log.
func auditOrderEvent(event models.OrderCreatedEvent) error {
	log.WithFields(log.Fields{
		"order_id":   event.OrderID,
		"user_id":    event.UserID,
		"item_count": event.ItemCount,
		"total":      event.TotalPrice,
	}).Info("Received order event")
	return nil
}
