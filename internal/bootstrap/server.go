package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eventmate/booking-service/api"
	"github.com/eventmate/booking-service/config"
	"github.com/eventmate/booking-service/internal/service/enrollment"
	"github.com/eventmate/booking-service/internal/service/events"
	"github.com/eventmate/booking-service/internal/service/venue"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, eventSvc events.EventUseCase, enrollmentSvc enrollment.EnrollmentUseCase, venueSvc venue.VenueUseCase) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	api.NewEventHandler(eventSvc).Register(v1)
	api.NewBookingHandler(enrollmentSvc).Register(v1)
	api.NewVenueHandler(venueSvc).Register(v1)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
