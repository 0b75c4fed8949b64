// cmd/learnhub/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"learnhub/internal/analytics"
	"learnhub/internal/app"
	"learnhub/internal/eventbus"
	"learnhub/internal/eventlog"
	"learnhub/internal/httpapi"
	"learnhub/internal/readmodel"
	"learnhub/internal/repository"
	"learnhub/internal/service"
)

// busSubscriber is anything that declares its own subscriptions.
type busSubscriber interface {
	eventbus.Handler
	EventTypes() []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := initTracing(ctx)
	if err != nil {
		log.Fatalf("tracing setup failed: %v", err)
	}
	defer shutdownTracing()

	users := repository.NewUserRepository()
	courses := repository.NewCourseRepository()
	policies := repository.NewPolicyRepository()
	orders := repository.NewOrderRepository()
	accessRecords := repository.NewAccessRepository()

	eventLog := eventlog.New()
	bus := eventbus.New()

	processing := service.NewOrderProcessingService(orders, accessRecords, courses)
	eligibility := service.NewRefundEligibilityService(orders, accessRecords, courses, policies)
	lifecycle := service.NewAccessLifecycleService(accessRecords)

	userSvc := app.NewUserService(users, eventLog, bus)
	courseSvc := app.NewCourseService(courses, policies, eventLog, bus)
	policySvc := app.NewPolicyService(policies, eventLog, bus)
	orderSvc := app.NewOrderService(orders, users, courses, processing, eligibility, eventLog, bus)
	accessSvc := app.NewAccessService(accessRecords, users, courses, lifecycle, eventLog, bus)

	catalog := readmodel.NewCourseCatalog()
	history := readmodel.NewOrderHistory()
	userAccess := readmodel.NewUserAccess()
	usage := readmodel.NewPolicyUsage()
	revenue := readmodel.NewRevenueSummary()

	subscribe(bus,
		catalog, history, userAccess, usage, revenue,
		analytics.NewOrderAnalytics(),
		analytics.NewCourseAnalytics(),
		analytics.NewAccessEngagement(),
		analytics.NewUserOnboarding(),
		analytics.NewPolicyCompliance(),
	)

	server := httpapi.NewServer(
		userSvc, courseSvc, policySvc, orderSvc, accessSvc,
		catalog, history, userAccess, usage, revenue,
	)

	httpServer := &http.Server{
		Addr:              ":" + getEnv("PORT", "8080"),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("learnhub listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		bus.Wait()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func subscribe(bus *eventbus.Bus, subs ...busSubscriber) {
	for _, s := range subs {
		for _, tag := range s.EventTypes() {
			bus.Subscribe(tag, s)
		}
	}
}

// initTracing installs an OTLP trace exporter when an endpoint is
// configured. Without one, spans fall through to the global no-op
// provider.
func initTracing(ctx context.Context) (func(), error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func() {}, nil
	}
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	res := sdkresource.NewSchemaless(
		attribute.String("service.name", getEnv("OTEL_SERVICE_NAME", "learnhub")),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
