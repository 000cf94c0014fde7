package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"

	"business-nexus/backend/internal/audit"
	auditrepo "business-nexus/backend/internal/audit/repository"
	collabrepo "business-nexus/backend/internal/collaboration/repository"
	collabservice "business-nexus/backend/internal/collaboration/service"
	"business-nexus/backend/internal/config"
	"business-nexus/backend/internal/db"
	"business-nexus/backend/internal/devotp"
	devotphandler "business-nexus/backend/internal/devotp/handler"
	docrepo "business-nexus/backend/internal/document/repository"
	docservice "business-nexus/backend/internal/document/service"
	healthhandler "business-nexus/backend/internal/health/handler"
	"business-nexus/backend/internal/kv"
	"business-nexus/backend/internal/logging"
	meetingservice "business-nexus/backend/internal/meeting/service"
	"business-nexus/backend/internal/mfa/mail"
	mfarepo "business-nexus/backend/internal/mfa/repository"
	"business-nexus/backend/internal/notify"
	"business-nexus/backend/internal/policy/engine"
	"business-nexus/backend/internal/security"
	"business-nexus/backend/internal/server"
	"business-nexus/backend/internal/server/interceptors"
	sessionservice "business-nexus/backend/internal/session/service"
	telemetryotel "business-nexus/backend/internal/telemetry/otel"
	userrepo "business-nexus/backend/internal/user/repository"
)

const serviceName = "business-nexus"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// stores groups the repositories of the selected storage driver.
type stores struct {
	db         *sql.DB
	kv         kv.Store
	users      userrepo.Repository
	creds      userrepo.CredentialStore
	requests   collabrepo.Repository
	documents  docrepo.Repository
	challenges mfarepo.Repository
	audit      auditrepo.Repository
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if !cfg.UsePostgres() {
		return &stores{
			kv:         kv.NewMemoryStore(),
			users:      userrepo.NewMemoryRepository(userrepo.SeedUsers()),
			creds:      userrepo.NewMemoryCredentialStore(),
			requests:   collabrepo.NewMemoryRepository(collabrepo.SeedRequests()),
			documents:  docrepo.NewMemoryRepository(docrepo.SeedDocuments()),
			challenges: mfarepo.NewMemoryRepository(),
			audit:      auditrepo.NewMemoryRepository(),
		}, nil
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &stores{
		db:         conn,
		kv:         kv.NewPostgresStore(conn),
		users:      userrepo.NewPostgresRepository(conn),
		creds:      userrepo.NewPostgresCredentialStore(conn),
		requests:   collabrepo.NewPostgresRepository(conn),
		documents:  docrepo.NewPostgresRepository(conn),
		challenges: mfarepo.NewPostgresRepository(conn),
		audit:      auditrepo.NewPostgresRepository(conn),
	}, nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: serviceName,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}
	logger.Info("storage ready", zap.String("driver", cfg.StorageDriver))

	signer, pub, ephemeral, err := security.LoadSigningKeys(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		return fmt.Errorf("signing keys: %w", err)
	}
	if ephemeral {
		logger.Warn("using an ephemeral signing key; reset tokens will not survive a restart")
	}
	tokens := security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.ResetTokenTTL)

	notifier := notify.Multi{notify.NewZapNotifier(logger), telemetryotel.NewNotifier(providers.LoggerProvider)}
	auditLog := audit.NewLogger(st.audit, logger, interceptors.ClientIP, interceptors.ClientID)
	ops, err := sessionservice.NewOperationCounter(providers.Meter(serviceName))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	var mailer mail.Sender = mail.NewLogSender(logger)
	if cfg.MailConfigured() {
		mailer = mail.NewWebhookClient(cfg.MailAPIKey, cfg.MailAPIURL, cfg.MailFrom)
	} else {
		logger.Warn("mail delivery not configured; codes and reset tokens are not sent")
	}

	opts := []sessionservice.Option{
		sessionservice.WithLogger(logger),
		sessionservice.WithAudit(auditLog),
		sessionservice.WithMetrics(ops),
		sessionservice.WithLatency(cfg.SimulatedLatency),
		sessionservice.WithSecondFactor(st.challenges, cfg.OTPTTL, cfg.OTPReturnToClient),
		sessionservice.WithMail(mailer),
	}
	var devOTP http.Handler
	if cfg.OTPReturnToClient && !cfg.Production() {
		store := devotp.NewMemoryStore(nil)
		opts = append(opts, sessionservice.WithDevOTPStore(store))
		devOTP = devotphandler.NewHandler(store, logger).Routes()
		logger.Warn("dev OTP mode: second-factor codes are returned to the client and served at /api/v1/dev/otp")
	}
	if cfg.VerifyPasswords {
		opts = append(opts, sessionservice.WithPasswordVerification(security.NewHasher(cfg.BcryptCost), st.creds))
	}
	registry := sessionservice.NewRegistry(st.kv, func(clientID string, s kv.Store) *sessionservice.Manager {
		return sessionservice.NewManager(st.users, s, notifier, tokens, append([]sessionservice.Option{sessionservice.WithClientID(clientID)}, opts...)...)
	},
		sessionservice.WithIdleTTL(cfg.SessionIdleTTL),
		sessionservice.WithMaxManagers(cfg.MaxClientSessions),
	)
	go registry.Run(ctx, time.Minute)

	meetings := meetingservice.NewScheduler(st.kv, st.users, logger)
	requests := collabservice.NewStore(st.requests, st.users,
		collabservice.WithLogger(logger),
		collabservice.WithAudit(auditLog),
		collabservice.WithListener(meetings),
	)
	documents := docservice.NewChamber(st.documents,
		docservice.WithLogger(logger),
		docservice.WithAudit(auditLog),
	)

	policy, err := engine.LoadPolicyFile(cfg.RoutePolicyFile)
	if err != nil {
		return fmt.Errorf("route policy: %w", err)
	}
	routes, err := engine.NewOPAEvaluator(ctx, policy)
	if err != nil {
		return fmt.Errorf("route policy: %w", err)
	}

	hs := health.NewServer()
	var pinger healthhandler.Pinger
	if st.db != nil {
		pinger = st.db
	}
	checker := healthhandler.NewChecker(pinger, routes, hs, logger)
	checker.Check(ctx)
	go checker.Run(ctx, cfg.HealthInterval)

	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.NewHTTPHandler(server.HTTPDeps{
			Log:              logger,
			Cookies:          server.NewCookieStore(cfg.SessionKey, cfg.CookieSecure),
			Sessions:         registry,
			Routes:           routes,
			Users:            st.users,
			Requests:         requests,
			Meetings:         meetings,
			Documents:        documents,
			Health:           checker,
			DevOTP:           devOTP,
			ExposeResetToken: cfg.OTPReturnToClient,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	grpcSrv := server.NewGRPCServer(server.GRPCDeps{Health: hs, Log: logger, Reflection: !cfg.Production()})

	errc := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		errc <- grpcSrv.Serve(lis)
	}()
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		logger.Error("server failed", zap.Error(err))
	}

	logger.Info("shutting down")
	hs.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcSrv.GracefulStop()
	logger.Info("servers stopped")
	return nil
}
