package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "ironhall/internal/adapters/email"
	web "ironhall/internal/adapters/http"
	"ironhall/internal/adapters/http/perf"
	"ironhall/internal/adapters/storage"
	accountStore "ironhall/internal/adapters/storage/account"
	assessmentStore "ironhall/internal/adapters/storage/assessment"
	clientStore "ironhall/internal/adapters/storage/client"
	contactStore "ironhall/internal/adapters/storage/contact"
	discountStore "ironhall/internal/adapters/storage/discount"
	enrollmentStore "ironhall/internal/adapters/storage/enrollment"
	notificationStore "ironhall/internal/adapters/storage/notification"
	outboxStorePkg "ironhall/internal/adapters/storage/outbox"
	programStore "ironhall/internal/adapters/storage/program"
	testimonialStore "ironhall/internal/adapters/storage/testimonial"
	"ironhall/internal/application/orchestrators"
	"ironhall/internal/config"
	outboxDomain "ironhall/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// SQLite with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	progStore := programStore.NewSQLiteStore(timedDB)
	outboxStore := outboxStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      acctStore,
		ClientStore:       clientStore.NewSQLiteStore(timedDB),
		ProgramStore:      progStore,
		TestimonialStore:  testimonialStore.NewSQLiteStore(timedDB),
		EnrollmentStore:   enrollmentStore.NewSQLiteStore(timedDB),
		ContactStore:      contactStore.NewSQLiteStore(timedDB),
		DiscountStore:     discountStore.NewSQLiteStore(timedDB),
		AssessmentStore:   assessmentStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStore,
	}

	// Seed the admin account, program catalogue, and starter testimonials
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedPrograms(context.Background(), orchestrators.SeedProgramsDeps{ProgramStore: progStore}); err != nil {
		log.Fatalf("failed to seed programs: %v", err)
	}
	if err := orchestrators.ExecuteSeedTestimonials(context.Background(), orchestrators.SeedTestimonialsDeps{TestimonialStore: stores.TestimonialStore}); err != nil {
		log.Fatalf("failed to seed testimonials: %v", err)
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: IRONHALL_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set IRONHALL_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, cfg.EmailFrom, cfg.EmailReplyTo, cfg.ContactInbox)
	web.SetBaseURL(cfg.BaseURL)

	// Outbox worker delivers queued email with retry and backoff
	processor := orchestrators.NewOutboxProcessor(outboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionTypeEmail: &orchestrators.EmailExecutor{
			Sender:  sender,
			From:    cfg.EmailFrom,
			ReplyTo: cfg.EmailReplyTo,
		},
	})
	web.SetOutboxProcessor(processor)
	stopOutbox := make(chan struct{})
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, stopOutbox)
	defer close(stopOutbox)

	// Enrollment sweeper expires stale applications and completes finished blocks
	stopSweep := make(chan struct{})
	orchestrators.StartEnrollmentMaintenanceWorker(orchestrators.SweepDeps{
		EnrollmentStore: stores.EnrollmentStore,
		Now:             time.Now,
	}, 1*time.Hour, stopSweep)
	defer close(stopSweep)

	mux := web.NewMux(cfg, stores, collector)

	log.Printf("Iron Hall %s starting on %s (env=%s, schema=%d)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
