package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"ironhall/internal/adapters/email"
	"ironhall/internal/adapters/http/middleware"
	"ironhall/internal/adapters/http/perf"
	accountStore "ironhall/internal/adapters/storage/account"
	assessmentStore "ironhall/internal/adapters/storage/assessment"
	clientStore "ironhall/internal/adapters/storage/client"
	contactStore "ironhall/internal/adapters/storage/contact"
	discountStore "ironhall/internal/adapters/storage/discount"
	enrollmentStore "ironhall/internal/adapters/storage/enrollment"
	notificationStore "ironhall/internal/adapters/storage/notification"
	outboxStore "ironhall/internal/adapters/storage/outbox"
	programStore "ironhall/internal/adapters/storage/program"
	testimonialStore "ironhall/internal/adapters/storage/testimonial"
	"ironhall/internal/application/orchestrators"
	"ironhall/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ClientStore       clientStore.Store
	ProgramStore      programStore.Store
	TestimonialStore  testimonialStore.Store
	EnrollmentStore   enrollmentStore.Store
	ContactStore      contactStore.Store
	DiscountStore     discountStore.Store
	AssessmentStore   assessmentStore.Store
	NotificationStore notificationStore.Store
	OutboxStore       outboxStore.Store
}

// loadCSRFKey decodes the CSRF secret from cfg.CSRFKey (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(cfg config.Config) []byte {
	if cfg.CSRFKey != "" {
		key, err := hex.DecodeString(cfg.CSRFKey)
		if err != nil || len(key) != 32 {
			log.Fatal("IRONHALL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if cfg.IsProduction() {
		log.Fatal("IRONHALL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set IRONHALL_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global outbox processor for the admin retry endpoints (set by SetOutboxProcessor)
var outboxProcessor *orchestrators.OutboxProcessor

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string
var contactInboxAddress string

// Site base URL used in emailed links (set by SetBaseURL)
var siteBaseURL = "http://localhost:8080"

// isProduction controls whether raw discount codes appear in API responses.
var isProduction = false

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo, contactInbox string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
	contactInboxAddress = contactInbox
}

// SetOutboxProcessor wires the processor used by the admin outbox endpoints.
func SetOutboxProcessor(p *orchestrators.OutboxProcessor) {
	outboxProcessor = p
}

// SetBaseURL sets the public base URL used when building emailed links.
func SetBaseURL(u string) {
	if u != "" {
		siteBaseURL = u
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg config.Config, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	isProduction = cfg.IsProduction()
	middleware.SecureCookies = isProduction

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey(cfg)

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
