package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"kycapi/internal/http/middleware"
	"kycapi/internal/service"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Documents    service.DocumentService
	Verification service.VerificationService
	Reviews      service.ReviewService
	Profiles     service.ProfileService
	Reports      service.ReportService
}

// Options configures RegisterRoutes. DB may be nil when the in-memory store is used.
type Options struct {
	DB        Pinger
	Gatherer  prometheus.Gatherer
	JWTSecret []byte
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the services.
func RegisterRoutes(app *fiber.App, svc Services, opts Options) {
	app.Get("/health", HealthCheck(opts.DB))
	app.Get("/healthz", LivenessProbe())
	if opts.Gatherer != nil {
		app.Get("/metrics", Metrics(opts.Gatherer))
	}

	api := app.Group("/api/v1", middleware.Auth(opts.JWTSecret))

	kyc := api.Group("/kyc")
	kyc.Get("/profile", GetMyProfile(svc.Profiles))
	kyc.Get("/documents", ListMyDocuments(svc.Documents))
	kyc.Post("/documents", UploadDocument(svc.Documents))
	kyc.Patch("/documents/:id", UpdateDocument(svc.Documents))
	kyc.Delete("/documents/:id", DeleteDocument(svc.Documents))
	kyc.Get("/documents/:id/file", DocumentFileURL(svc.Documents))

	admin := api.Group("/admin/kyc", middleware.RequireAdmin())
	admin.Get("/documents", ListForVerification(svc.Documents))
	admin.Post("/documents/bulk-verify", BulkVerify(svc.Verification))
	admin.Post("/documents/:id/verify", VerifyDocument(svc.Verification))
	admin.Post("/documents/:id/restore", RestoreDocument(svc.Documents))
	admin.Post("/documents/:id/drafts", AppendDraftComment(svc.Reviews))
	admin.Get("/documents/:id/drafts", GetDraftHistory(svc.Reviews))
	// Registered before /profiles/:ownerId so "expiring" is not taken as an owner id.
	admin.Get("/profiles/expiring", ExpiringProfiles(svc.Reports))
	admin.Get("/profiles/:ownerId", GetOwnerProfile(svc.Profiles))
	admin.Post("/profiles/:ownerId/verify", VerifyProfile(svc.Verification))
	admin.Post("/profiles/:ownerId/reject", RejectProfile(svc.Verification))
	admin.Get("/profiles/:ownerId/export", ExportKYCData(svc.Profiles))
	admin.Get("/statistics", Statistics(svc.Reports))
}
