package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"mentorlink/internal/auth"
	"mentorlink/internal/feed"
	"mentorlink/internal/http/middleware"
	"mentorlink/internal/logging"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	"mentorlink/internal/service"
)

// Deps bundles everything the HTTP routes need. The document stream talks to
// the repository and hub directly; everything else goes through a service.
type Deps struct {
	DB          *sql.DB
	Metrics     *prometheus.Registry
	Tokens      *auth.Manager
	Auth        service.AuthService
	Documents   service.DocumentService
	Categories  service.CategoryService
	Assignments service.AssignmentService
	Users       service.UserService
	DocRepo     repository.DocumentRepository
	AssignRepo  repository.AssignmentRepository
	Hub         *feed.Hub
	Log         *logging.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(d.DB))

	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	// Prometheus exposition for the injected registry
	if d.Metrics != nil {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{Registry: d.Metrics}),
		)
		app.Get("/metrics", func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// Account creation and login are the only unauthenticated endpoints
	app.Post("/auth/register", Register(d.Auth))
	app.Post("/auth/login", Login(d.Auth))

	authed := middleware.Auth(d.Tokens)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)
	studentOnly := middleware.RequireRoles(model.RoleStudent)
	reviewers := middleware.RequireRoles(model.RoleMentor, model.RoleAdmin)

	// Document workflow. /documents/stream must be registered before
	// /documents/:id or the :id route would swallow it.
	app.Get("/documents", authed, ListDocuments(d.Documents))
	app.Post("/documents", authed, studentOnly, SubmitDocument(d.Documents))
	app.Get("/documents/stream", authed, StreamDocuments(d.DocRepo, d.AssignRepo, d.Hub, d.Log))
	app.Get("/documents/:id", authed, GetDocument(d.Documents))
	app.Get("/documents/:id/download", authed, DownloadDocument(d.Documents))
	app.Patch("/documents/:id", authed, studentOnly, UpdateDocumentMeta(d.Documents))
	app.Post("/documents/:id/resubmit", authed, studentOnly, ResubmitDocument(d.Documents))
	app.Post("/documents/:id/review", authed, reviewers, ReviewDocument(d.Documents))
	app.Delete("/documents/:id", authed, adminOnly, DeleteDocument(d.Documents))

	// Categories: readable by everyone signed in, managed by admins
	app.Get("/categories", authed, ListCategories(d.Categories))
	app.Post("/categories", authed, adminOnly, CreateCategory(d.Categories))
	app.Put("/categories/:id", authed, adminOnly, UpdateCategory(d.Categories))
	app.Delete("/categories/:id", authed, adminOnly, DeleteCategory(d.Categories))

	// Mentor-student assignments. The roster route comes first for the same
	// reason as the stream route.
	app.Get("/assignments/students", authed, middleware.RequireRoles(model.RoleMentor), ListMyStudents(d.Assignments))
	app.Get("/assignments", authed, adminOnly, ListAssignments(d.Assignments))
	app.Post("/assignments", authed, adminOnly, CreateAssignment(d.Assignments))
	app.Delete("/assignments/:id", authed, adminOnly, DeleteAssignment(d.Assignments))

	// Account administration
	app.Get("/users", authed, adminOnly, ListUsers(d.Users))
	app.Patch("/users/:id/role", authed, adminOnly, ChangeUserRole(d.Users))
}
