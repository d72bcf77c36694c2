package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/ratelimit"
	"pdfshare/internal/service"
)

// PublicCommentLimit is the rate limiter endpoint name of POST /api/public/comment/:token.
const PublicCommentLimit = "public_comment"

// Dependencies carries everything the routes need.
type Dependencies struct {
	DB             Pinger
	Documents      service.DocumentService
	Shares         service.ShareService
	Comments       service.CommentService
	Public         service.PublicService
	Auth           service.AuthService
	Tokens         middleware.UserTokenParser
	CommentLimiter *ratelimit.Limiter
	Metrics        *middleware.PrometheusMiddleware
	Links          ShareLinks
	Log            *zap.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", Register(d.Auth))
	authGroup.Post("/login", Login(d.Auth))

	public := api.Group("/public")
	public.Get("/view/:token", PublicView(d.Public))
	public.Get("/view-jwt/:token", PublicViewJWT(d.Public))
	public.Get("/download/:token", PublicDownload(d.Public))
	public.Post("/comment/:token",
		middleware.RateLimit(d.CommentLimiter, PublicCommentLimit, d.Metrics, d.Log),
		PublicComment(d.Public),
	)
	public.Post("/comment-jwt/:token", PublicCommentJWT(d.Public))

	requireUser := middleware.Auth(d.Tokens, d.Log)

	docs := api.Group("/documents", requireUser)
	docs.Get("/", ListDocuments(d.Documents))
	docs.Post("/", UploadDocument(d.Documents))
	docs.Get("/download/:id", DownloadDocument(d.Documents))
	docs.Get("/view/:id", ViewDocument(d.Documents))
	docs.Post("/share/:token/revoke", RevokeShareToken(d.Shares))
	docs.Get("/:id", GetDocument(d.Documents))
	docs.Delete("/:id", DeleteDocument(d.Documents))
	docs.Post("/:id/share", ShareDocument(d.Shares, d.Links))
	docs.Post("/:id/share-jwt", ShareDocumentJWT(d.Shares, d.Links))
	docs.Get("/:id/tokens", ListShareTokens(d.Shares))

	comments := api.Group("/comments", requireUser)
	comments.Get("/document/:documentId", ListDocumentComments(d.Comments))
	comments.Post("/document/:documentId", AddDocumentComment(d.Comments))
	comments.Get("/replies/:commentId", ListReplies(d.Comments))
	comments.Put("/:commentId", UpdateComment(d.Comments))
	comments.Delete("/:commentId", DeleteComment(d.Comments))
}
