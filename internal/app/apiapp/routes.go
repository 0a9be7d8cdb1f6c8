package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/okazarov/sitecms/internal/config"
	authsvc "github.com/okazarov/sitecms/internal/services/auth"
	pagesvc "github.com/okazarov/sitecms/internal/services/pages"
	postsvc "github.com/okazarov/sitecms/internal/services/posts"
	videosvc "github.com/okazarov/sitecms/internal/services/videos"
	"github.com/okazarov/sitecms/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService  *authsvc.Service
	PostsService *postsvc.Service
	VideoService *videosvc.Service
	PageService  *pagesvc.Service
	Logger       *zap.Logger
	Config       config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	maxBytes := deps.Config.Upload.MaxBytes

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	postsHandler := handlers.NewPostsHandler(deps.PostsService, maxBytes)
	videosHandler := handlers.NewVideosHandler(deps.VideoService, maxBytes)
	pagesHandler := handlers.NewPagesHandler(deps.PageService, maxBytes)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(authMW).Post("/logout", authHandler.Logout)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsHandler.List)
			r.With(authMW).Post("/", postsHandler.Create)
			r.With(authMW).Put("/{id}", postsHandler.Update)
			r.With(authMW).Delete("/{id}", postsHandler.Delete)
		})

		// /videos is kept as an alias of /corporate-videos for older
		// dashboard builds.
		for _, prefix := range []string{"/corporate-videos", "/videos"} {
			r.Route(prefix, func(r chi.Router) {
				r.Get("/", videosHandler.ListCorporate)
				r.With(authMW).Post("/", videosHandler.CreateCorporate)
				r.With(authMW).Put("/{id}", videosHandler.UpdateCorporate)
				r.With(authMW).Delete("/{id}", videosHandler.DeleteCorporate)
			})
		}

		r.Route("/reels", func(r chi.Router) {
			r.Get("/", videosHandler.ListReels)
			r.With(authMW).Post("/", videosHandler.CreateReel)
			r.With(authMW).Put("/{id}", videosHandler.UpdateReel)
			r.With(authMW).Delete("/{id}", videosHandler.DeleteReel)
		})

		r.Route("/team-videos", func(r chi.Router) {
			r.Get("/", videosHandler.ListTeam)
			r.With(authMW).Post("/", videosHandler.CreateTeam)
			r.With(authMW).Put("/{id}", videosHandler.UpdateTeam)
			r.With(authMW).Delete("/{id}", videosHandler.DeleteTeam)
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", pagesHandler.ListTestimonials)
			r.With(authMW).Post("/", pagesHandler.CreateTestimonial)
			r.With(authMW).Put("/{id}", pagesHandler.UpdateTestimonial)
			r.With(authMW).Delete("/{id}", pagesHandler.DeleteTestimonial)
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", pagesHandler.ListBlogs)
			r.With(authMW).Post("/", pagesHandler.CreateBlog)
			r.With(authMW).Put("/{id}", pagesHandler.UpdateBlog)
			r.With(authMW).Delete("/{id}", pagesHandler.DeleteBlog)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", pagesHandler.ListServicePages)
			r.With(authMW).Post("/", pagesHandler.CreateServicePage)
			r.With(authMW).Put("/{id}", pagesHandler.UpdateServicePage)
			r.With(authMW).Delete("/{id}", pagesHandler.DeleteServicePage)
		})
	})
}
