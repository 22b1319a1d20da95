package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appmw "meetblog/internal/middleware"
	httprouters "meetblog/internal/transport/http"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m         *http.ServeMux
	log       *slog.Logger
	e         *echo.Echo
	routers   *httprouters.Routers
	host      string
	port      string
	secret    string
	uploadDir string
	uploadURL string
}

func New(log *slog.Logger, secret, host, port, uploadDir, uploadURL string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:         mux,
		log:       log,
		e:         e,
		routers:   routers,
		host:      host,
		port:      port,
		secret:    secret,
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.Static(s.uploadURL, s.uploadDir)

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	api := s.e.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", s.routers.Login)
			auth.POST("/refresh", s.routers.Refresh)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", s.routers.ListPosts)
			posts.GET("/featured", s.routers.GetFeaturedPosts)
			posts.GET("/latest", s.routers.GetLatestPosts)
			posts.GET("/popular", s.routers.GetPopularPosts)
			posts.GET("/search", s.routers.SearchPosts)
			posts.GET("/:slug", s.routers.GetPost)
			posts.GET("/:slug/related", s.routers.GetRelatedPosts)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.routers.ListCategories)
			categories.GET("/:slug", s.routers.GetCategory)
			categories.GET("/:slug/posts", s.routers.GetCategoryPosts)
		}

		authors := api.Group("/authors")
		{
			authors.GET("", s.routers.ListAuthors)
			authors.GET("/:id", s.routers.GetAuthor)
			authors.GET("/:id/posts", s.routers.GetAuthorPosts)
		}

		api.GET("/stats", s.routers.GetStats)

		admin := api.Group("/admin")
		admin.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(s.secret),
		}))
		{
			admin.POST("/logout", s.routers.Logout)

			admin.GET("/posts", s.routers.AdminListPosts)
			admin.POST("/posts", s.routers.CreatePost)
			admin.POST("/posts/validate", s.routers.ValidatePost)
			admin.PATCH("/posts/:id", s.routers.UpdatePost)
			admin.DELETE("/posts/:id", s.routers.DeletePost)

			admin.POST("/categories", s.routers.CreateCategory)
			admin.PATCH("/categories/:id", s.routers.UpdateCategory)
			admin.DELETE("/categories/:id", s.routers.DeleteCategory)

			admin.POST("/upload", s.routers.UploadFile)
		}
	}
}
