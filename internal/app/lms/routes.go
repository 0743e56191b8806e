// Package lms предоставляет маршруты основного приложения.
package lms

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lms-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lms-backend/internal/http/handlers/auth/register"
	coursecreate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/course/update"
	"github.com/magabrotheeeer/lms-backend/internal/http/handlers/health"
	lessoncreate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/lesson/create"
	lessonlist "github.com/magabrotheeeer/lms-backend/internal/http/handlers/lesson/list"
	lessonread "github.com/magabrotheeeer/lms-backend/internal/http/handlers/lesson/read"
	lessonremove "github.com/magabrotheeeer/lms-backend/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/lesson/update"
	paymentcreate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/lms-backend/internal/http/handlers/payment/list"
	paymentread "github.com/magabrotheeeer/lms-backend/internal/http/handlers/payment/read"
	paymentstatus "github.com/magabrotheeeer/lms-backend/internal/http/handlers/payment/status"
	profileread "github.com/magabrotheeeer/lms-backend/internal/http/handlers/profile/read"
	profileremove "github.com/magabrotheeeer/lms-backend/internal/http/handlers/profile/remove"
	profileupdate "github.com/magabrotheeeer/lms-backend/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/lms-backend/internal/http/handlers/subscription/toggle"
	"github.com/magabrotheeeer/lms-backend/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/lms-backend/internal/services/auth"
	courseservice "github.com/magabrotheeeer/lms-backend/internal/services/course"
	lessonservice "github.com/magabrotheeeer/lms-backend/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/lms-backend/internal/services/payment"
	profileservice "github.com/magabrotheeeer/lms-backend/internal/services/profile"
	subservice "github.com/magabrotheeeer/lms-backend/internal/services/subscription"
)

// Services собирает сервисы, которыми пользуются обработчики.
type Services struct {
	Auth         *authservice.AuthService
	Course       *courseservice.CourseService
	Lesson       *lessonservice.LessonService
	Profile      *profileservice.ProfileService
	Payment      *paymentservice.PaymentService
	Subscription *subservice.SubscriptionService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/courses", coursecreate.New(logger, s.Course).ServeHTTP)
			r.Get("/courses", courselist.New(logger, s.Course).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, s.Course).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.New(logger, s.Course).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, s.Course).ServeHTTP)

			r.Post("/lessons", lessoncreate.New(logger, s.Lesson).ServeHTTP)
			r.Get("/lessons", lessonlist.New(logger, s.Lesson).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, s.Lesson).ServeHTTP)
			r.Put("/lessons/{id}", lessonupdate.New(logger, s.Lesson).ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, s.Lesson).ServeHTTP)

			r.Get("/profiles/{uid}", profileread.New(logger, s.Profile).ServeHTTP)
			r.Put("/profiles/{uid}", profileupdate.New(logger, s.Profile).ServeHTTP)
			r.Delete("/profiles/{uid}", profileremove.New(logger, s.Profile).ServeHTTP)

			r.Post("/subscriptions/toggle", toggle.New(logger, s.Subscription).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/{id}/status", paymentstatus.New(logger, s.Payment).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
