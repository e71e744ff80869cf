package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jkimanzi/dukahub-backend/api/controllers"
	"github.com/jkimanzi/dukahub-backend/api/middleware"
	"github.com/jkimanzi/dukahub-backend/internal/affiliates"
	authsvc "github.com/jkimanzi/dukahub-backend/internal/auth"
	"github.com/jkimanzi/dukahub-backend/internal/blog"
	"github.com/jkimanzi/dukahub-backend/internal/cart"
	"github.com/jkimanzi/dukahub-backend/internal/catalog"
	checkoutsvc "github.com/jkimanzi/dukahub-backend/internal/checkout"
	"github.com/jkimanzi/dukahub-backend/internal/consultations"
	"github.com/jkimanzi/dukahub-backend/internal/content"
	"github.com/jkimanzi/dukahub-backend/internal/media"
	"github.com/jkimanzi/dukahub-backend/internal/orders"
	"github.com/jkimanzi/dukahub-backend/internal/promotions"
	"github.com/jkimanzi/dukahub-backend/internal/registrations"
	"github.com/jkimanzi/dukahub-backend/internal/team"
	"github.com/jkimanzi/dukahub-backend/pkg/auth/session"
	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/db"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
	"github.com/jkimanzi/dukahub-backend/pkg/metrics"
	"github.com/jkimanzi/dukahub-backend/pkg/redis"
	"github.com/jkimanzi/dukahub-backend/pkg/whatsapp"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          authsvc.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Promotions    promotions.Service
	Orders        orders.Service
	Affiliates    affiliates.Service
	Blog          blog.Service
	Team          team.Service
	Content       content.Service
	Consultations consultations.Service
	Registrations registrations.Service
	Media         media.Service
	WhatsApp      *whatsapp.LinkBuilder
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Affiliate share links live at the root so they stay short.
	r.Get("/p/{slug}", controllers.ResolveAffiliateLink(svcs.Affiliates, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		})

		// Public storefront surface.
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ShopListProducts(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ShopGetProduct(svcs.Catalog, logg))
			r.Get("/{productId}/whatsapp", controllers.ShopProductInquiry(svcs.Catalog, svcs.WhatsApp, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ShopListCategories(svcs.Catalog, logg))
			r.Get("/counts", controllers.ShopCategoryCounts(svcs.Catalog, logg))
		})
		r.Route("/blog", func(r chi.Router) {
			r.Get("/posts", controllers.BlogFeed(svcs.Blog, logg))
			r.Get("/posts/{slug}", controllers.BlogPostBySlug(svcs.Blog, logg))
			r.Get("/categories", controllers.BlogCategories(svcs.Blog, logg))
		})
		r.Get("/team", controllers.TeamList(svcs.Team, logg))
		r.Get("/content/{key}", controllers.ContentByKey(svcs.Content, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
		})
		r.Post("/promotions/validate", controllers.ValidatePromotion(svcs.Promotions, logg))
		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/consultations", controllers.SubmitConsultation(svcs.Consultations, logg))
		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/registrations", controllers.SubmitRegistration(svcs.Registrations, logg))

		// Back-office surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(svcs.Catalog, logg))
				r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(svcs.Catalog, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminListCategories(svcs.Catalog, logg))
				r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
				r.Patch("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
				r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
				r.Get("/counts", controllers.AdminOrderStatusCounts(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(svcs.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			})
			r.Route("/promotions", func(r chi.Router) {
				r.Get("/", controllers.AdminListPromotions(svcs.Promotions, logg))
				r.Post("/", controllers.AdminCreatePromotion(svcs.Promotions, logg))
				r.Get("/{promotionId}", controllers.AdminGetPromotion(svcs.Promotions, logg))
				r.Patch("/{promotionId}", controllers.AdminUpdatePromotion(svcs.Promotions, logg))
				r.Delete("/{promotionId}", controllers.AdminDeletePromotion(svcs.Promotions, logg))
			})
			r.Route("/affiliates", func(r chi.Router) {
				r.Get("/", controllers.AdminListAgents(svcs.Affiliates, logg))
				r.Post("/", controllers.AdminCreateAgent(svcs.Affiliates, logg))
				r.Get("/{agentId}", controllers.AdminGetAgent(svcs.Affiliates, logg))
				r.Patch("/{agentId}", controllers.AdminUpdateAgent(svcs.Affiliates, logg))
				r.Get("/{agentId}/stats", controllers.AdminAgentStats(svcs.Affiliates, logg))
			})
			r.Route("/affiliate-links", func(r chi.Router) {
				r.Get("/", controllers.AdminListAffiliateLinks(svcs.Affiliates, logg))
				r.Post("/", controllers.AdminCreateAffiliateLink(svcs.Affiliates, logg))
				r.Patch("/{linkId}", controllers.AdminUpdateAffiliateLink(svcs.Affiliates, logg))
				r.Delete("/{linkId}", controllers.AdminDeleteAffiliateLink(svcs.Affiliates, logg))
			})
			r.Get("/referrals", controllers.AdminListReferrals(svcs.Affiliates, logg))
			r.Route("/blog", func(r chi.Router) {
				r.Get("/posts", controllers.AdminListBlogPosts(svcs.Blog, logg))
				r.Post("/posts", controllers.AdminCreateBlogPost(svcs.Blog, logg))
				r.Get("/posts/{postId}", controllers.AdminGetBlogPost(svcs.Blog, logg))
				r.Patch("/posts/{postId}", controllers.AdminUpdateBlogPost(svcs.Blog, logg))
				r.Delete("/posts/{postId}", controllers.AdminDeleteBlogPost(svcs.Blog, logg))
				r.Post("/categories", controllers.AdminCreateBlogCategory(svcs.Blog, logg))
				r.Patch("/categories/{categoryId}", controllers.AdminUpdateBlogCategory(svcs.Blog, logg))
				r.Delete("/categories/{categoryId}", controllers.AdminDeleteBlogCategory(svcs.Blog, logg))
			})
			r.Route("/team", func(r chi.Router) {
				r.Get("/", controllers.AdminListTeam(svcs.Team, logg))
				r.Post("/", controllers.AdminCreateTeamMember(svcs.Team, logg))
				r.Patch("/{memberId}", controllers.AdminUpdateTeamMember(svcs.Team, logg))
				r.Delete("/{memberId}", controllers.AdminDeleteTeamMember(svcs.Team, logg))
			})
			r.Route("/content", func(r chi.Router) {
				r.Get("/", controllers.AdminListContent(svcs.Content, logg))
				r.Put("/", controllers.AdminUpsertContent(svcs.Content, logg))
				r.Delete("/{key}", controllers.AdminDeleteContent(svcs.Content, logg))
			})
			r.Route("/consultations", func(r chi.Router) {
				r.Get("/", controllers.AdminListConsultations(svcs.Consultations, logg))
				r.Patch("/{consultationId}/status", controllers.AdminUpdateConsultationStatus(svcs.Consultations, logg))
			})
			r.Route("/registrations", func(r chi.Router) {
				r.Get("/", controllers.AdminListRegistrations(svcs.Registrations, logg))
				r.Patch("/{registrationId}/status", controllers.AdminUpdateRegistrationStatus(svcs.Registrations, logg))
			})
			r.Route("/media", func(r chi.Router) {
				r.Post("/presign", controllers.AdminPresignMedia(svcs.Media, logg))
				r.Delete("/", controllers.AdminDeleteMedia(svcs.Media, logg))
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(svcs.Auth, logg))
				r.Post("/", controllers.AdminCreateUser(svcs.Auth, logg))
				r.Patch("/{userId}/active", controllers.AdminSetUserActive(svcs.Auth, logg))
			})
		})

		// Affiliate partner dashboard.
		r.Route("/agent", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAgent), logg))
			r.Get("/dashboard", controllers.AgentDashboard(svcs.Affiliates, logg))
			r.Get("/links", controllers.AgentLinks(svcs.Affiliates, logg))
			r.Get("/referrals", controllers.AgentReferrals(svcs.Affiliates, logg))
			r.Get("/orders", controllers.AgentOrders(svcs.Orders, logg))
		})
	})

	return r
}
