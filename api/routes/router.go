package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/instaprompt/backend/api/controllers"
	webhookcontrollers "github.com/instaprompt/backend/api/controllers/webhooks"
	"github.com/instaprompt/backend/api/middleware"
	"github.com/instaprompt/backend/internal/billing"
	"github.com/instaprompt/backend/internal/captions"
	"github.com/instaprompt/backend/internal/notify"
	"github.com/instaprompt/backend/internal/ratings"
	stripewebhook "github.com/instaprompt/backend/internal/webhooks/stripe"
	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/redis"
	"github.com/instaprompt/backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	captionService captions.Service,
	ratingService ratings.Service,
	billingService billing.Service,
	emailSender *notify.EmailSender,
	redisClient *redis.Client,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.BaseURL()),
	)

	r.Get("/", controllers.Home())
	r.Get("/ping", controllers.Ping())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}
	r.With(middleware.WebhookRateLimit(cfg.RateLimit, limiter, logg)).
		Post("/webhook", controllers.Webhook(captionService, logg))
	r.Get("/rate", controllers.Rate(ratingService, logg))

	r.Route("/stripe", func(r chi.Router) {
		r.Post("/webhook", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, logg))
		r.Get("/checkout", controllers.ProCheckout(billingService, logg))
		r.Get("/trial-checkout", controllers.TrialCheckout(billingService, logg))
		r.Get("/customer-portal", controllers.CustomerPortal(billingService, logg))
	})

	if !cfg.App.IsProd() {
		r.Get("/test/email", controllers.TestEmail(emailSender, logg))
	}

	r.Get("/thanks", controllers.StaticPage("Thank you!", "Your trial is active. Check your inbox for your first captions."))
	r.Get("/cancelled", controllers.StaticPage("Checkout cancelled", "No charge was made. You can try again whenever you like."))
	r.Get("/sucesso", controllers.StaticPage("Assinatura confirmada!", "Bem-vindo ao plano PRO. Suas legendas agora são ilimitadas."))
	r.Get("/cancelado", controllers.StaticPage("Pagamento cancelado", "Nenhuma cobrança foi feita. Tente novamente quando quiser."))
	r.Get("/verificar", controllers.StaticPage("Verifique seu e-mail", "Enviamos suas legendas para o endereço informado."))

	return r
}
