package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

// keyPrefixes maps each environment to the secret key prefixes it accepts.
// Catching a live key in test (or the reverse) at boot beats finding out
// on the first checkout.
var keyPrefixes = map[string][]string{
	testEnv: {"sk_test", "rk_test"},
	liveEnv: {"sk_live", "rk_live"},
}

var (
	errAPIKeyRequired = errors.New("stripe api key is required")
	errSecretRequired = errors.New("stripe webhook secret is required")
)

// Client bundles the Stripe API handle with the webhook signing secret.
// The key lives on this client only; nothing sets the package-level
// stripe.Key, so tests and tools can hold differently-keyed clients.
type Client struct {
	api           *stripe.Client
	environment   string
	signingSecret string
}

func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env := strings.TrimSpace(strings.ToLower(cfg.Environment()))
	if env == "" {
		env = testEnv
	}
	prefixes, ok := keyPrefixes[env]
	if !ok {
		return nil, fmt.Errorf("stripe environment must be %q or %q, got %q", testEnv, liveEnv, env)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if !hasAnyPrefix(apiKey, prefixes) {
		return nil, fmt.Errorf("stripe environment %q requires a key prefixed %s", env, strings.Join(prefixes, "/"))
	}

	signingSecret := strings.TrimSpace(cfg.Secret)
	if signingSecret == "" {
		return nil, errSecretRequired
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		api:           stripe.NewClient(apiKey),
		environment:   env,
		signingSecret: signingSecret,
	}, nil
}

// API returns the underlying Stripe API client.
func (c *Client) API() *stripe.Client {
	if c == nil {
		return nil
	}
	return c.api
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// SigningSecret returns the webhook signing secret.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.signingSecret
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
