package stripe

import (
	"context"
	"testing"

	"github.com/instaprompt/backend/pkg/config"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.StripeConfig
		wantErr bool
	}{
		{"test key in test env", config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_1", Env: "test"}, false},
		{"live key in test env", config.StripeConfig{APIKey: "sk_live_abc", Secret: "whsec_1", Env: "test"}, true},
		{"live key in live env", config.StripeConfig{APIKey: "sk_live_abc", Secret: "whsec_1", Env: "live"}, false},
		{"missing api key", config.StripeConfig{Secret: "whsec_1", Env: "test"}, true},
		{"missing signing secret", config.StripeConfig{APIKey: "sk_test_abc", Env: "test"}, true},
		{"unknown env", config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_1", Env: "sandbox"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got client %+v", client)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.SigningSecret() != "whsec_1" {
				t.Fatalf("unexpected signing secret %q", client.SigningSecret())
			}
		})
	}
}
