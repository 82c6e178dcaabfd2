package flagutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/pflag"

	"github.com/aarosystems/jira-stats/internal/config"
)

func TestAddPFlagsUsesConfigDefaults(t *testing.T) {
	cfg := config.Config{Endpoint: "https://jira.example.com", Username: "jane"}

	var o JiraOptions
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddPFlags(fs, cfg)

	if err := fs.Parse([]string{"-t", "tok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Endpoint != cfg.Endpoint {
		t.Errorf("expected endpoint %q, got %q", cfg.Endpoint, o.Endpoint)
	}
	if o.Username != cfg.Username {
		t.Errorf("expected username %q, got %q", cfg.Username, o.Username)
	}
	if o.Token != "tok" {
		t.Errorf("expected token %q, got %q", "tok", o.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		options        JiraOptions
		expectedErrors []string
	}{
		{
			name:    "all set",
			options: JiraOptions{Endpoint: "https://jira.example.com", Username: "jane", Token: "tok"},
		},
		{
			name:           "missing token",
			options:        JiraOptions{Endpoint: "https://jira.example.com", Username: "jane"},
			expectedErrors: []string{"--token"},
		},
		{
			name:           "everything missing is reported at once",
			options:        JiraOptions{},
			expectedErrors: []string{"--jira.endpoint", "--username", "--token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if len(tt.expectedErrors) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error but got none")
			}
			for _, expected := range tt.expectedErrors {
				if !strings.Contains(err.Error(), expected) {
					t.Errorf("expected error to mention %q, got %q", expected, err.Error())
				}
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name          string
		options       JiraOptions
		env           string
		stored        map[string]string
		expectedToken string
	}{
		{
			name:          "explicit token wins",
			options:       JiraOptions{Username: "jane", Token: "flag", UseKeyring: true},
			env:           "env",
			stored:        map[string]string{"jane": "ring"},
			expectedToken: "flag",
		},
		{
			name:          "environment before keyring",
			options:       JiraOptions{Username: "jane", UseKeyring: true},
			env:           "env",
			stored:        map[string]string{"jane": "ring"},
			expectedToken: "env",
		},
		{
			name:          "keyring when enabled",
			options:       JiraOptions{Username: "jane", UseKeyring: true},
			stored:        map[string]string{"jane": "ring"},
			expectedToken: "ring",
		},
		{
			name:    "keyring ignored when disabled",
			options: JiraOptions{Username: "jane"},
			stored:  map[string]string{"jane": "ring"},
		},
		{
			name:    "nothing stored for user",
			options: JiraOptions{Username: "john", UseKeyring: true},
			stored:  map[string]string{"jane": "ring"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(TokenEnv, tt.env)

			var items []keyring.Item
			for user, token := range tt.stored {
				items = append(items, keyring.Item{Key: user, Data: []byte(token)})
			}
			openRing := func() (keyring.Keyring, error) {
				return keyring.NewArrayKeyring(items), nil
			}

			o := tt.options
			if err := o.ResolveToken(openRing); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Token != tt.expectedToken {
				t.Errorf("expected token %q, got %q", tt.expectedToken, o.Token)
			}
		})
	}
}

func TestClient(t *testing.T) {
	o := JiraOptions{Endpoint: "https://jira.example.com", Username: "jane", Token: "tok"}

	client, err := o.Client()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := client.GetBaseURL(); got.Host != "jira.example.com" {
		t.Errorf("expected host jira.example.com, got %q", got.Host)
	}
}

func TestResolveTokenOpensKeyringOnlyWhenNeeded(t *testing.T) {
	t.Setenv(TokenEnv, "")

	opened := false
	openRing := func() (keyring.Keyring, error) {
		opened = true
		return nil, errors.New("no keyring available")
	}

	o := JiraOptions{Username: "jane", Token: "flag", UseKeyring: true}
	if err := o.ResolveToken(openRing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opened {
		t.Errorf("keyring must not be opened when a token is given")
	}

	o = JiraOptions{Username: "jane", UseKeyring: true}
	if err := o.ResolveToken(openRing); err == nil {
		t.Errorf("expected keyring open failure to be reported")
	}
}
