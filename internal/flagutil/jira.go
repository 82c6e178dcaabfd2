package flagutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
	"github.com/andygrunwald/go-jira"
	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/aarosystems/jira-stats/internal/config"
	"github.com/aarosystems/jira-stats/internal/credential"
)

const (
	// TokenEnv is consulted when no token is given on the command line
	TokenEnv = "JIRA_API_TOKEN"

	tokenHelp = "Jira API token. Create one at https://id.atlassian.com/manage-profile/security/api-tokens"
)

// JiraOptions holds the flags needed to talk to Jira with basic authentication
type JiraOptions struct {
	Endpoint   string
	Username   string
	Token      string
	UseKeyring bool
}

// AddPFlags injects Jira options into the given pflag.FlagSet, using cfg for defaults
func (o *JiraOptions) AddPFlags(fs *pflag.FlagSet, cfg config.Config) {
	fs.StringVar(&o.Endpoint, "jira.endpoint", cfg.Endpoint, "Jira endpoint URL")
	fs.StringVarP(&o.Username, "username", "u", cfg.Username, "Username for basic authentication, typically your email")
	fs.StringVarP(&o.Token, "token", "t", "", tokenHelp+". Falls back to $"+TokenEnv)
	fs.BoolVar(&o.UseKeyring, "keyring", false, "Read the token from the system keyring when it is not given otherwise")
}

// ResolveToken fills in the token from the environment or, when UseKeyring is set,
// from the keyring returned by openRing. A token given explicitly is never replaced
// and the keyring is only opened when it is actually consulted.
func (o *JiraOptions) ResolveToken(openRing func() (keyring.Keyring, error)) error {
	if o.Token != "" {
		return nil
	}
	if token := os.Getenv(TokenEnv); token != "" {
		o.Token = token
		return nil
	}
	if !o.UseKeyring || openRing == nil || o.Username == "" {
		return nil
	}

	ring, err := openRing()
	if err != nil {
		return fmt.Errorf("cannot open keyring: %w", err)
	}
	token, err := credential.Token(ring, o.Username)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("cannot read token from keyring: %w", err)
	}
	o.Token = token
	return nil
}

// Validate checks that all values needed to create a client are present
func (o *JiraOptions) Validate() error {
	var errs []error
	if o.Endpoint == "" {
		errs = append(errs, fmt.Errorf("--jira.endpoint must be specified and nonempty"))
	}
	if o.Username == "" {
		errs = append(errs, fmt.Errorf("--username must be specified and nonempty"))
	}
	if o.Token == "" {
		errs = append(errs, fmt.Errorf("--token must be specified and nonempty (or set $%s, or use --keyring)", TokenEnv))
	}
	return utilerrors.NewAggregate(errs)
}

// Client creates a go-jira client authenticating with username and API token
func (o *JiraOptions) Client() (*jira.Client, error) {
	transport := jira.BasicAuthTransport{
		Username: o.Username,
		Password: o.Token,
	}

	client, err := jira.NewClient(transport.Client(), o.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("cannot create Jira client for %s: %w", o.Endpoint, err)
	}
	return client, nil
}
