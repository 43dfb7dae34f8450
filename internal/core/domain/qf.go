package domain

import "fmt"

// QFEnvironment selects a Quran Foundation deployment.
type QFEnvironment string

const (
	QFEnvPrelive    QFEnvironment = "prelive"
	QFEnvProduction QFEnvironment = "production"
)

// MissingCredentialsMessage is shown to operators when the client id is absent.
const MissingCredentialsMessage = "Missing Quran Foundation API credentials. " +
	"Set QF_CLIENT_ID and QF_CLIENT_SECRET in .env. " +
	"Request access: https://api-docs.quran.foundation/request-access"

// QFEndpoints are the base URLs of one deployment.
type QFEndpoints struct {
	AuthBaseURL string
	APIBaseURL  string
}

var qfEndpoints = map[QFEnvironment]QFEndpoints{
	QFEnvPrelive: {
		AuthBaseURL: "https://prelive-oauth2.quran.foundation",
		APIBaseURL:  "https://apis-prelive.quran.foundation",
	},
	QFEnvProduction: {
		AuthBaseURL: "https://oauth2.quran.foundation",
		APIBaseURL:  "https://apis.quran.foundation",
	},
}

// ResolveQFEnvironment maps a QF_ENV value to its endpoints.
// Unknown values fall back to prelive.
func ResolveQFEnvironment(name string) (QFEnvironment, QFEndpoints) {
	env := QFEnvironment(name)
	if ep, ok := qfEndpoints[env]; ok {
		return env, ep
	}
	return QFEnvPrelive, qfEndpoints[QFEnvPrelive]
}

// QFConfig holds the Quran Foundation client registration.
type QFConfig struct {
	Env          QFEnvironment
	ClientID     string
	ClientSecret string
	AuthBaseURL  string
	APIBaseURL   string
}

// NewQFConfig builds a config for the named environment.
func NewQFConfig(env, clientID, clientSecret string) QFConfig {
	resolved, ep := ResolveQFEnvironment(env)
	return QFConfig{
		Env:          resolved,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthBaseURL:  ep.AuthBaseURL,
		APIBaseURL:   ep.APIBaseURL,
	}
}

// Validate reports ErrConfiguration when no client id is configured.
func (c QFConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: %s", ErrConfiguration, MissingCredentialsMessage)
	}
	return nil
}

// IsConfidential reports whether the client authenticates with a secret.
func (c QFConfig) IsConfidential() bool {
	return c.ClientSecret != ""
}

// HasContentCredentials reports whether the client-credentials grant is usable.
func (c QFConfig) HasContentCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
