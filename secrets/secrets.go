package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

var (
	// ErrSecretNotFound reports that the named secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretMalformed reports that the secret payload is not a JSON
	// object of strings.
	ErrSecretMalformed = errors.New("secret payload malformed")

	// ErrSecretIncomplete reports that required fields are missing from the
	// secret payload.
	ErrSecretIncomplete = errors.New("secret payload incomplete")

	// ErrSecretUnavailable reports that Secrets Manager could not answer.
	ErrSecretUnavailable = errors.New("secrets manager unavailable")
)

// Secret payload field names. The same names double as environment
// variables for [FromEnv].
const (
	fieldMediaServerURL       = "MEDIA_SERVER_URL"
	fieldMediaServerAPIKey    = "MEDIA_SERVER_API_KEY"
	fieldMediaServerAPISecret = "MEDIA_SERVER_API_SECRET"
	fieldKeyStoreAddr         = "KEY_STORE_ADDR"
	fieldKeyStorePassword     = "KEY_STORE_PASSWORD"
	fieldDefaultAgent         = "DEFAULT_AGENT"
)

// MediaServerConfig is the deployment configuration carried by the secret.
type MediaServerConfig struct {
	MediaServerURL       string
	MediaServerAPIKey    string
	MediaServerAPISecret string

	KeyStoreAddr     string
	KeyStorePassword string
	DefaultAgent     string
}

// API is the slice of the Secrets Manager client the loader needs.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Loader reads deployment secrets from AWS Secrets Manager.
type Loader struct {
	client API
}

// NewLoader resolves AWS credentials from the default chain and builds a
// loader scoped to region.
func NewLoader(ctx context.Context, region string) (*Loader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Join(ErrSecretUnavailable, err)
	}
	return &Loader{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewLoaderWithClient wraps an existing client. Intended for tests.
func NewLoaderWithClient(client API) *Loader {
	return &Loader{client: client}
}

// Load fetches and parses the named secret.
func (l *Loader) Load(ctx context.Context, name string) (*MediaServerConfig, error) {
	out, err := l.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return nil, errors.Join(ErrSecretUnavailable, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("%w: %s has no string payload", ErrSecretMalformed, name)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &fields); err != nil {
		return nil, errors.Join(ErrSecretMalformed, err)
	}

	return fromFields(fields)
}

// FromEnv assembles the configuration from process environment variables,
// using the same field names as the secret payload.
func FromEnv() (*MediaServerConfig, error) {
	fields := map[string]string{
		fieldMediaServerURL:       os.Getenv(fieldMediaServerURL),
		fieldMediaServerAPIKey:    os.Getenv(fieldMediaServerAPIKey),
		fieldMediaServerAPISecret: os.Getenv(fieldMediaServerAPISecret),
		fieldKeyStoreAddr:         os.Getenv(fieldKeyStoreAddr),
		fieldKeyStorePassword:     os.Getenv(fieldKeyStorePassword),
		fieldDefaultAgent:         os.Getenv(fieldDefaultAgent),
	}
	return fromFields(fields)
}

func fromFields(fields map[string]string) (*MediaServerConfig, error) {
	var missing []string
	for _, required := range []string{
		fieldMediaServerURL,
		fieldMediaServerAPIKey,
		fieldMediaServerAPISecret,
	} {
		if fields[required] == "" {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrSecretIncomplete, strings.Join(missing, ", "))
	}

	return &MediaServerConfig{
		MediaServerURL:       fields[fieldMediaServerURL],
		MediaServerAPIKey:    fields[fieldMediaServerAPIKey],
		MediaServerAPISecret: fields[fieldMediaServerAPISecret],
		KeyStoreAddr:         fields[fieldKeyStoreAddr],
		KeyStorePassword:     fields[fieldKeyStorePassword],
		DefaultAgent:         fields[fieldDefaultAgent],
	}, nil
}
