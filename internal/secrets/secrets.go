package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Credentials holds the third-party API credentials the pipeline
// needs. The JSON keys match the Secrets Manager payload layout.
type Credentials struct {
	ShipStationKey     string `json:"SHIPSTATION_API_KEY"`
	ShipStationSecret  string `json:"SHIPSTATION_API_SECRET"`
	RebrandlyAPIKey    string `json:"REBRANDLY_API_KEY"`
	RebrandlyWorkspace string `json:"REBRANDLY_WORKSPACE"`
}

// Load resolves credentials from the secret named by
// CREDENTIALS_SECRET_ARN, with environment variables filling any field
// the secret leaves empty. With no ARN configured the environment is
// the only source.
func Load(ctx context.Context) (Credentials, error) {
	var creds Credentials
	if arn := os.Getenv("CREDENTIALS_SECRET_ARN"); arn != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Credentials{}, fmt.Errorf("load aws config: %w", err)
		}
		sm := secretsmanager.NewFromConfig(cfg)
		out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &arn})
		if err != nil {
			return Credentials{}, fmt.Errorf("get secret: %w", err)
		}
		if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
			return Credentials{}, fmt.Errorf("parse secret json: %w", err)
		}
	}
	fillFromEnv(&creds.ShipStationKey, "SHIPSTATION_API_KEY")
	fillFromEnv(&creds.ShipStationSecret, "SHIPSTATION_API_SECRET")
	fillFromEnv(&creds.RebrandlyAPIKey, "REBRANDLY_API_KEY")
	fillFromEnv(&creds.RebrandlyWorkspace, "REBRANDLY_WORKSPACE")
	return creds, nil
}

// HasShipStation reports whether fulfillment submission can run
func (c Credentials) HasShipStation() bool {
	return c.ShipStationKey != "" && c.ShipStationSecret != ""
}

// HasRebrandly reports whether link shortening can run
func (c Credentials) HasRebrandly() bool {
	return c.RebrandlyAPIKey != ""
}

func fillFromEnv(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}
