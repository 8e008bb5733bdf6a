package credentials

import (
	"context"
	"encoding/base64"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gsearch-mcp/internal/infrastructure/config"
	"gsearch-mcp/internal/utils/platformerrors"
)

// searchScope authorizes service-account tokens for the Custom Search API.
const searchScope = "https://www.googleapis.com/auth/cse"

// TokenSource builds an oauth2 token source from the configured service
// account. The base64 env var takes precedence over the file path when both
// are set. Credential failures are fatal and never retried.
func TokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	data, err := serviceAccountJSON(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, searchScope)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeCredential,
			"service account JSON is not a valid credential", err,
			"f4a6b8c0-1d2e-4f3a-9b5c-7d9e1f3a5b6c")
	}

	return jwtCfg.TokenSource(ctx), nil
}

func serviceAccountJSON(ctx context.Context, cfg *config.Config) ([]byte, error) {
	if encoded := strings.TrimSpace(cfg.ServiceAccountBase64); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeCredential,
				"GOOGLE_SERVICE_ACCOUNT_BASE64 is not valid base64", err,
				"0b2c4d6e-8f1a-4b3c-9d5e-7f9a1b3c5d6e")
		}
		return data, nil
	}

	path := strings.TrimSpace(cfg.ServiceAccountFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeCredential,
			"service account file not found: "+path, err,
			"2d4e6f8a-0b1c-4d5e-8f3a-9b1c3d5e7f8a")
	}
	return data, nil
}
