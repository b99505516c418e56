package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM overlays every parameter stored under parameterPath onto cfg. The
// last segment of each parameter name becomes the key, so
// /portfolio/prod/JWT_SECRET sets JWT_SECRET.
func LoadSSM(ctx context.Context, cfg map[string]string, parameterPath string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	return loadParameters(ctx, ssm.NewFromConfig(awsCfg), cfg, parameterPath)
}

func loadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, cfg map[string]string, parameterPath string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read parameters under %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			name := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
			if name == "" || name == "/" || name == "." {
				continue
			}
			cfg[name] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", parameterPath).Int("parameters", loaded).Msg("loaded configuration from SSM")
	return nil
}
