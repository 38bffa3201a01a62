package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"go.uber.org/zap"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/stacks"
)

func main() {
	defer jsii.Close()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Resolve()
	if err != nil {
		logger.Fatal("resolving deployment configuration", zap.Error(err))
	}
	logger.Info("resolved deployment configuration",
		zap.Strings("regions", cfg.Regions),
		zap.Strings("environments", cfg.Environments),
		zap.String("app", cfg.AppName),
		zap.String("imageVersion", cfg.ImageVersion),
		zap.String("platform", string(cfg.Platform)),
		zap.Int("port", cfg.Port),
	)

	app := awscdk.NewApp(nil)

	hosting, err := config.HostingKindFromContext(app)
	if err != nil {
		logger.Fatal("reading hosting context", zap.Error(err))
	}

	for _, region := range cfg.Regions {
		for _, environment := range cfg.Environments {
			id := fmt.Sprintf("%s-%s-%s", cfg.AppName, environment, region)
			stacks.NewStreamlitStack(app, id, &stacks.StreamlitStackProps{
				StackProps: awscdk.StackProps{
					Env:         env(region),
					Description: jsii.Sprintf("Streamlit serverless deployment for %s (%s)", cfg.AppName, environment),
				},
				Config:      cfg,
				Environment: environment,
				Hosting:     hosting,
			})
		}
	}

	app.Synth(nil)
}

// env determines the AWS environment (account+region) in which our stack is
// to be deployed. The region comes from the deployment configuration; the
// account falls back from CDK_DEPLOY_ACCOUNT to CDK_DEFAULT_ACCOUNT.
func env(region string) *awscdk.Environment {
	account := os.Getenv("CDK_DEPLOY_ACCOUNT")
	if len(account) == 0 {
		account = os.Getenv("CDK_DEFAULT_ACCOUNT")
	}

	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}
