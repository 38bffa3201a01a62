// Package registry provisions the ECR repository and publishes the
// application image into it.
package registry

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecrassets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	cdkecrdeployment "github.com/cdklabs/cdk-ecr-deployment-go/cdkecrdeployment/v3"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/lib/cdklogger"
)

// RegistryProps configures NewRegistry.
type RegistryProps struct {
	Config config.DeploymentConfig
}

// Registry bundles the provisioned repository and the tags pushed to it.
type Registry struct {
	Repository awsecr.Repository
	// PushedTags lists the tags published on this synthesis, in push order.
	PushedTags []string
}

// NewRegistry declares the image repository with its lifecycle rules,
// builds the application image from the app directory, and copies it into
// the repository under the configured version tag. When the version is not
// the latest sentinel, the image is additionally copied under "latest".
func NewRegistry(scope constructs.Construct, id string, props *RegistryProps) *Registry {
	cfg := props.Config

	repo := awsecr.NewRepository(scope, jsii.String(id), &awsecr.RepositoryProps{
		RepositoryName: jsii.String(cfg.RepositoryName),
		RemovalPolicy:  awscdk.RemovalPolicy_DESTROY,
		EmptyOnDelete:  jsii.Bool(true),
		LifecycleRules: &[]*awsecr.LifecycleRule{
			// Rule priorities are fixed: the lifecycle engine evaluates
			// ascending, so stale untagged images are expired before the
			// keep-last-4 rule is considered.
			{
				RulePriority: jsii.Number(1),
				Description:  jsii.String("expire untagged images older than 7 days"),
				TagStatus:    awsecr.TagStatus_UNTAGGED,
				MaxImageAge:  awscdk.Duration_Days(jsii.Number(7)),
			},
			{
				RulePriority:  jsii.Number(2),
				Description:   jsii.String("keep only the 4 most recent images"),
				TagStatus:     awsecr.TagStatus_ANY,
				MaxImageCount: jsii.Number(4),
			},
		},
	})

	asset := awsecrassets.NewDockerImageAsset(scope, jsii.Sprintf("%sImage", id), &awsecrassets.DockerImageAssetProps{
		Directory: jsii.String(cfg.AppDir),
		Platform:  cfg.Platform.AssetPlatform(),
	})

	tags := []string{cfg.ImageVersion}
	if cfg.PushLatest() {
		tags = append(tags, config.LatestTag)
	}

	for _, tag := range tags {
		cdkecrdeployment.NewECRDeployment(scope, jsii.Sprintf("%sPush-%s", id, tag), &cdkecrdeployment.ECRDeploymentProps{
			Src:  cdkecrdeployment.NewDockerImageName(asset.ImageUri(), nil),
			Dest: cdkecrdeployment.NewDockerImageName(jsii.Sprintf("%s:%s", *repo.RepositoryUri(), tag), nil),
		})
	}

	cdklogger.LogInfo(scope, "Publishing image for %s (platform %s) under tags %v", cfg.AppName, cfg.Platform, tags)

	return &Registry{
		Repository: repo,
		PushedTags: tags,
	}
}
