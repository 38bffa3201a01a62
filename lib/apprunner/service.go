// Package apprunner provisions the managed serverless hosting variant.
// Ingress, scaling, and health checking are owned by App Runner.
package apprunner

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	awsapprunner "github.com/aws/aws-cdk-go/awscdkapprunneralpha/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/lib/cdklogger"
)

// StreamlitInstanceProps configures NewStreamlitInstance.
type StreamlitInstanceProps struct {
	Config     config.DeploymentConfig
	Vpc        awsec2.IVpc
	Repository awsecr.IRepository
	// ImageTag selects which pushed tag the service runs.
	ImageTag string
}

// StreamlitInstance bundles the App Runner service and its public URL.
type StreamlitInstance struct {
	Service awsapprunner.Service
	// URL is the service endpoint including the https scheme.
	URL *string
}

// NewStreamlitInstance declares an App Runner service bound to the pushed
// repository image, connected to the VPC through a connector.
func NewStreamlitInstance(scope constructs.Construct, id string, props *StreamlitInstanceProps) *StreamlitInstance {
	cfg := props.Config

	if cfg.Platform == config.PlatformARM64 {
		cdklogger.LogWarning(scope, "App Runner only runs amd64 images; the %s image will fail to start", cfg.Platform)
	}

	connector := awsapprunner.NewVpcConnector(scope, jsii.Sprintf("%sVpcConnector", id), &awsapprunner.VpcConnectorProps{
		Vpc: props.Vpc,
		VpcSubnets: &awsec2.SubnetSelection{
			SubnetType: awsec2.SubnetType_PUBLIC,
		},
	})

	svc := awsapprunner.NewService(scope, jsii.String(id), &awsapprunner.ServiceProps{
		Source: awsapprunner.Source_FromEcr(&awsapprunner.EcrProps{
			Repository:  props.Repository,
			TagOrDigest: jsii.String(props.ImageTag),
			ImageConfiguration: &awsapprunner.ImageConfiguration{
				Port: jsii.Number(float64(cfg.Port)),
			},
		}),
		Cpu:                    awsapprunner.Cpu_ONE_VCPU(),
		Memory:                 awsapprunner.Memory_TWO_GB(),
		VpcConnector:           connector,
		AutoDeploymentsEnabled: jsii.Bool(true),
	})

	return &StreamlitInstance{
		Service: svc,
		URL:     jsii.Sprintf("https://%s", *svc.ServiceUrl()),
	}
}
