package stacks

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/config/streamlitcfg"
	"github.com/coreservices/streamlit-serverless/infra/lib/apprunner"
	"github.com/coreservices/streamlit-serverless/infra/lib/cdklogger"
	"github.com/coreservices/streamlit-serverless/infra/lib/edge"
	"github.com/coreservices/streamlit-serverless/infra/lib/network"
	"github.com/coreservices/streamlit-serverless/infra/lib/registry"
	"github.com/coreservices/streamlit-serverless/infra/lib/service"
)

// StreamlitStackProps configures NewStreamlitStack.
type StreamlitStackProps struct {
	awscdk.StackProps
	Config config.DeploymentConfig
	// Environment is the environment tag this stack instance belongs to.
	Environment string
	// Hosting selects the compute topology.
	Hosting config.HostingKind
}

// NewStreamlitStack composes registry, network, compute, and (for the
// gated topology) the edge layer for one region and environment, and emits
// the registry identifiers and the public URL as outputs.
func NewStreamlitStack(scope constructs.Construct, id string, props *StreamlitStackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(id), &props.StackProps)
	if !config.IsStackInSynthesis(stack) {
		return stack
	}

	cfg := props.Config
	awscdk.Tags_Of(stack).Add(jsii.String("Environment"), jsii.String(props.Environment), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("Application"), jsii.String(cfg.AppName), nil)

	checkStreamlitConfig(stack, cfg)

	reg := registry.NewRegistry(stack, "Registry", &registry.RegistryProps{Config: cfg})
	vpc := network.NewAppVpc(stack, "Vpc")

	var publicURL *string
	switch props.Hosting {
	case config.HostingAppRunner:
		inst := apprunner.NewStreamlitInstance(stack, "Hosting", &apprunner.StreamlitInstanceProps{
			Config:     cfg,
			Vpc:        vpc,
			Repository: reg.Repository,
			ImageTag:   cfg.ImageVersion,
		})
		publicURL = inst.URL

	case config.HostingALB, config.HostingCloudFront:
		svc := service.NewStreamlitService(stack, "Service", &service.StreamlitServiceProps{
			Config:     cfg,
			Vpc:        vpc,
			Repository: reg.Repository,
			ImageTag:   cfg.ImageVersion,
		})
		publicURL = jsii.Sprintf("http://%s", *svc.LoadBalancer.LoadBalancerDnsName())

		if props.Hosting == config.HostingCloudFront {
			gate, err := edge.NewTrafficGate(stack, "Edge", &edge.TrafficGateProps{
				Config:       cfg,
				LoadBalancer: svc.LoadBalancer,
				Listener:     svc.Service.Listener(),
				TargetGroup:  svc.Service.TargetGroup(),
			})
			if err != nil {
				cdklogger.LogError(stack, "Provisioning traffic gate: %v", err)
				return stack
			}
			publicURL = jsii.Sprintf("https://%s", *gate.DomainName)
		}
	}

	awscdk.NewCfnOutput(stack, jsii.String("RepositoryArn"), &awscdk.CfnOutputProps{
		Value:       reg.Repository.RepositoryArn(),
		Description: jsii.String("Image repository ARN"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("RepositoryName"), &awscdk.CfnOutputProps{
		Value:       reg.Repository.RepositoryName(),
		Description: jsii.String("Image repository name"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("PublicUrl"), &awscdk.CfnOutputProps{
		Value:       publicURL,
		Description: jsii.String("Public application endpoint"),
	})

	return stack
}

// checkStreamlitConfig cross-checks the app's own .streamlit/config.toml
// against the deployed container port. A pinned mismatching port means the
// health check and target group would point at a closed port.
func checkStreamlitConfig(scope constructs.Construct, cfg config.DeploymentConfig) {
	appCfg, err := streamlitcfg.Load(cfg.AppDir)
	if err != nil {
		cdklogger.LogWarning(scope, "Could not read streamlit config: %v", err)
		return
	}
	if appCfg.PortMismatch(cfg.Port) {
		cdklogger.LogWarning(scope, "streamlit config pins server.port=%d but PORT=%d; the service will target a closed port", appCfg.Server.Port, cfg.Port)
	}
}
