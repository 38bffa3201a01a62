package stacks_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/stacks"
	"github.com/coreservices/streamlit-serverless/infra/tests/testdata"
)

// demoConfig mirrors the documented end-to-end scenario: APP_NAME=demo,
// IMAGE_VERSION=1.2.0, PORT=8501, PLATFORMS=LINUX_ARM64.
func demoConfig() config.DeploymentConfig {
	return config.DeploymentConfig{
		Regions:        []string{"us-east-1"},
		Environments:   []string{"dev"},
		RepositoryName: "demo-repo",
		AppName:        "demo",
		ImageVersion:   "1.2.0",
		Platform:       config.PlatformARM64,
		Port:           8501,
		AppDir:         testdata.TestdataPath(),
	}
}

func synthStack(t *testing.T, hosting config.HostingKind) assertions.Template {
	t.Helper()
	app := awscdk.NewApp(nil)
	stack := stacks.NewStreamlitStack(app, "demo-dev-us-east-1", &stacks.StreamlitStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String("123456789012"),
				Region:  jsii.String("us-east-1"),
			},
		},
		Config:      demoConfig(),
		Environment: "dev",
		Hosting:     hosting,
	})
	return assertions.Template_FromStack(stack, nil)
}

func TestGatedStackEndToEnd(t *testing.T) {
	template := synthStack(t, config.HostingCloudFront)

	// Registry pushes 1.2.0 and latest.
	template.ResourceCountIs(jsii.String("Custom::CDKECRDeployment"), jsii.Number(2))

	// Runtime platform resolves to ARM64 Linux.
	template.HasResourceProperties(jsii.String("AWS::ECS::TaskDefinition"), &map[string]interface{}{
		"RuntimePlatform": &map[string]interface{}{
			"CpuArchitecture":       "ARM64",
			"OperatingSystemFamily": "LINUX",
		},
	})

	// One distribution fronts the load balancer; both gate rules exist.
	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::ElasticLoadBalancingV2::ListenerRule"), jsii.Number(2))

	// Emitted outputs carry the registry identity and the edge URL.
	template.HasOutput(jsii.String("RepositoryArn"), &map[string]interface{}{})
	template.HasOutput(jsii.String("RepositoryName"), &map[string]interface{}{})
	template.HasOutput(jsii.String("PublicUrl"), &map[string]interface{}{
		"Value": assertions.Match_ObjectLike(&map[string]interface{}{
			"Fn::Join": &[]interface{}{
				"",
				assertions.Match_ArrayWith(&[]interface{}{"https://"}),
			},
		}),
	})
}

func TestUngatedStackHasNoDistribution(t *testing.T) {
	template := synthStack(t, config.HostingALB)

	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::ElasticLoadBalancingV2::ListenerRule"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::ECS::Service"), jsii.Number(1))
}

func TestAppRunnerStack(t *testing.T) {
	template := synthStack(t, config.HostingAppRunner)

	template.ResourceCountIs(jsii.String("AWS::AppRunner::Service"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::ECS::Service"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::ElasticLoadBalancingV2::LoadBalancer"), jsii.Number(0))
}

func TestStackTags(t *testing.T) {
	template := synthStack(t, config.HostingALB)

	template.HasResourceProperties(jsii.String("AWS::ECS::Cluster"), &map[string]interface{}{
		"Tags": assertions.Match_ArrayWith(&[]interface{}{
			&map[string]interface{}{"Key": "Application", "Value": "demo"},
			&map[string]interface{}{"Key": "Environment", "Value": "dev"},
		}),
	})
}

func TestStackSkippedOutsideSynthesis(t *testing.T) {
	app := awscdk.NewApp(&awscdk.AppProps{
		Context: &map[string]interface{}{
			// Restrict bundling to a different stack so this one is skipped.
			"aws:cdk:bundling-stacks": []interface{}{"OtherStack"},
		},
	})
	stack := stacks.NewStreamlitStack(app, "demo-dev-us-east-1", &stacks.StreamlitStackProps{
		Config:      demoConfig(),
		Environment: "dev",
		Hosting:     config.HostingCloudFront,
	})

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::ECR::Repository"), jsii.Number(0))
	require.NotNil(t, stack)
}
