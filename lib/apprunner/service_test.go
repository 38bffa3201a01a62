package apprunner_test

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/lib/apprunner"
	"github.com/coreservices/streamlit-serverless/infra/lib/network"
)

func TestStreamlitInstanceSynth(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := awscdk.NewStack(app, jsii.String("TestStack"), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String("123456789012"),
			Region:  jsii.String("us-east-1"),
		},
	})

	vpc := network.NewAppVpc(stack, "Vpc")
	repo := awsecr.NewRepository(stack, jsii.String("Repo"), &awsecr.RepositoryProps{})

	inst := apprunner.NewStreamlitInstance(stack, "Hosting", &apprunner.StreamlitInstanceProps{
		Config: config.DeploymentConfig{
			RepositoryName: "demo-repo",
			AppName:        "demo",
			ImageVersion:   "latest",
			Platform:       config.PlatformAMD64,
			Port:           8501,
		},
		Vpc:        vpc,
		Repository: repo,
		ImageTag:   "latest",
	})
	require.NotNil(t, inst.URL)

	template := assertions.Template_FromStack(stack, nil)
	template.ResourceCountIs(jsii.String("AWS::AppRunner::Service"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::AppRunner::VpcConnector"), jsii.Number(1))
	template.HasResourceProperties(jsii.String("AWS::AppRunner::Service"), &map[string]interface{}{
		"SourceConfiguration": assertions.Match_ObjectLike(&map[string]interface{}{
			"ImageRepository": assertions.Match_ObjectLike(&map[string]interface{}{
				"ImageConfiguration": &map[string]interface{}{
					"Port": "8501",
				},
			}),
		}),
	})
}
