// Package service provisions the orchestrated container topology: an ECS
// cluster, a load-balanced Fargate service, its security-group graph, and
// CPU-based autoscaling.
package service

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapplicationautoscaling"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecr"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecspatterns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/coreservices/streamlit-serverless/infra/config"
)

const (
	cpuTargetPercent = 70
	scalingCooldownS = 60
	minTaskCount     = 1
	maxTaskCount     = 2
	healthCheckPath  = "/"
	healthIntervalS  = 60
	healthyHTTPCodes = "200-499"
)

// StreamlitServiceProps configures NewStreamlitService.
type StreamlitServiceProps struct {
	Config     config.DeploymentConfig
	Vpc        awsec2.IVpc
	Repository awsecr.IRepository
	// ImageTag selects which pushed tag the task definition runs.
	ImageTag string
}

// StreamlitService bundles the provisioned compute topology.
type StreamlitService struct {
	Cluster        awsecs.Cluster
	Service        awsecspatterns.ApplicationLoadBalancedFargateService
	LoadBalancer   awselasticloadbalancingv2.IApplicationLoadBalancer
	SecurityGroups *SecurityGroups
}

// NewStreamlitService declares the cluster, execution role, security
// groups, internet-facing load balancer, Fargate service, and autoscaling
// policy for the Streamlit container.
func NewStreamlitService(scope constructs.Construct, id string, props *StreamlitServiceProps) *StreamlitService {
	cfg := props.Config

	cluster := awsecs.NewCluster(scope, jsii.Sprintf("%sCluster", id), &awsecs.ClusterProps{
		Vpc: props.Vpc,
	})

	execRole := awsiam.NewRole(scope, jsii.Sprintf("%sExecRole", id), &awsiam.RoleProps{
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("ecs-tasks.amazonaws.com"), nil),
	})
	props.Repository.GrantPull(execRole)
	execRole.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings(
			"logs:CreateLogGroup",
			"logs:CreateLogStream",
			"logs:PutLogEvents",
		),
		Resources: jsii.Strings("*"),
	}))

	sgs := NewSecurityGroups(scope, NewSecurityGroupsInput{
		Vpc:           props.Vpc,
		ContainerPort: cfg.Port,
	})

	alb := awselasticloadbalancingv2.NewApplicationLoadBalancer(scope, jsii.Sprintf("%sALB", id), &awselasticloadbalancingv2.ApplicationLoadBalancerProps{
		Vpc:            props.Vpc,
		InternetFacing: jsii.Bool(true),
		SecurityGroup:  sgs.LoadBalancer,
	})

	svc := awsecspatterns.NewApplicationLoadBalancedFargateService(scope, jsii.String(id), &awsecspatterns.ApplicationLoadBalancedFargateServiceProps{
		Cluster:      cluster,
		LoadBalancer: alb,
		TaskImageOptions: &awsecspatterns.ApplicationLoadBalancedTaskImageOptions{
			Image:         awsecs.ContainerImage_FromEcrRepository(props.Repository, jsii.String(props.ImageTag)),
			ContainerPort: jsii.Number(float64(cfg.Port)),
			ExecutionRole: execRole,
		},
		RuntimePlatform: cfg.Platform.RuntimePlatform(),
		SecurityGroups:  &[]awsec2.ISecurityGroup{sgs.Service},
		TaskSubnets:     &awsec2.SubnetSelection{SubnetType: awsec2.SubnetType_PUBLIC},
		AssignPublicIp:  jsii.Bool(true),
		DesiredCount:    jsii.Number(minTaskCount),
		Cpu:             jsii.Number(512),
		MemoryLimitMiB:  jsii.Number(1024),
		// The ALB security group is managed above; the pattern must not
		// open the listener to the world on its own.
		OpenListener: jsii.Bool(false),
	})

	// Streamlit may answer an unauthenticated-but-alive status on its root
	// path, so the healthy range is intentionally wide.
	svc.TargetGroup().ConfigureHealthCheck(&awselasticloadbalancingv2.HealthCheck{
		Path:             jsii.String(healthCheckPath),
		Interval:         awscdk.Duration_Seconds(jsii.Number(healthIntervalS)),
		HealthyHttpCodes: jsii.String(healthyHTTPCodes),
	})

	scaling := svc.Service().AutoScaleTaskCount(&awsapplicationautoscaling.EnableScalingProps{
		MinCapacity: jsii.Number(minTaskCount),
		MaxCapacity: jsii.Number(maxTaskCount),
	})
	scaling.ScaleOnCpuUtilization(jsii.String("CpuScaling"), &awsecs.CpuUtilizationScalingProps{
		TargetUtilizationPercent: jsii.Number(cpuTargetPercent),
		ScaleInCooldown:          awscdk.Duration_Seconds(jsii.Number(scalingCooldownS)),
		ScaleOutCooldown:         awscdk.Duration_Seconds(jsii.Number(scalingCooldownS)),
	})

	return &StreamlitService{
		Cluster:        cluster,
		Service:        svc,
		LoadBalancer:   alb,
		SecurityGroups: sgs,
	}
}
