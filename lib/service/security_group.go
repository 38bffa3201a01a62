package service

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/coreservices/streamlit-serverless/infra/lib/edge"
)

// loadBalancerPort is the public listener port on the ALB.
const loadBalancerPort = 80

// NewSecurityGroupsInput configures NewSecurityGroups.
type NewSecurityGroupsInput struct {
	Vpc           awsec2.IVpc
	ContainerPort int
}

// SecurityGroups holds the ALB and service security groups.
type SecurityGroups struct {
	LoadBalancer awsec2.SecurityGroup
	Service      awsec2.SecurityGroup
}

// NewSecurityGroups builds the security-group graph: the load balancer
// accepts public HTTP, and the service accepts traffic only from the load
// balancer (on the listener and container ports) and from itself.
func NewSecurityGroups(scope constructs.Construct, input NewSecurityGroupsInput) *SecurityGroups {
	albSg := awsec2.NewSecurityGroup(scope, jsii.String("LoadBalancerSG"), &awsec2.SecurityGroupProps{
		Vpc:              input.Vpc,
		AllowAllOutbound: jsii.Bool(true),
		Description:      jsii.String("Load balancer security group."),
	})
	edge.ApplyIngressRules(albSg, []edge.IngressSpec{
		{
			FromPort:    loadBalancerPort,
			ToPort:      loadBalancerPort,
			Source:      "0.0.0.0/0",
			Description: "HTTP from clients",
		},
	})

	svcSg := awsec2.NewSecurityGroup(scope, jsii.String("ServiceSG"), &awsec2.SecurityGroupProps{
		Vpc:              input.Vpc,
		AllowAllOutbound: jsii.Bool(true),
		Description:      jsii.String("Streamlit service security group."),
	})
	svcSg.AddIngressRule(
		albSg,
		awsec2.Port_Tcp(jsii.Number(loadBalancerPort)),
		jsii.String("Load balancer traffic on the listener port."),
		jsii.Bool(false))
	svcSg.AddIngressRule(
		albSg,
		awsec2.Port_Tcp(jsii.Number(float64(input.ContainerPort))),
		jsii.String("Load balancer traffic on the container port."),
		jsii.Bool(false))
	svcSg.AddIngressRule(
		svcSg,
		awsec2.Port_AllTraffic(),
		jsii.String("Traffic between service tasks."),
		jsii.Bool(false))

	return &SecurityGroups{LoadBalancer: albSg, Service: svcSg}
}
