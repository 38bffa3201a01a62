// Package network provisions the isolated VPC the compute topology runs in.
package network

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// NewAppVpc declares a stack-scoped VPC with a public-subnet-only layout.
// Fargate tasks run with public IPs, so no NAT gateways are provisioned.
func NewAppVpc(scope constructs.Construct, id string) awsec2.Vpc {
	return awsec2.NewVpc(scope, jsii.String(id), &awsec2.VpcProps{
		MaxAzs:      jsii.Number(2),
		NatGateways: jsii.Number(0),
		SubnetConfiguration: &[]*awsec2.SubnetConfiguration{
			{
				Name:       jsii.String("public"),
				SubnetType: awsec2.SubnetType_PUBLIC,
				CidrMask:   jsii.Number(24),
			},
		},
	})
}
