// Package edge fronts the load balancer with a CloudFront distribution and
// gates the listener so only edge traffic reaches the service.
package edge

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticloadbalancingv2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/coreservices/streamlit-serverless/infra/config"
	"github.com/coreservices/streamlit-serverless/infra/scripts/renderer"
)

// Listener rule priorities. The gate rule must evaluate before the
// catch-all redirect; the load balancer applies rules by ascending
// priority, then the default action.
const (
	gateRulePriority     = 1
	redirectRulePriority = 5
)

// TrafficGateProps configures NewTrafficGate.
type TrafficGateProps struct {
	Config config.DeploymentConfig
	// LoadBalancer is the origin the distribution forwards to.
	LoadBalancer awselasticloadbalancingv2.IApplicationLoadBalancer
	// Listener is the load balancer listener the gate rules are added to.
	Listener awselasticloadbalancingv2.ApplicationListener
	// TargetGroup receives traffic carrying the verify header.
	TargetGroup awselasticloadbalancingv2.IApplicationTargetGroup
}

// TrafficGate bundles the distribution and its gating rules.
type TrafficGate struct {
	Distribution awscloudfront.Distribution
	// DomainName is the distribution's public domain.
	DomainName *string
}

// NewTrafficGate declares a caching-disabled CloudFront distribution in
// front of the load balancer that injects the shared verify header toward
// the origin, and two listener rules: forward when the header matches
// exactly, otherwise a permanent redirect to the distribution's HTTPS
// domain. Direct load-balancer access without the header is never served.
func NewTrafficGate(scope constructs.Construct, id string, props *TrafficGateProps) (*TrafficGate, error) {
	cfg := props.Config

	fnCode, err := renderer.Render(renderer.TplPreflightFunction, renderer.PreflightData{
		AllowOrigin:  "*",
		AllowHeaders: "*",
	})
	if err != nil {
		return nil, fmt.Errorf("rendering preflight function: %w", err)
	}

	// Answers OPTIONS preflights at the edge. This is a latency
	// workaround, not a security boundary.
	preflightFn := awscloudfront.NewFunction(scope, jsii.Sprintf("%sPreflightFn", id), &awscloudfront.FunctionProps{
		Code:    awscloudfront.FunctionCode_FromInline(jsii.String(fnCode)),
		Comment: jsii.String("Answer CORS preflight requests without reaching the origin"),
	})

	distribution := awscloudfront.NewDistribution(scope, jsii.String(id), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewHttpOrigin(props.LoadBalancer.LoadBalancerDnsName(), &awscloudfrontorigins.HttpOriginProps{
				HttpPort:       jsii.Number(80),
				ProtocolPolicy: awscloudfront.OriginProtocolPolicy_HTTP_ONLY,
				CustomHeaders:  &map[string]*string{
					config.VerifyHeaderName: jsii.String(cfg.VerifyHeaderValue()),
				},
			}),
			AllowedMethods: awscloudfront.AllowedMethods_ALLOW_ALL(),
			// The app is stateful and session-bound; nothing is cacheable.
			CachePolicy:          awscloudfront.CachePolicy_CACHING_DISABLED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_ALL_VIEWER(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			FunctionAssociations: &[]*awscloudfront.FunctionAssociation{
				{
					Function:  preflightFn,
					EventType: awscloudfront.FunctionEventType_VIEWER_REQUEST,
				},
			},
		},
	})

	// Forward only when the verify header carries the exact shared value.
	props.Listener.AddAction(jsii.String("VerifiedForward"), &awselasticloadbalancingv2.AddApplicationActionProps{
		Priority: jsii.Number(gateRulePriority),
		Conditions: &[]awselasticloadbalancingv2.ListenerCondition{
			awselasticloadbalancingv2.ListenerCondition_HttpHeader(
				jsii.String(config.VerifyHeaderName),
				jsii.Strings(cfg.VerifyHeaderValue()),
			),
		},
		Action: awselasticloadbalancingv2.ListenerAction_Forward(
			&[]awselasticloadbalancingv2.IApplicationTargetGroup{props.TargetGroup}, nil),
	})

	// Everything else is transparently bounced to the edge domain.
	props.Listener.AddAction(jsii.String("RedirectToEdge"), &awselasticloadbalancingv2.AddApplicationActionProps{
		Priority: jsii.Number(redirectRulePriority),
		Conditions: &[]awselasticloadbalancingv2.ListenerCondition{
			awselasticloadbalancingv2.ListenerCondition_PathPatterns(jsii.Strings("*")),
		},
		Action: awselasticloadbalancingv2.ListenerAction_Redirect(&awselasticloadbalancingv2.RedirectOptions{
			Host:      distribution.DistributionDomainName(),
			Protocol:  jsii.String("HTTPS"),
			Port:      jsii.String("443"),
			Permanent: jsii.Bool(true),
		}),
	})

	return &TrafficGate{
		Distribution: distribution,
		DomainName:   distribution.DistributionDomainName(),
	}, nil
}
