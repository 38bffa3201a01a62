package config

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// HostingKind selects the compute topology for a deployment.
type HostingKind string

const (
	// HostingAppRunner runs the image on App Runner; ingress, scaling and
	// health checking are fully provider-managed.
	HostingAppRunner HostingKind = "apprunner"
	// HostingALB runs the image on Fargate behind an internet-facing load
	// balancer, without an edge layer.
	HostingALB HostingKind = "alb"
	// HostingCloudFront is HostingALB plus the CloudFront traffic gate.
	HostingCloudFront HostingKind = "cloudfront"
)

// ParseHostingKind converts a raw string into a HostingKind, returning an
// error for invalid values.
func ParseHostingKind(s string) (HostingKind, error) {
	switch HostingKind(s) {
	case HostingAppRunner, HostingALB, HostingCloudFront:
		return HostingKind(s), nil
	default:
		return "", fmt.Errorf("invalid hosting kind %q", s)
	}
}

// HostingKindFromContext reads the 'hosting' CDK context key, defaulting to
// the CloudFront-gated topology when unset.
func HostingKindFromContext(scope constructs.Construct) (HostingKind, error) {
	ctxValue := scope.Node().TryGetContext(jsii.String("hosting"))
	if v, ok := ctxValue.(string); ok && v != "" {
		return ParseHostingKind(v)
	}
	return HostingCloudFront, nil
}
