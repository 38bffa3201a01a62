package edge

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/jsii-runtime-go"
)

// IngressSpec defines one security group rule required by an ingress path.
type IngressSpec struct {
	// FromPort is the starting port number for the rule.
	FromPort float64
	// ToPort is the ending port number for the rule.
	ToPort float64
	// Source is either an IPv4 CIDR (e.g. "0.0.0.0/0"), an IPv6 CIDR, or a
	// managed prefix list ID ("pl-...").
	Source string
	// Description annotates the rule.
	Description string
}

// ApplyIngressRules adds TCP ingress rules to a security group.
func ApplyIngressRules(sg awsec2.SecurityGroup, rules []IngressSpec) {
	for _, spec := range rules {
		var peer awsec2.IPeer
		switch {
		case strings.HasPrefix(spec.Source, "pl-"):
			peer = awsec2.Peer_PrefixList(jsii.String(spec.Source))
		case strings.Contains(spec.Source, ":"):
			peer = awsec2.Peer_Ipv6(jsii.String(spec.Source))
		default:
			peer = awsec2.Peer_Ipv4(jsii.String(spec.Source))
		}

		sg.AddIngressRule(
			peer,
			awsec2.Port_TcpRange(jsii.Number(spec.FromPort), jsii.Number(spec.ToPort)),
			jsii.String(spec.Description),
			jsii.Bool(false),
		)
	}
}
