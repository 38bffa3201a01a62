package config

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsecrassets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsecs"
)

// Platform is the closed set of supported container platforms.
type Platform string

const (
	PlatformAMD64 Platform = "amd64"
	PlatformARM64 Platform = "arm64"
)

// ParsePlatform converts a raw PLATFORMS value into a Platform, returning
// an error for anything outside the closed set. There is no implicit
// default branch.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AMD64", "LINUX_AMD64", "X86_64":
		return PlatformAMD64, nil
	case "ARM64", "LINUX_ARM64", "ARM":
		return PlatformARM64, nil
	default:
		return "", fmt.Errorf("invalid platform %q (expected LINUX_AMD64 or LINUX_ARM64)", s)
	}
}

// AssetPlatform returns the Docker image asset platform for image builds.
func (p Platform) AssetPlatform() awsecrassets.Platform {
	switch p {
	case PlatformARM64:
		return awsecrassets.Platform_LINUX_ARM64()
	default:
		return awsecrassets.Platform_LINUX_AMD64()
	}
}

// RuntimePlatform returns the ECS runtime platform for Fargate tasks.
func (p Platform) RuntimePlatform() *awsecs.RuntimePlatform {
	arch := awsecs.CpuArchitecture_X86_64()
	if p == PlatformARM64 {
		arch = awsecs.CpuArchitecture_ARM64()
	}
	return &awsecs.RuntimePlatform{
		CpuArchitecture:       arch,
		OperatingSystemFamily: awsecs.OperatingSystemFamily_LINUX(),
	}
}
