// Package cdklogger attaches log messages to CDK construct metadata so
// they surface during `cdk synth` next to the construct that emitted them.
package cdklogger

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// LogInfo adds an INFO level annotation to the construct.
func LogInfo(scope constructs.Construct, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddInfo(jsii.String(fmt.Sprintf(format, args...)))
}

// LogWarning adds a WARNING level annotation to the construct.
func LogWarning(scope constructs.Construct, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddWarning(jsii.String(fmt.Sprintf(format, args...)))
}

// LogError adds an ERROR level annotation to the construct. Synthesis
// fails when any error annotation is present.
func LogError(scope constructs.Construct, format string, args ...interface{}) {
	awscdk.Annotations_Of(scope).AddError(jsii.String(fmt.Sprintf(format, args...)))
}
