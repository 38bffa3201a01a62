package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// LatestTag is the sentinel image tag. When ImageVersion equals it, the
// registry receives a single push instead of version + latest.
const LatestTag = "latest"

// VerifyHeaderName is the HTTP header the edge layer injects toward the
// origin and the load balancer matches on. Requests without it are never
// forwarded to the service.
const VerifyHeaderName = "X-Verify-Origin"

// ErrMissingConfig is returned by Resolve when required environment
// variables are absent. The error message lists every missing key.
var ErrMissingConfig = errors.New("missing configuration")

// rawEnv mirrors the process environment. It is parsed once in Resolve and
// never read again; downstream constructs only ever see DeploymentConfig.
type rawEnv struct {
	DeployRegions  string `env:"CDK_DEPLOY_REGIONS" validate:"required"`
	Environments   string `env:"ENVIRONMENTS" validate:"required"`
	RepositoryName string `env:"ECR_REPOSITORY_NAME" validate:"required"`
	AppName        string `env:"APP_NAME" validate:"required"`
	ImageVersion   string `env:"IMAGE_VERSION" envDefault:"latest"`
	Platform       string `env:"PLATFORMS" validate:"required"`
	Port           int    `env:"PORT" validate:"required,min=1,max=65535"`
	AppDir         string `env:"APP_DIR" envDefault:"app"`
}

// DeploymentConfig is the immutable, validated deployment configuration.
// It is resolved once at the entry point and threaded explicitly into every
// stack; no construct reads ambient process state.
type DeploymentConfig struct {
	Regions        []string
	Environments   []string
	RepositoryName string
	AppName        string
	ImageVersion   string
	Platform       Platform
	Port           int
	AppDir         string
}

// Resolve reads and validates the process environment. Missing required
// keys produce an ErrMissingConfig naming each absent variable rather than
// a nil dereference at synthesis time.
func Resolve() (DeploymentConfig, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return DeploymentConfig{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := validator.New().Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var missing, invalid []string
			for _, fe := range verrs {
				key := envKeyFor(fe.StructField())
				if fe.Tag() == "required" {
					missing = append(missing, key)
				} else {
					invalid = append(invalid, fmt.Sprintf("%s (%s)", key, fe.Tag()))
				}
			}
			if len(missing) > 0 {
				return DeploymentConfig{}, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
			}
			return DeploymentConfig{}, fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
		}
		return DeploymentConfig{}, fmt.Errorf("validating environment: %w", err)
	}

	platform, err := ParsePlatform(raw.Platform)
	if err != nil {
		return DeploymentConfig{}, err
	}

	// An empty-but-set IMAGE_VERSION still means the sentinel.
	if raw.ImageVersion == "" {
		raw.ImageVersion = LatestTag
	}

	return DeploymentConfig{
		Regions:        splitList(raw.DeployRegions),
		Environments:   splitList(raw.Environments),
		RepositoryName: raw.RepositoryName,
		AppName:        raw.AppName,
		ImageVersion:   raw.ImageVersion,
		Platform:       platform,
		Port:           raw.Port,
		AppDir:         raw.AppDir,
	}, nil
}

// VerifyHeaderValue is the single source of truth for the traffic-gate
// secret. Both the distribution's origin header and the listener rule
// receive this exact value; it is never re-typed at a declaration site.
func (c DeploymentConfig) VerifyHeaderValue() string {
	return c.AppName + "-StreamlitCloudFrontDistribution"
}

// PushLatest reports whether the registry receives an additional push under
// the latest sentinel tag.
func (c DeploymentConfig) PushLatest() bool {
	return c.ImageVersion != LatestTag
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Filter(parts, func(p string, _ int) bool { return p != "" })
}

// envKeyFor maps a rawEnv struct field back to its environment variable
// name so validation errors speak in terms the operator set.
func envKeyFor(field string) string {
	f, ok := reflect.TypeOf(rawEnv{}).FieldByName(field)
	if !ok {
		return field
	}
	tag := f.Tag.Get("env")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
