//go:generate go test -run . -update
package renderer_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreservices/streamlit-serverless/infra/scripts/renderer"
)

func TestGoldenPreflightFunction(t *testing.T) {
	out, err := renderer.Render(renderer.TplPreflightFunction, renderer.PreflightData{
		AllowOrigin:  "*",
		AllowHeaders: "*",
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "preflight_function", []byte(out))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := renderer.Render(renderer.TemplateName("nope.tmpl"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}

// The rendered body must stay a valid CloudFront Function: OPTIONS answered
// at the edge, everything else passed through untouched.
func TestPreflightFunctionShape(t *testing.T) {
	out, err := renderer.Render(renderer.TplPreflightFunction, renderer.PreflightData{
		AllowOrigin:  "*",
		AllowHeaders: "*",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "request.method === 'OPTIONS'")
	assert.Contains(t, out, "statusCode: 204")
	assert.Contains(t, out, "'access-control-allow-origin': { value: '*' }")
	assert.Contains(t, out, "'access-control-allow-headers': { value: '*' }")
	assert.Contains(t, out, "return request;")
}
