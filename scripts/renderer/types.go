package renderer

// TemplateName represents a known template filename.
type TemplateName string

// Constants for known template filenames.
const (
	TplPreflightFunction TemplateName = "preflight_function.js.tmpl"
)

// PreflightData holds the data required by the TplPreflightFunction
// template. The rendered function answers OPTIONS preflights at the edge
// without forwarding them to the origin.
type PreflightData struct {
	AllowOrigin  string
	AllowHeaders string
}
