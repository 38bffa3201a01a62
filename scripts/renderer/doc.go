// Package renderer loads embedded templates under scripts/renderer/templates/
// and renders them with sprig functions.
//
// It exists so that edge function JavaScript lives as a separate, easily
// readable `.tmpl` file outside of Go string literals.
//
// Example:
//
//	code, err := renderer.Render(renderer.TplPreflightFunction, renderer.PreflightData{
//	    AllowOrigin:  "*",
//	    AllowHeaders: "*",
//	})
package renderer
