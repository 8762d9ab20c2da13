// Package render defines the renderer contract shared by the HTML and terminal
// renderers, the per-request RenderOptions, and a registry for looking
// renderers up by name.
package render
