package styles

// EmbeddedStyles exposes the built-in definitions to tests.
var EmbeddedStyles = embeddedStyles
