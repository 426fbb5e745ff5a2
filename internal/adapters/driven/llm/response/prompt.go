package response

import "strings"

// Placeholder marks where the document text goes in a prompt template.
const Placeholder = "%s"

// RenderPrompt puts text in place of the first Placeholder in template.
// Everything else in the template, including other % sequences, is kept
// as written.
func RenderPrompt(template, text string) string {
	return strings.Replace(template, Placeholder, text, 1)
}
