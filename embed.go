package staffhub

import "embed"

// EmailFS carries the email template groups shipped with the binary. Each
// group directory holds an html.tmpl and a plaintext.tmpl pair.
//
//go:embed templates/emails
var EmailFS embed.FS
