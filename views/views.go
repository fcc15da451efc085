// Package views renders the postgate admin console. Components are
// built directly with templ.ComponentFunc so the console ships without
// a template generation step.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const baseCSS = `body{font-family:system-ui,sans-serif;background:#f4f4f2;color:#1c1c1a;margin:0}
.card{max-width:720px;margin:3rem auto;padding:2rem;background:#fff;border:1px solid #ddd;border-radius:6px}
h1{font-size:1.3rem;margin-top:0}
table{width:100%;border-collapse:collapse;margin:1rem 0}
th,td{text-align:left;padding:.4rem .6rem;border-bottom:1px solid #eee;vertical-align:middle}
code{font-size:.78rem;word-break:break-all}
button{padding:.35rem .9rem;border:1px solid #1c1c1a;background:#1c1c1a;color:#fff;border-radius:4px;cursor:pointer}
button.ghost{background:#fff;color:#1c1c1a}
input[type=password]{padding:.4rem;border:1px solid #bbb;border-radius:4px;width:100%;margin:.4rem 0 1rem}
.error{color:#a0242a}
.notice{color:#1d6b33}
.minted{background:#fdf6dd;border:1px solid #e8d98a;padding:.6rem .8rem;border-radius:4px}
form.inline{display:inline}`

// page wraps body markup in the shared console layout.
func page(title string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
		b.WriteString("<style>")
		b.WriteString(baseCSS)
		b.WriteString("</style></head><body>")
		body(&b)
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func csrfField(b *strings.Builder, csrf string) {
	fmt.Fprintf(b, `<input type="hidden" name="_csrf" value="%s">`, html.EscapeString(csrf))
}

// AdminLogin renders the console sign-in form.
func AdminLogin(brand string, showError bool, csrf string) templ.Component {
	return page(brand+" admin", func(b *strings.Builder) {
		fmt.Fprintf(b, `<main class="card"><h1>%s admin</h1>`, html.EscapeString(brand))
		if showError {
			b.WriteString(`<p class="error">Wrong password.</p>`)
		}
		b.WriteString(`<form method="post" action="/admin/login/">`)
		csrfField(b, csrf)
		b.WriteString(`<label>Password<input type="password" name="password" autofocus></label>`)
		b.WriteString(`<button type="submit">Sign in</button>`)
		b.WriteString(`</form></main>`)
	})
}

// AdminDashboard lists the valid API tokens with generate and revoke
// forms. minted, when non-empty, is the token created by the last
// request and is highlighted so it can be copied.
func AdminDashboard(brand string, tokens []string, minted, msg, csrf string) templ.Component {
	return page(brand+" admin", func(b *strings.Builder) {
		fmt.Fprintf(b, `<main class="card"><h1>%s admin</h1>`, html.EscapeString(brand))
		if msg != "" {
			fmt.Fprintf(b, `<p class="notice">%s</p>`, html.EscapeString(msg))
		}
		if minted != "" {
			fmt.Fprintf(b, `<p class="minted">New token: <code>%s</code></p>`, html.EscapeString(minted))
		}
		b.WriteString(`<form method="post" action="/admin/tokens/generate/">`)
		csrfField(b, csrf)
		b.WriteString(`<button type="submit">Generate token</button></form>`)
		if len(tokens) == 0 {
			b.WriteString(`<p>No API tokens yet.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>#</th><th>Token</th><th></th></tr></thead><tbody>`)
			for i, tok := range tokens {
				fmt.Fprintf(b, `<tr><td>%d</td><td><code>%s</code></td><td>`, i+1, html.EscapeString(tok))
				b.WriteString(`<form class="inline" method="post" action="/admin/tokens/revoke/">`)
				csrfField(b, csrf)
				fmt.Fprintf(b, `<input type="hidden" name="token" value="%s">`, html.EscapeString(tok))
				b.WriteString(`<button type="submit" class="ghost">Revoke</button></form></td></tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`<form method="post" action="/admin/logout/">`)
		csrfField(b, csrf)
		b.WriteString(`<button type="submit" class="ghost">Sign out</button></form></main>`)
	})
}
