// Package views holds the HTML components served by the web package.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders the HTMX error fragment swapped into #result.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p class="alert-message">%s</p>`,
			templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<p class="alert-code">Code: %s</p></div>`, templ.EscapeString(code))
		return err
	})
}

// SuccessAlert renders the HTMX fragment shown after an import.
func SuccessAlert(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-success" role="status">%s</div>`,
			templ.EscapeString(message))
		return err
	})
}

// UploadPage is the landing page with both import forms.
func UploadPage(maxFileSize int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, uploadPageHTML, maxFileSize/(1<<20))
		return err
	})
}

const uploadPageHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Factoscope - imports</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
</head>
<body>
<h1>Imports CSV</h1>
<p>Fichiers CSV UTF-8, séparateur <code>;</code>, %d Mo maximum.</p>

<section>
<h2>Cours</h2>
<form hx-post="/api/courses/import" hx-encoding="multipart/form-data" hx-target="#result">
<input type="file" name="file" accept=".csv,text/csv" required>
<input type="text" name="title" placeholder="Titre (optionnel)">
<input type="text" name="description" placeholder="Description (optionnel)">
<input type="text" name="theme" placeholder="Thème (optionnel)">
<button type="submit">Importer le cours</button>
</form>
</section>

<section>
<h2>Questions</h2>
<form id="questions" hx-encoding="multipart/form-data" hx-target="#result"
      hx-on::config-request="event.detail.path = '/api/questions/upload/' + this.elements.course.value">
<input type="number" name="course" min="1" placeholder="Id du cours" required>
<input type="file" name="file" accept=".csv" required>
<button type="submit" hx-post="/api/questions/upload/0">Importer les questions</button>
</form>
</section>

<div id="result"></div>
</body>
</html>
`
