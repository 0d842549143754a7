package web

import (
	"html/template"
	"net/http"

	"kirby-site/internal/domain/model"
)

var layout = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>{{.Page.Title}} | Kirby</title>
{{- range $k, $v := .Params}}
<meta name="{{$k}}" content="{{$v}}" />
{{- end}}
</head>
<body class="template-{{.Page.Template}}">
<main>
  <h1>{{.Page.Title}}</h1>
  {{.Body}}
</main>
</body>
</html>`))

// Renderer writes pages into the site layout. Page bodies come from the
// content store and are trusted HTML.
type Renderer struct {
	notFoundTitle string
}

func NewRenderer(notFoundTitle string) *Renderer {
	return &Renderer{notFoundTitle: notFoundTitle}
}

// Render writes page with the given route parameters (filter, tag).
func (rd *Renderer) Render(w http.ResponseWriter, code int, page *model.Page, params map[string]string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = layout.Execute(w, struct {
		Page   *model.Page
		Body   template.HTML
		Params map[string]string
	}{
		Page:   page,
		Body:   template.HTML(page.Body),
		Params: params,
	})
}

func (rd *Renderer) RenderNotFound(w http.ResponseWriter) {
	rd.Render(w, http.StatusNotFound, model.NewVirtualPage("error", "error", rd.notFoundTitle), nil)
}
