package web

import (
	"html/template"
	"io/fs"
	"net/http"
)

type Templates struct {
	fs   fs.FS
	base *template.Template
}

var templateFuncs = template.FuncMap{
	"signed": signed,
}

func NewTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{fs: fsys, base: base}, nil
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fs, "templates/"+name); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderPartial executes a clone so the base set stays cloneable for Render.
func (t *Templates) RenderPartial(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}
