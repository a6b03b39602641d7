// Package web renders the customer and seller screens. Pages are thin shells
// that talk to the JSON API with fetch.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Pages struct {
	templates map[string]*template.Template
	limits    utils.UploadConfig
	appName   string
	log       *zap.Logger
}

type pageData struct {
	AppName     string
	Title       string
	OrderNumber string
	MaxVideoMiB int64
	MaxImageMiB int64
	MaxSongLen  int
}

var pageNames = []string{"home", "upload", "success", "auth", "dashboard"}

func NewPages(appName string, limits utils.UploadConfig, log *zap.Logger) (*Pages, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &Pages{
		templates: templates,
		limits:    limits,
		appName:   appName,
		log:       log.With(zap.String("handler", "web")),
	}, nil
}

// Static serves the embedded stylesheet and scripts under /static/.
func (p *Pages) Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Home handles GET /
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.render(w, "home", "Find your order", "")
}

// Upload handles GET /upload/{orderNumber}
func (p *Pages) Upload(w http.ResponseWriter, r *http.Request) {
	orderNumber, err := utils.PathParam(r, "orderNumber")
	if err != nil || orderNumber == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.render(w, "upload", "Upload files", orderNumber)
}

// Success handles GET /success
func (p *Pages) Success(w http.ResponseWriter, r *http.Request) {
	p.render(w, "success", "Thank you", "")
}

// Auth handles GET /auth
func (p *Pages) Auth(w http.ResponseWriter, r *http.Request) {
	if utils.IsSellerFromContext(r.Context()) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, "auth", "Seller login", "")
}

// Dashboard handles GET /dashboard; non-sellers are sent to the login screen.
func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !utils.IsSellerFromContext(r.Context()) {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}
	p.render(w, "dashboard", "Orders", "")
}

func (p *Pages) render(w http.ResponseWriter, name, title, orderNumber string) {
	data := pageData{
		AppName:     p.appName,
		Title:       title,
		OrderNumber: orderNumber,
		MaxVideoMiB: p.limits.MaxVideoBytes / utils.MiB,
		MaxImageMiB: p.limits.MaxImageBytes / utils.MiB,
		MaxSongLen:  p.limits.MaxSongRequestLen,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.templates[name].ExecuteTemplate(w, "layout", data); err != nil {
		p.log.Error("Failed to render page", zap.Error(err), zap.String("page", name))
	}
}
