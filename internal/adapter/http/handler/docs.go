package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"net/http"

	"tutor-settlement/pkg/apperror"
	"tutor-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	docsPath     = "/swagger"
	docsSpecPath = docsPath + "/spec"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="api-docs" data-spec="{{.SpecURL}}"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const root = document.getElementById("api-docs");
window.ui = SwaggerUIBundle({url: root.dataset.spec, domNode: root, deepLinking: true});
</script>
</body>
</html>
`))

// APIDocs serves the OpenAPI document and a browser page rendering it.
// Both are built once; the document is revalidated by ETag.
type APIDocs struct {
	spec []byte
	etag string
	page []byte
}

// NewAPIDocs prepares spec for serving. An empty spec makes both routes 404.
func NewAPIDocs(spec []byte, title string) *APIDocs {
	d := &APIDocs{spec: spec}
	if len(spec) == 0 {
		return d
	}
	sum := sha256.Sum256(spec)
	d.etag = `"` + hex.EncodeToString(sum[:8]) + `"`

	var buf bytes.Buffer
	_ = docsPage.Execute(&buf, struct{ Title, SpecURL string }{title, docsSpecPath})
	d.page = buf.Bytes()
	return d
}

// Register mounts the page and the raw document under /swagger.
func (d *APIDocs) Register(r gin.IRoutes) {
	r.GET(docsPath, d.Page)
	r.GET(docsSpecPath, d.Spec)
}

// Spec serves the OpenAPI YAML, answering 304 when the client already has it.
func (d *APIDocs) Spec(c *gin.Context) {
	if len(d.spec) == 0 {
		response.Error(c, apperror.ErrNotFound("OpenAPI document"))
		return
	}
	c.Header("ETag", d.etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == d.etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", d.spec)
}

// Page serves the HTML viewer.
func (d *APIDocs) Page(c *gin.Context) {
	if d.page == nil {
		response.Error(c, apperror.ErrNotFound("OpenAPI document"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", d.page)
}
