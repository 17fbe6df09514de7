package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/okian/trackboard/pkg/metrics"
)

// Asset cache paths.
const (
	PagePath          = "/"
	ServiceWorkerPath = "/sw.js"
	staticPrefix      = "/static/"
)

// AssetList is every path the browser precaches. The page is live state
// and always comes from the network.
var AssetList = []string{
	"/static/style.css",
	"/static/app.js",
	"/static/icon.svg",
	ServiceWorkerPath,
}

type asset struct {
	body        []byte
	contentType string
}

// AssetCache holds the static assets in memory. It is immutable once
// Precache returns.
type AssetCache struct {
	version string
	assets  map[string]asset
	bytes   int
}

// Precache installs the embedded assets under version.
func Precache(version string) (*AssetCache, error) {
	return precache(staticFS, version, AssetList)
}

func precache(fsys fs.FS, version string, list []string) (*AssetCache, error) {
	c := &AssetCache{version: version, assets: make(map[string]asset, len(list))}
	for _, p := range list {
		switch {
		case p == ServiceWorkerPath:
			body, err := serviceWorker(version, list)
			if err != nil {
				return nil, err
			}
			c.put(p, body, "text/javascript; charset=utf-8")
		case strings.HasPrefix(p, staticPrefix):
			body, err := fs.ReadFile(fsys, strings.TrimPrefix(p, "/"))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrMissingAsset, p, err)
			}
			c.put(p, body, contentType(p))
		default:
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, p)
		}
	}
	metrics.UpdateAssetsCached(len(c.assets), c.bytes)
	return c, nil
}

func (c *AssetCache) put(p string, body []byte, ct string) {
	c.assets[p] = asset{body: body, contentType: ct}
	c.bytes += len(body)
}

// Version returns the cache version.
func (c *AssetCache) Version() string { return c.version }

// Len returns the number of cached assets.
func (c *AssetCache) Len() int { return len(c.assets) }

// ServeHTTP serves listed assets from memory. Anything else is a 404; there
// is no fallback to disk or network.
func (c *AssetCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a, ok := c.assets[r.URL.Path]
	if !ok {
		metrics.RecordAssetRequest("miss")
		http.NotFound(w, r)
		return
	}
	metrics.RecordAssetRequest("hit")
	w.Header().Set("Content-Type", a.contentType)
	w.Header().Set("ETag", `"`+c.version+`"`)
	if r.URL.Path == ServiceWorkerPath {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}
	http.ServeContent(w, r, path.Base(r.URL.Path), time.Time{}, bytes.NewReader(a.body))
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var swTemplate = template.Must(template.New("sw").Parse(`const CACHE = {{.Cache}};
const ASSETS = {{.Assets}};

self.addEventListener('install', (event) => {
  event.waitUntil(caches.open(CACHE).then((cache) => cache.addAll(ASSETS)));
});

self.addEventListener('activate', (event) => {
  event.waitUntil(
    caches.keys().then((keys) =>
      Promise.all(keys.filter((k) => k !== CACHE).map((k) => caches.delete(k)))
    )
  );
});

self.addEventListener('fetch', (event) => {
  if (event.request.method !== 'GET' || event.request.mode === 'navigate') {
    return;
  }
  event.respondWith(
    caches.match(event.request, { ignoreSearch: true }).then((hit) => hit || fetch(event.request))
  );
});
`))

func serviceWorker(version string, list []string) ([]byte, error) {
	name, err := json.Marshal("trackboard-" + version)
	if err != nil {
		return nil, err
	}
	assets, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = swTemplate.Execute(&buf, struct{ Cache, Assets string }{string(name), string(assets)})
	if err != nil {
		return nil, fmt.Errorf("service worker: %w", err)
	}
	return buf.Bytes(), nil
}
