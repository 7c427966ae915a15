package core

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log" // Standard log package for goproxy.Logger config
	"net"
	"net/http"
	"strings"
	"time"

	"redirectly/logger"
	"redirectly/models"

	"github.com/elazarl/goproxy"
	"github.com/google/uuid"
)

// DefaultTabHeader identifies the tab a proxied request belongs to.
const DefaultTabHeader = "X-Redirectly-Tab"

// ProxyOptions configures the enforcing proxy.
type ProxyOptions struct {
	// TabHeader names the header carrying the tab id. Requests without it
	// are attributed to the client host.
	TabHeader string
	// CA enables TLS interception. Without it CONNECT tunnels pass through
	// untouched and only plain HTTP requests are rewritten.
	CA *tls.Certificate
	// Ingester imports share links seen on top-level navigations. Nil
	// disables share-link handling.
	Ingester *ShareIngester
}

// proxyRequestContextData is passed from the request to the response handler
// through ctx.UserData.
type proxyRequestContextData struct {
	RequestID string
	TabID     string
	Start     time.Time
	Match     *Match
}

// NewProxy builds the goproxy server that enforces the engine's directives.
// Matches set the tab badge through the engine's listeners; a top-level
// navigation clears it first.
func NewProxy(engine *Engine, badges *BadgeBoard, opts ProxyOptions) *goproxy.ProxyHttpServer {
	if opts.TabHeader == "" {
		opts.TabHeader = DefaultTabHeader
	}

	proxy := goproxy.NewProxyHttpServer()
	proxy.Logger = log.New(io.Discard, "", 0)

	if opts.CA != nil {
		tlsConfig := goproxy.TLSConfigFromCA(opts.CA)
		proxy.OnRequest().HandleConnect(goproxy.FuncHttpsHandler(func(host string, ctx *goproxy.ProxyCtx) (*goproxy.ConnectAction, string) {
			logger.ProxyDebug("HandleConnect for session %d, host %s", ctx.Session, host)
			return &goproxy.ConnectAction{Action: goproxy.ConnectMitm, TLSConfig: tlsConfig}, host
		}))
	}

	proxy.OnRequest().DoFunc(func(r *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
		data := &proxyRequestContextData{
			RequestID: uuid.NewString(),
			TabID:     tabID(r, opts.TabHeader),
			Start:     time.Now(),
		}
		ctx.UserData = data
		r.Header.Del(opts.TabHeader)

		resourceType := ResourceTypeOf(r)
		if resourceType == models.ResourceMainFrame {
			if badges != nil {
				badges.NavigationCommitted(data.TabID)
			}
			if opts.Ingester != nil && HasShareParams(r.URL) {
				cleaned, added, err := opts.Ingester.Ingest(r.URL.String())
				if err != nil {
					logger.ProxyError("REQ %s: share link ingestion failed: %v", data.RequestID, err)
				} else if len(added) > 0 {
					logger.ProxyInfo("REQ %s: imported %d shared rules, navigating tab %s to %s", data.RequestID, len(added), data.TabID, cleaned)
					return r, redirectResponse(r, cleaned)
				}
			}
		}

		match, ok := engine.Evaluate(Request{
			URL:       r.URL.String(),
			Type:      resourceType,
			TabID:     data.TabID,
			RequestID: data.RequestID,
		})
		if !ok {
			logger.ProxyDebug("REQ %s: %s %s (%s) no directive matched", data.RequestID, r.Method, r.URL, resourceType)
			return r, nil
		}
		data.Match = match

		switch match.Directive.Action.Type {
		case models.ActionRedirect:
			logger.ProxyInfo("REQ %s: %s %s redirected to %s by directive %d", data.RequestID, r.Method, r.URL, match.RedirectURL, match.Directive.ID)
			return r, redirectResponse(r, match.RedirectURL)
		case models.ActionModifyHeaders:
			applyRequestHeaders(r.Header, match.Directive.Action.RequestHeaders)
			logger.ProxyInfo("REQ %s: %s %s headers modified by directive %d", data.RequestID, r.Method, r.URL, match.Directive.ID)
		}
		return r, nil
	})

	proxy.OnResponse().DoFunc(func(resp *http.Response, ctx *goproxy.ProxyCtx) *http.Response {
		data, ok := ctx.UserData.(*proxyRequestContextData)
		if !ok || data == nil || ctx.Req == nil {
			return resp
		}
		if resp == nil {
			logger.ProxyError("RESP %s: nil response for %s %s", data.RequestID, ctx.Req.Method, ctx.Req.URL)
			return resp
		}
		logger.ProxyDebug("RESP %s: %d for %s %s (%s)", data.RequestID, resp.StatusCode, ctx.Req.Method, ctx.Req.URL, time.Since(data.Start))
		return resp
	})

	return proxy
}

// StartMitmProxy serves the enforcing proxy on port until ctx is done.
func StartMitmProxy(ctx context.Context, port string, engine *Engine, badges *BadgeBoard, opts ProxyOptions) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewProxy(engine, badges, opts),
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.ProxyInfo("MITM Proxy server starting on :%s (TLS interception %t)", port, opts.CA != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.ProxyInfo("MITM Proxy server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func redirectResponse(r *http.Request, location string) *http.Response {
	resp := goproxy.NewResponse(r, goproxy.ContentTypeText, http.StatusTemporaryRedirect, "")
	resp.Header.Set("Location", location)
	return resp
}

func applyRequestHeaders(h http.Header, infos []models.HeaderInfo) {
	for _, info := range infos {
		switch info.Operation {
		case models.HeaderSet:
			h.Set(info.Header, info.Value)
		case models.HeaderAppend:
			h.Add(info.Header, info.Value)
		case models.HeaderRemove:
			h.Del(info.Header)
		}
	}
}

func tabID(r *http.Request, header string) string {
	if id := r.Header.Get(header); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ResourceTypeOf classifies a request from its fetch metadata headers. Clients
// that send none are treated as top-level navigations when they ask for HTML.
func ResourceTypeOf(r *http.Request) models.ResourceType {
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return models.ResourceWebSocket
	}
	switch strings.ToLower(r.Header.Get("Sec-Fetch-Dest")) {
	case "document":
		return models.ResourceMainFrame
	case "iframe", "frame", "fencedframe":
		return models.ResourceSubFrame
	case "style":
		return models.ResourceStylesheet
	case "script", "worker", "sharedworker", "serviceworker", "audioworklet", "paintworklet":
		return models.ResourceScript
	case "image":
		return models.ResourceImage
	case "font":
		return models.ResourceFont
	case "object", "embed":
		return models.ResourceObject
	case "audio", "video", "track":
		return models.ResourceMedia
	case "report":
		return models.ResourceCSPReport
	case "empty":
		if r.Header.Get("Ping-To") != "" || r.Header.Get("Content-Type") == "text/ping" {
			return models.ResourcePing
		}
		return models.ResourceXMLHTTPRequest
	case "":
		if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") {
			return models.ResourceMainFrame
		}
		if r.Header.Get("X-Requested-With") != "" {
			return models.ResourceXMLHTTPRequest
		}
	}
	return models.ResourceOther
}
