package core

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jdupak/FEL-PSBrute/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/brute/core")

const (
	// PortalUrl is where the grading portal lives.
	PortalUrl = "https://cw.felk.cvut.cz"
	// CookiePrefix is the name prefix every valid session cookie carries.
	CookiePrefix = "_shibsession_"
	// IdentityProviderHost is the SSO host the portal bounces expired
	// sessions to.
	IdentityProviderHost = "idp2.civ.cvut.cz"
)

// Credential is a copied session cookie, name/value, bound to the portal
// domain. It is read once per request and never mutated.
type Credential struct {
	Name  string
	Value string
}

// ParseCredential splits a stored `name=value` line into a Credential.
func ParseCredential(line string) (Credential, error) {
	line = strings.TrimSpace(line)
	name, value, found := strings.Cut(line, "=")
	if !found {
		return Credential{}, AuthError{Reason: "stored credential is not a name=value pair"}
	}
	if !strings.HasPrefix(name, CookiePrefix) {
		return Credential{}, AuthError{Reason: fmt.Sprintf(
			"session cookie name must start with %q, got %q", CookiePrefix, name,
		)}
	}
	if value == "" {
		return Credential{}, AuthError{Reason: "session cookie has an empty value"}
	}
	return Credential{Name: name, Value: value}, nil
}

func (c Credential) String() string {
	return c.Name + "=" + c.Value
}

// Client is the authenticated transport to the portal. Redirects are
// never followed, the portal signals outcomes through them.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to PortalUrl
	BaseUrl    string
	Credential Credential
}

func NewClient(opts ClientOptions) (*Client, error) {
	rawUrl := opts.BaseUrl
	if rawUrl == "" {
		rawUrl = PortalUrl
	}
	baseUrl, err := url.Parse(rawUrl)
	if err != nil {
		return nil, err
	}
	if opts.Credential == (Credential{}) {
		return nil, AuthError{Reason: "no session credential stored"}
	}

	client := resty.New()
	client.SetBaseURL(rawUrl)
	client.SetCookie(&http.Cookie{
		Name:   opts.Credential.Name,
		Value:  opts.Credential.Value,
		Domain: baseUrl.Hostname(),
	})
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(
		func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	))

	telemetry.InstrumentResty(client, "scrapers/brute/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// RedirectTarget resolves the Location header of a redirect response
// against the request url, or returns nil when res is not a redirect.
func RedirectTarget(res *resty.Response) *url.URL {
	if res.StatusCode() < 300 || res.StatusCode() >= 400 {
		return nil
	}
	location := res.Header().Get("Location")
	if location == "" {
		return nil
	}
	target, err := url.Parse(location)
	if err != nil {
		return nil
	}
	reqUrl, err := url.Parse(res.Request.URL)
	if err != nil {
		return target
	}
	return reqUrl.ResolveReference(target)
}

// a bounce to the identity provider means the copied session cookie is
// no longer valid, not that the page moved
func checkExpired(res *resty.Response) error {
	target := RedirectTarget(res)
	if target != nil && target.Hostname() == IdentityProviderHost {
		return AuthError{Reason: "session expired"}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	err = checkExpired(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "client:PostForm")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post")
		return nil, err
	}
	err = checkExpired(res)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

// Download fetches a file, typically a submission archive, and returns
// its raw bytes.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	res, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		err := IOError{
			Op:  "download " + path,
			Err: fmt.Errorf("unexpected status %s", res.Status()),
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Body(), nil
}
