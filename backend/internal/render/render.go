// Package render builds the toggle link fragments returned as the content of
// successful toggles and embedded by topic and forum pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/ideaboard/ideaboard/shared/config"
	"github.com/ideaboard/ideaboard/shared/domain"
	"github.com/microcosm-cc/bluemonday"
)

// The href only navigates; the page script posts data-kind, the id and
// data-nonce to the ajax url.
const linkTemplate = `<span id="{{.Wrapper}}-toggle"><span id="{{.Prefix}}-{{.Id}}"{{if .Active}} class="{{.ActiveClass}}"{{end}}>` +
	`<a href="{{.Href}}" class="{{.Wrapper}}-toggle" {{if .OnForum}}data-forum{{else}}data-topic{{end}}="{{.Id}}" ` +
	`data-kind="{{.Kind}}" data-nonce="{{.Nonce}}">{{.Label}}</a></span></span>`

type linkData struct {
	Wrapper     string
	Prefix      string
	ActiveClass string
	OnForum     bool
	Id          domain.ObjectId
	Kind        domain.RelationKind
	Active      bool
	Href        string
	Nonce       string
	Label       template.HTML
}

type Renderer struct {
	tmpl   *template.Template
	href   string
	labels map[bool]map[domain.RelationKind]template.HTML
}

// New sanitizes labels once; they may carry inline markup such as icons.
// baseURL is the plain page links fall back to without scripts.
func New(labels config.Labels, baseURL string) (*Renderer, error) {
	tmpl, err := template.New("toggle-link").Parse(linkTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link template: %w", err)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	p := bluemonday.UGCPolicy()
	sanitize := func(s string) template.HTML {
		return template.HTML(p.Sanitize(s))
	}

	return &Renderer{
		tmpl: tmpl,
		href: baseURL,
		labels: map[bool]map[domain.RelationKind]template.HTML{
			// label offering to add the relation
			false: {
				domain.RelationFavorite:          sanitize(labels.Favorite),
				domain.RelationSubscription:      sanitize(labels.Subscribe),
				domain.RelationForumSubscription: sanitize(labels.Subscribe),
			},
			// label offering to remove it
			true: {
				domain.RelationFavorite:          sanitize(labels.Unfavorite),
				domain.RelationSubscription:      sanitize(labels.Unsubscribe),
				domain.RelationForumSubscription: sanitize(labels.Unsubscribe),
			},
		},
	}, nil
}

// Link renders the affordance for the next action: with isMember set it
// offers removal, otherwise addition. token is carried in a data attribute,
// never in the href, so following the link cannot toggle anything.
func (r *Renderer) Link(kind domain.RelationKind, id domain.ObjectId, isMember bool, token string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported relation kind %q", kind)
	}

	data := linkData{
		Wrapper:     "subscription",
		Prefix:      "subscribe",
		ActiveClass: "is-subscribed",
		OnForum:     kind.OnForum(),
		Id:          id,
		Kind:        kind,
		Active:      isMember,
		Href:        r.href,
		Nonce:       token,
		Label:       r.labels[isMember][kind],
	}
	if kind == domain.RelationFavorite {
		data.Wrapper, data.Prefix, data.ActiveClass = "favorite", "favorite", "is-favorite"
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render toggle link: %w", err)
	}
	return buf.String(), nil
}
