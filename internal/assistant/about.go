package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/store"
)

const (
	profileMissing  = "Profile module not installed."
	profileEmpty    = "I don't have profile info yet. Add one with 'aide profile import'."
	projectsMissing = "Projects module not installed."
	projectsEmpty   = "No projects found yet. Add projects with 'aide profile import'."
)

func isUnavailable(err error) bool { return errors.Is(err, store.ErrUnavailable) }

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

func (r *Router) handleProfile(ctx context.Context) string {
	if r.about == nil {
		return profileMissing
	}
	p, err := r.about.GetProfile(ctx)
	switch {
	case isUnavailable(err):
		return profileMissing
	case err != nil:
		r.logger.Warn("load profile failed", zap.Error(err))
		return lookupProblem
	case p == nil:
		return profileEmpty
	}

	name := p.DisplayName
	if name == "" {
		name = "me"
	}
	header := "About " + name
	if p.ShortBio != "" {
		header += ": " + p.ShortBio
	}
	parts := []string{header}
	if p.FullBio != "" {
		parts = append(parts, p.FullBio)
	}

	var links []string
	for _, l := range []struct{ label, value string }{
		{"Website", p.Website},
		{"Email", p.Email},
		{"Location", p.Location},
	} {
		if l.value != "" {
			links = append(links, l.label+": "+l.value)
		}
	}
	if len(links) > 0 {
		parts = append(parts, strings.Join(links, "\n"))
	}

	qa, err := r.about.FirstQAPair(ctx)
	if err != nil && !isUnavailable(err) {
		r.logger.Warn("load faq failed", zap.Error(err))
	}
	if err == nil && qa != nil {
		parts = append(parts, fmt.Sprintf("FAQ - %s: %s", qa.Question, qa.Answer))
	}

	return r.styleWith(ctx, strings.Join(parts, "\n\n"), p)
}

func (r *Router) handleProjects(ctx context.Context) string {
	if r.about == nil {
		return projectsMissing
	}
	projects, err := r.about.ListActiveProjects(ctx, listLimit)
	switch {
	case isUnavailable(err):
		return projectsMissing
	case err != nil:
		r.logger.Warn("list projects failed", zap.Error(err))
		return lookupProblem
	case len(projects) == 0:
		return projectsEmpty
	}

	lines := []string{"Projects:"}
	for _, p := range projects {
		line := "- " + p.Title
		if p.Summary != "" {
			line += " - " + p.Summary
		}
		if p.URL != "" {
			line += " - " + p.URL
		}
		lines = append(lines, line)
	}
	return r.style(ctx, strings.Join(lines, "\n"))
}

// style wraps reply in the persona's greeting and closing, if one is set.
func (r *Router) style(ctx context.Context, reply string) string {
	if r.about == nil {
		return reply
	}
	p, err := r.about.GetProfile(ctx)
	if err != nil {
		p = nil
	}
	return r.styleWith(ctx, reply, p)
}

func (r *Router) styleWith(ctx context.Context, reply string, profile *store.Profile) string {
	if r.about == nil {
		return reply
	}
	persona, err := r.about.GetPersona(ctx)
	if err != nil {
		if !isUnavailable(err) {
			r.logger.Warn("load persona failed", zap.Error(err))
		}
		return reply
	}
	if persona == nil {
		return reply
	}
	return applyPersona(reply, persona, profile)
}

// applyPersona prefixes the greeting when both a template and a name are
// known, and appends the closing.
func applyPersona(reply string, persona *store.Persona, profile *store.Profile) string {
	name := persona.ReferToUserAs
	if profile != nil && profile.DisplayName != "" {
		name = profile.DisplayName
	}

	out := reply
	if persona.GreetingTemplate != "" && name != "" {
		greeting, err := fillName(persona.GreetingTemplate, name)
		if err != nil {
			greeting = persona.GreetingTemplate
		}
		out = greeting + "\n\n" + out
	}
	if persona.ClosingTemplate != "" {
		out += "\n\n" + persona.ClosingTemplate
	}
	return out
}

// fillName substitutes {name} in tmpl. "{{" and "}}" are literal braces;
// any other placeholder or a stray brace is an error.
func fillName(tmpl, name string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at %d", i)
			}
			field := tmpl[i+1 : i+end]
			if field != "name" {
				return "", fmt.Errorf("unknown placeholder {%s}", field)
			}
			b.WriteString(name)
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' at %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
