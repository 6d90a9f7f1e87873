package profile

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const sectionHeaders = `technical skills|core skills|key skills|skills|core competencies|work experience|professional experience|employment history|experience|projects|education|achievements|certifications`

var (
	// A header counts only at the start of the text or a line, or after a sentence end.
	inlineHeaderRe = regexp.MustCompile(`(?i)(?:^|[\n.!?|]\s*)((?:` + sectionHeaders + `)\s*:)`)
	lineHeaderRe   = regexp.MustCompile(`(?im)^\s*(?:` + sectionHeaders + `)\s*$`)
)

// Normalize maps a decoded provider object onto a total Profile. Absent, null or
// mistyped values fall back to their defaults. sourceText is the document text the
// record was extracted from; it is used to keep only project URLs that literally
// appear in it. The returned notes describe every value that was changed or dropped.
func Normalize(obj map[string]any, sourceText string) (Profile, []string) {
	n := normalizer{source: strings.ToLower(sourceText)}
	p := Empty()

	basics := n.object(obj, "basics")
	p.Basics = Basics{
		Name:     n.str(basics, "basics.name"),
		Label:    n.str(basics, "basics.label"),
		Email:    n.str(basics, "basics.email"),
		LinkedIn: n.str(basics, "basics.linkedin"),
		GitHub:   n.str(basics, "basics.github"),
		Summary:  n.summary(n.str(basics, "basics.summary")),
	}

	for i, item := range n.listOrSplit(obj, "skills") {
		var name string
		switch v := item.(type) {
		case string:
			name = strings.TrimSpace(v)
			n.note("skills[%d] coerced from string", i)
		case map[string]any:
			name = n.str(v, "skills.name")
		}
		if name == "" {
			n.note("skills[%d] dropped: empty", i)
			continue
		}
		p.Skills = append(p.Skills, Skill{Name: name})
	}

	for i, item := range n.list(obj, "projects") {
		m, ok := item.(map[string]any)
		if !ok {
			n.note("projects[%d] dropped: not an object", i)
			continue
		}
		proj := Project{
			Name:         n.str(m, "projects.name"),
			Description:  n.str(m, "projects.description"),
			Technologies: n.stringList(m, "technologies"),
			URL:          n.projectURL(n.str(m, "projects.url"), i),
		}
		if proj.Name == "" && proj.Description == "" && proj.URL == "" && len(proj.Technologies) == 0 {
			n.note("projects[%d] dropped: empty", i)
			continue
		}
		p.Projects = append(p.Projects, proj)
	}

	for i, item := range n.list(obj, "experience") {
		m, ok := item.(map[string]any)
		if !ok {
			n.note("experience[%d] dropped: not an object", i)
			continue
		}
		exp := Experience{
			Role:        n.str(m, "experience.role"),
			Company:     n.str(m, "experience.company"),
			Date:        n.str(m, "experience.date"),
			Description: n.str(m, "experience.description"),
		}
		if exp == (Experience{}) {
			n.note("experience[%d] dropped: empty", i)
			continue
		}
		p.Experience = append(p.Experience, exp)
	}

	for i, item := range n.list(obj, "education") {
		m, ok := item.(map[string]any)
		if !ok {
			n.note("education[%d] dropped: not an object", i)
			continue
		}
		edu := Education{
			Institution: n.str(m, "education.institution"),
			Degree:      n.str(m, "education.degree"),
			Date:        n.str(m, "education.date"),
		}
		if edu == (Education{}) {
			n.note("education[%d] dropped: empty", i)
			continue
		}
		p.Education = append(p.Education, edu)
	}

	for i, item := range n.list(obj, "achievements") {
		var desc string
		switch v := item.(type) {
		case string:
			desc = strings.TrimSpace(v)
			n.note("achievements[%d] coerced from string", i)
		case map[string]any:
			desc = n.str(v, "achievements.description")
		}
		if desc == "" {
			n.note("achievements[%d] dropped: empty", i)
			continue
		}
		p.Achievements = append(p.Achievements, Achievement{Description: desc})
	}

	for i, item := range n.list(obj, "otherSections") {
		m, ok := item.(map[string]any)
		if !ok {
			n.note("otherSections[%d] dropped: not an object", i)
			continue
		}
		sec := OtherSection{
			Title:   n.str(m, "otherSections.title"),
			Content: n.str(m, "otherSections.content"),
		}
		if sec == (OtherSection{}) {
			n.note("otherSections[%d] dropped: empty", i)
			continue
		}
		p.OtherSections = append(p.OtherSections, sec)
	}

	return p, n.notes
}

type normalizer struct {
	source string
	notes  []string
}

func (n *normalizer) note(format string, args ...any) {
	if len(args) == 0 {
		n.notes = append(n.notes, format)
		return
	}
	n.notes = append(n.notes, fmt.Sprintf(format, args...))
}

func (n *normalizer) object(m map[string]any, key string) map[string]any {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		n.note("%s dropped: not an object", key)
		return nil
	}
	return obj
}

func (n *normalizer) list(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		n.note("%s dropped: not an array", key)
		return nil
	}
	return items
}

// str reads path's last segment from m, coercing numbers and rejecting other types.
func (n *normalizer) str(m map[string]any, path string) string {
	key := path[strings.LastIndex(path, ".")+1:]
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		n.note("%s coerced from number", path)
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		n.note("%s dropped: unexpected type", path)
		return ""
	}
}

// stringList reads a string list; a single comma-separated string is split.
func (n *normalizer) stringList(m map[string]any, key string) []string {
	out := []string{}
	switch v := m[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		n.note("projects.%s coerced from string", key)
		out = append(out, splitList(v)...)
	}
	return out
}

// listOrSplit is list, except that a comma-separated string becomes its items.
func (n *normalizer) listOrSplit(m map[string]any, key string) []any {
	s, ok := m[key].(string)
	if !ok {
		return n.list(m, key)
	}
	n.note("%s split from string", key)
	parts := splitList(s)
	items := make([]any, 0, len(parts))
	for _, part := range parts {
		items = append(items, map[string]any{"name": part})
	}
	return items
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// projectURL keeps raw only when it is an absolute http(s) URL present verbatim in the source text.
func (n *normalizer) projectURL(raw string, idx int) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		n.note("projects[%d].url dropped: not an absolute URL", idx)
		return ""
	}
	if n.source != "" {
		candidate := strings.ToLower(strings.TrimSuffix(raw, "/"))
		if !containsURL(n.source, candidate) {
			n.note("projects[%d].url dropped: not present in source text", idx)
			return ""
		}
	}
	return raw
}

// summary cuts the summary at the first embedded section header.
func (n *normalizer) summary(s string) string {
	cut := -1
	if loc := inlineHeaderRe.FindStringSubmatchIndex(s); loc != nil {
		cut = loc[2]
	}
	if loc := lineHeaderRe.FindStringIndex(s); loc != nil && (cut < 0 || loc[0] < cut) {
		cut = loc[0]
	}
	if cut < 0 {
		return s
	}
	n.note("basics.summary truncated at section header")
	return strings.TrimRight(s[:cut], " \t\r\n,;:-|")
}

// containsURL reports whether u occurs in text as a whole URL: the match may be
// followed by one slash and trailing punctuation, then must end at whitespace, a
// closing bracket or quote, or the end of the text.
func containsURL(text, u string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], u)
		if i < 0 {
			return false
		}
		rest := strings.TrimPrefix(text[from+i+len(u):], "/")
		rest = strings.TrimLeft(rest, ".,;:!?")
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(r) || strings.ContainsRune(`)]}>"'|`, r) {
			return true
		}
		from += i + 1
	}
	return false
}
