package domain

import (
	"regexp"
	"sort"
	"strings"
)

// MachineIndex maps lowercase keywords to the set of machine names they
// occur in. It is built once at startup from distinct machine name and
// machine group values, and only read afterwards.
type MachineIndex struct {
	keywords map[string]map[string]struct{}
}

func NewMachineIndex() *MachineIndex {
	return &MachineIndex{keywords: make(map[string]map[string]struct{})}
}

// IndexName tokenizes a machine name and records every usable token.
func (idx *MachineIndex) IndexName(name string) {
	for _, token := range TokenizeMachineName(name) {
		set, ok := idx.keywords[token]
		if !ok {
			set = make(map[string]struct{})
			idx.keywords[token] = set
		}
		set[name] = struct{}{}
	}
}

// Keywords returns all indexed keywords, sorted for stable prompting.
func (idx *MachineIndex) Keywords() []string {
	out := make([]string, 0, len(idx.keywords))
	for k := range idx.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MachinesFor returns the machine names a keyword occurs in.
func (idx *MachineIndex) MachinesFor(keyword string) []string {
	set, ok := idx.keywords[strings.ToLower(keyword)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (idx *MachineIndex) Len() int {
	return len(idx.keywords)
}

var (
	separatorRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	camelRe     = regexp.MustCompile(`[A-Z][a-z]*|[0-9]+|[a-z]+`)
)

// TokenizeMachineName splits a machine name on separators and camelCase /
// digit boundaries, lowercases the pieces and drops tokens of one or two
// characters. "MacLine2-DualRobot" yields mac, line, dual, robot and
// macline2, dualrobot style fragments depending on the separators.
func TokenizeMachineName(name string) []string {
	if name == "" {
		return nil
	}

	raw := separatorRe.Split(name, -1)
	raw = append(raw, camelRe.FindAllString(name, -1)...)

	seen := make(map[string]struct{}, len(raw))
	var tokens []string
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if len(t) <= 2 {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}
