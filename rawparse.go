package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedBlueprint is wrapped by every blueprint decoding failure.
var ErrMalformedBlueprint = errors.New("malformed blueprint")

var (
	headerRe = regexp.MustCompile(`Blueprint\s+(\d+)\s*:`)
	robotRe  = regexp.MustCompile(`Each\s+(\w+)\s+robot\s+costs\s+([^.]*)\.`)
	termRe   = regexp.MustCompile(`^(\d+)\s+(\w+)$`)
)

type costTerm struct {
	kind   string
	amount int
}

// robotSpec is one producer row before kind names are resolved to indices.
type robotSpec struct {
	kind  string
	terms []costTerm
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedBlueprint, fmt.Sprintf(format, args...))
}

// buildBlueprint resolves kind names in robot order (base first, terminal
// last) and compiles the cost table.
func buildBlueprint(id int, robots []robotSpec) (Blueprint, error) {
	if len(robots) < 2 {
		return Blueprint{}, malformed("blueprint %d: %d producer kinds, want at least 2", id, len(robots))
	}
	if len(robots) > MaxKinds {
		return Blueprint{}, malformed("blueprint %d: %d producer kinds, want at most %d", id, len(robots), MaxKinds)
	}
	index := make(map[string]int, len(robots))
	names := make([]string, len(robots))
	for i, r := range robots {
		if _, dup := index[r.kind]; dup {
			return Blueprint{}, malformed("blueprint %d: duplicate %s producer", id, r.kind)
		}
		index[r.kind] = i
		names[i] = r.kind
	}

	terminal := len(robots) - 1
	costs := make(BuildCost, len(robots))
	for i, r := range robots {
		for _, t := range r.terms {
			k, ok := index[t.kind]
			switch {
			case !ok:
				return Blueprint{}, malformed("blueprint %d: %s producer costs unknown kind %q", id, r.kind, t.kind)
			case t.amount < 0:
				return Blueprint{}, malformed("blueprint %d: negative cost %d %s", id, t.amount, t.kind)
			case k == terminal && t.amount > 0:
				return Blueprint{}, malformed("blueprint %d: %s producer consumes terminal kind %s", id, r.kind, t.kind)
			}
			costs[i][k] += t.amount
		}
	}

	bp := Compile(costs)
	bp.ID = id
	bp.Names = names
	return bp, nil
}

// ── Text form ───────────────────────────────────────────────────────

// ParseBlueprints decodes blueprints of the form
//
//	Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. ...
//
// Records start at each "Blueprint <id>:" header and may span lines. Every
// blueprint must declare the same kinds in the same order.
func ParseBlueprints(text string) ([]Blueprint, error) {
	headers := headerRe.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return nil, malformed("no Blueprint header found")
	}
	if lead := strings.TrimSpace(text[:headers[0][0]]); lead != "" {
		return nil, malformed("unexpected text before first blueprint: %q", lead)
	}

	var out []Blueprint
	seen := make(map[int]bool, len(headers))
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		id, err := strconv.Atoi(text[h[2]:h[3]])
		if err != nil {
			return nil, malformed("bad blueprint id %q", text[h[2]:h[3]])
		}
		if seen[id] {
			return nil, malformed("duplicate blueprint id %d", id)
		}
		seen[id] = true

		bp, err := parseRecord(id, text[h[1]:end])
		if err != nil {
			return nil, err
		}
		if len(out) > 0 && !sameKinds(out[0].Names, bp.Names) {
			return nil, malformed("blueprint %d: kinds %v differ from %v", id, bp.Names, out[0].Names)
		}
		out = append(out, bp)
	}
	return out, nil
}

func parseRecord(id int, body string) (Blueprint, error) {
	body = strings.Join(strings.Fields(body), " ")
	sentences := robotRe.FindAllStringSubmatch(body, -1)
	if len(sentences) == 0 {
		return Blueprint{}, malformed("blueprint %d: no producer sentences", id)
	}
	robots := make([]robotSpec, 0, len(sentences))
	for _, s := range sentences {
		r := robotSpec{kind: s[1]}
		for _, part := range strings.Split(s[2], " and ") {
			m := termRe.FindStringSubmatch(strings.TrimSpace(part))
			if m == nil {
				return Blueprint{}, malformed("blueprint %d: bad cost %q for %s producer", id, part, s[1])
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Blueprint{}, malformed("blueprint %d: bad amount %q", id, m[1])
			}
			r.terms = append(r.terms, costTerm{kind: m[2], amount: n})
		}
		robots = append(robots, r)
	}
	return buildBlueprint(id, robots)
}

func sameKinds(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ── JSON form ───────────────────────────────────────────────────────

// ParseBlueprintsJSON decodes a request document. Blueprints come either
// from an "input" string in text form, or from a "blueprints" array:
//
//	{"blueprints":[{"id":1,"kinds":["ore","clay"],"costs":{"ore":{"ore":4},"clay":{"ore":2}}}]}
//
// "kinds" fixes the order; without it the key order of "costs" is used.
func ParseBlueprintsJSON(doc string) ([]Blueprint, error) {
	if !gjson.Valid(doc) {
		return nil, malformed("invalid JSON")
	}
	if input := gjson.Get(doc, "input"); input.Exists() {
		return ParseBlueprints(input.String())
	}
	arr := gjson.Get(doc, "blueprints")
	if !arr.IsArray() {
		return nil, malformed(`missing "input" or "blueprints"`)
	}

	var out []Blueprint
	var err error
	seen := make(map[int]bool)
	pos := 0
	arr.ForEach(func(_, v gjson.Result) bool {
		pos++
		var bp Blueprint
		bp, err = parseJSONBlueprint(pos, v)
		if err != nil {
			return false
		}
		if seen[bp.ID] {
			err = malformed("duplicate blueprint id %d", bp.ID)
			return false
		}
		seen[bp.ID] = true
		out = append(out, bp)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseJSONBlueprint(pos int, v gjson.Result) (Blueprint, error) {
	id := pos
	if idv := v.Get("id"); idv.Exists() {
		id = int(idv.Int())
	}
	costs := v.Get("costs")
	if !costs.IsObject() {
		return Blueprint{}, malformed("blueprint %d: costs must be an object", id)
	}

	var kinds []string
	rows := make(map[string]gjson.Result)
	costs.ForEach(func(k, row gjson.Result) bool {
		kinds = append(kinds, k.String())
		rows[k.String()] = row
		return true
	})
	if kv := v.Get("kinds"); kv.Exists() {
		kinds = kinds[:0]
		kv.ForEach(func(_, k gjson.Result) bool {
			kinds = append(kinds, k.String())
			return true
		})
	}

	robots := make([]robotSpec, 0, len(kinds))
	for _, kind := range kinds {
		row := rows[kind]
		if !row.IsObject() {
			return Blueprint{}, malformed("blueprint %d: no cost row for %s producer", id, kind)
		}
		r := robotSpec{kind: kind}
		var bad error
		row.ForEach(func(k, n gjson.Result) bool {
			if n.Type != gjson.Number || n.Float() != float64(n.Int()) {
				bad = malformed("blueprint %d: %s cost %s is not an integer", id, k.String(), n.Raw)
				return false
			}
			r.terms = append(r.terms, costTerm{kind: k.String(), amount: int(n.Int())})
			return true
		})
		if bad != nil {
			return Blueprint{}, bad
		}
		robots = append(robots, r)
	}
	return buildBlueprint(id, robots)
}

// applyRequestConfig overlays the optional run parameters of a request
// document onto cfg.
func applyRequestConfig(doc string, cfg Config) Config {
	if v := gjson.Get(doc, "horizon"); v.Exists() {
		cfg.Horizon = int(v.Int())
	}
	if v := gjson.Get(doc, "mode"); v.Exists() {
		cfg.Mode = v.String()
	}
	if v := gjson.Get(doc, "head"); v.Exists() {
		cfg.Head = int(v.Int())
	}
	if v := gjson.Get(doc, "workers"); v.Exists() {
		cfg.Workers = int(v.Int())
	}
	return cfg
}

// ── Loading ─────────────────────────────────────────────────────────

func isJSONDoc(data string) bool {
	return strings.HasPrefix(strings.TrimSpace(data), "{")
}

// loadFromString picks the decoder by content.
func loadFromString(data string) ([]Blueprint, error) {
	if isJSONDoc(data) {
		return ParseBlueprintsJSON(data)
	}
	return ParseBlueprints(data)
}

// LoadBlueprints reads a blueprint file in text or JSON form.
func LoadBlueprints(path string) ([]Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	bps, err := loadFromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bps, nil
}
