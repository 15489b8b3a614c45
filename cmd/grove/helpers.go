package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

// parsePath defaults to the root collection.
func parsePath(args []string) (core.Path, error) {
	p := tree.Categories()
	if len(args) > 0 {
		p = core.Path(strings.Trim(args[0], "/"))
	}
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("invalid collection path %q: %w", p, err)
	}
	return p, nil
}

// unescaper expands the sequences accepted by --escapes.
var unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t")

// parseFields reads key=value pairs. Values are taken verbatim unless
// unescape is set, in which case \n, \t and \\ are expanded.
func parseFields(pairs []string, unescape bool) (core.Fields, error) {
	fields := make(core.Fields, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		if unescape {
			v = unescaper.Replace(v)
		}
		fields[k] = v
	}
	return fields, nil
}

type docJSON struct {
	ID     string      `json:"id"`
	Fields core.Fields `json:"fields"`
}

func toJSON(docs []core.Document) []docJSON {
	out := make([]docJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, docJSON{ID: d.ID, Fields: d.Fields})
	}
	return out
}

// label is the name of a category or topic, or the title of a note.
func label(d core.Document) string {
	if s := d.Fields.String(tree.FieldName); s != "" {
		return s
	}
	return d.Fields.String(tree.FieldTitle)
}

func printDocs(w io.Writer, docs []core.Document, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(docs))
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %s\n", d.ID, label(d))
	}
	return nil
}
