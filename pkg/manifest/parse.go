package manifest

import (
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
)

const (
	wrapperKey = "manifest"
	packsKey   = "packs"
)

// Parse reads a YAML (or JSON) manifest document into an Index
func Parse(data []byte) (*Index, error) {
	logger := logging.GetLogger("manifest.parse")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse manifest")
	}

	root := documentRoot(&doc)
	if root == nil {
		logger.Debug().Msg("Empty manifest document")
		return NewIndex(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrManifestParse, "manifest must be a mapping")
	}

	if wrapped := lookup(root, wrapperKey); wrapped != nil && wrapped.Kind == yaml.MappingNode {
		root = wrapped
	}

	packs := lookup(root, packsKey)
	if packs == nil || isNull(packs) {
		logger.Debug().Msg("Manifest has no packs")
		return NewIndex(), nil
	}
	if packs.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrManifestParse, "manifest packs must be a mapping of pack name to definition")
	}

	defs := make([]PackDef, 0, len(packs.Content)/2)
	for n := 0; n+1 < len(packs.Content); n += 2 {
		name := packs.Content[n].Value
		var def PackDef
		if err := packs.Content[n+1].Decode(&def); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "invalid definition for pack '%s'", name).
				WithDetail("pack", name)
		}
		def.Name = name
		defs = append(defs, def)
	}

	logger.Debug().Int("packs", len(defs)).Msg("Parsed manifest")
	return NewIndex(defs...), nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if isNull(root) {
		return nil
	}
	return root
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for n := 0; n+1 < len(mapping.Content); n += 2 {
		if mapping.Content[n].Value == key {
			return mapping.Content[n+1]
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
