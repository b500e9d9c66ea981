package graphstyle

import (
	"regexp"

	"github.com/wesen/neograph/pkg/graphmodel"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

// Interpolate expands a caption template for item, which must be a
// *graphmodel.NodeModel or *graphmodel.RelationshipModel. "{key}" is replaced
// by the property value (empty when missing); a template that is exactly
// "<id>" or "<type>" yields the item's id or relationship type.
func Interpolate(template string, item any) string {
	var (
		props  map[string]string
		id     string
		typ    string
		isNode bool
	)
	switch it := item.(type) {
	case *graphmodel.NodeModel:
		props, id, isNode = it.PropertyMap, it.ID, true
	case *graphmodel.RelationshipModel:
		props, id, typ = it.PropertyMap, it.ID, it.Type
	default:
		return ""
	}

	out := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		return props[m[1:len(m)-1]]
	})
	if out == "" && template == "{type}" && !isNode {
		out = "<type>"
	}
	if out == "" && template == "{id}" && isNode {
		out = "<id>"
	}
	switch out {
	case "<id>":
		return id
	case "<type>":
		return typ
	}
	return out
}

// Caption returns the interpolated caption of the element for item.
func (e *StyleElement) Caption(item any) string {
	return Interpolate(e.Get("caption"), item)
}
