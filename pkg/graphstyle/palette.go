package graphstyle

// Props is a set of style properties.
type Props map[string]string

// Known style properties. Sheets loaded from storage drop anything else.
var KnownProperties = map[string]bool{
	"color":               true,
	"border-color":        true,
	"border-width":        true,
	"text-color-internal": true,
	"text-color-external": true,
	"font-size":           true,
	"diameter":            true,
	"caption":             true,
	"defaultCaption":      true,
	"icon-code":           true,
	"shaft-width":         true,
	"padding":             true,
}

// DefaultStyle is the base sheet every GraphStyle starts from.
func DefaultStyle() map[string]Props {
	return map[string]Props{
		TagNode: {
			"diameter":            "50px",
			"color":               "#A5ABB6",
			"border-color":        "#9AA1AC",
			"border-width":        "2px",
			"text-color-internal": "#FFFFFF",
			"font-size":           "10px",
		},
		TagRelationship: {
			"color":               "#A5ABB6",
			"shaft-width":         "1px",
			"font-size":           "8px",
			"padding":             "3px",
			"text-color-external": "#000000",
			"text-color-internal": "#FFFFFF",
			"caption":             "<type>",
		},
	}
}

// DefaultColors is the palette assigned to newly seen labels.
func DefaultColors() []Props {
	return []Props{
		{"color": "#604A0E", "border-color": "#423204", "text-color-internal": "#FFFFFF"},
		{"color": "#C990C0", "border-color": "#B261A5", "text-color-internal": "#FFFFFF"},
		{"color": "#F79767", "border-color": "#F36924", "text-color-internal": "#FFFFFF"},
		{"color": "#57C7E3", "border-color": "#23B3D7", "text-color-internal": "#2A2C34"},
		{"color": "#F16667", "border-color": "#EB2728", "text-color-internal": "#FFFFFF"},
		{"color": "#D9C8AE", "border-color": "#C0A378", "text-color-internal": "#2A2C34"},
		{"color": "#8DCC93", "border-color": "#5DB665", "text-color-internal": "#2A2C34"},
		{"color": "#ECB5C9", "border-color": "#DA7298", "text-color-internal": "#2A2C34"},
		{"color": "#4C8EDA", "border-color": "#2870C2", "text-color-internal": "#FFFFFF"},
		{"color": "#FFC454", "border-color": "#D7A013", "text-color-internal": "#2A2C34"},
		{"color": "#DA7194", "border-color": "#CC3C6C", "text-color-internal": "#FFFFFF"},
		{"color": "#569480", "border-color": "#447666", "text-color-internal": "#FFFFFF"},
	}
}

// DefaultSizes are the node diameters offered by the size picker.
func DefaultSizes() []Props {
	return []Props{
		{"diameter": "10px"},
		{"diameter": "20px"},
		{"diameter": "50px"},
		{"diameter": "65px"},
		{"diameter": "80px"},
	}
}

// DefaultArrayWidths are the relationship shaft widths offered by the picker.
func DefaultArrayWidths() []Props {
	return []Props{
		{"shaft-width": "1px"},
		{"shaft-width": "2px"},
		{"shaft-width": "3px"},
		{"shaft-width": "5px"},
		{"shaft-width": "8px"},
		{"shaft-width": "13px"},
		{"shaft-width": "25px"},
		{"shaft-width": "38px"},
	}
}

// DefaultIconCodes are the glyph codes offered by the icon picker.
func DefaultIconCodes() []Props {
	codes := []string{"a9", "ae", "f042", "f043", "f044", "f045", "f046", "f047", "f048", "f049", "f04a", "f04b", "f04c", "f04d", "f04e", "f050"}
	out := make([]Props, len(codes))
	for i, c := range codes {
		out[i] = Props{"icon-code": c}
	}
	return out
}

// defaultSize is applied to labels that have no explicit diameter.
var defaultSize = Props{"diameter": "50px"}

// Presets lists the palette values offered for prop, or nil when prop has
// no palette.
func Presets(prop string) []string {
	var list []Props
	switch prop {
	case "color":
		list = DefaultColors()
	case "diameter":
		list = DefaultSizes()
	case "shaft-width":
		list = DefaultArrayWidths()
	case "icon-code":
		list = DefaultIconCodes()
	default:
		return nil
	}
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p[prop]
	}
	return out
}
