package elements

import (
	"strings"

	"github.com/dgallion1/docreview/internal/bbox"
)

// Type is the structural category of an extracted element.
type Type int

const (
	TypeOther Type = iota
	TypeTitle
	TypeHeader
	TypeParagraph
	TypeTable
	TypeFigure
)

// ParseType maps the extraction service's type name onto a Type.
// Unrecognized names map to TypeOther.
func ParseType(name string) Type {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title":
		return TypeTitle
	case "header":
		return TypeHeader
	case "paragraph":
		return TypeParagraph
	case "table":
		return TypeTable
	case "figure":
		return TypeFigure
	default:
		return TypeOther
	}
}

func (t Type) String() string {
	switch t {
	case TypeTitle:
		return "title"
	case TypeHeader:
		return "header"
	case TypeParagraph:
		return "paragraph"
	case TypeTable:
		return "table"
	case TypeFigure:
		return "figure"
	default:
		return "other"
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	*t = ParseType(string(b))
	return nil
}

// Style is the presentation of an overlay outline.
type Style struct {
	BorderClass string `json:"border_class"`
	Color       string `json:"color"`
}

// StyleFor returns the outline style for t.
func StyleFor(t Type) Style {
	switch t {
	case TypeTitle:
		return Style{BorderClass: "border-red-500", Color: "#ef4444"}
	case TypeHeader:
		return Style{BorderClass: "border-blue-500", Color: "#3b82f6"}
	case TypeParagraph:
		return Style{BorderClass: "border-green-500", Color: "#22c55e"}
	case TypeTable:
		return Style{BorderClass: "border-purple-500", Color: "#a855f7"}
	case TypeFigure:
		return Style{BorderClass: "border-yellow-500", Color: "#eab308"}
	default:
		return Style{BorderClass: "border-gray-500", Color: "#6b7280"}
	}
}

// Element is one structural region detected by the extraction service.
type Element struct {
	Type Type               `json:"type"`
	Name string             `json:"name"` // type name as reported, kept for TypeOther
	Box  bbox.NormalizedBox `json:"box"`
	Page int                `json:"page"`
}

// Label is the human-readable category of the element.
func (e Element) Label() string {
	if e.Type == TypeOther && e.Name != "" {
		return e.Name
	}
	return e.Type.String()
}
