package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// nestedSVG is an <svg> element inside the document that <use> elements
// point at.
type nestedSVG struct {
	attrs      []xml.Attr
	start, end int64
	inner      []byte
}

type useRef struct {
	id         string
	transform  string
	opacity    string
	start, end int64
}

type splice struct {
	start, end int64
	text       string
}

// placement attributes of a nested <svg>, consumed by the view box matrix
var placementAttrs = map[string]bool{
	"id":                  true,
	"x":                   true,
	"y":                   true,
	"width":               true,
	"height":              true,
	"viewBox":             true,
	"preserveAspectRatio": true,
	"version":             true,
	"xmlns":               true,
}

func attrValue(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

func length(attrs []xml.Attr, local string) (float64, bool) {
	v, ok := attrValue(attrs, local)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	return f, err == nil && f > 0
}

// matrix maps the view box of the element onto its width and height,
// centered with a uniform scale.
func (n *nestedSVG) matrix() (scale, dx, dy float64) {
	value, ok := attrValue(n.attrs, "viewBox")
	if !ok {
		return 1, 0, 0
	}
	vb, err := parseViewBox(value)
	if err != nil || vb[2] <= 0 || vb[3] <= 0 {
		return 1, 0, 0
	}

	w, wok := length(n.attrs, "width")
	h, hok := length(n.attrs, "height")
	if !wok {
		w = vb[2]
	}
	if !hok {
		h = vb[3]
	}

	scale = math.Min(w/vb[2], h/vb[3])
	dx = (w-vb[2]*scale)/2 - vb[0]*scale
	dy = (h-vb[3]*scale)/2 - vb[1]*scale
	return scale, dx, dy
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	xml.EscapeText(b, []byte(value))
	b.WriteByte('"')
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// inline returns the group drawn in place of a <use> of n.
func (n *nestedSVG) inline(u *useRef) string {
	var b strings.Builder

	b.WriteString("<g")
	if u.transform != "" {
		writeAttr(&b, "transform", u.transform)
	}
	if u.opacity != "" {
		writeAttr(&b, "opacity", u.opacity)
	}
	b.WriteString("><g")

	scale, dx, dy := n.matrix()
	writeAttr(&b, "transform", "matrix("+formatFloat(scale)+" 0 0 "+formatFloat(scale)+" "+
		formatFloat(dx)+" "+formatFloat(dy)+")")
	for _, attr := range n.attrs {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && placementAttrs[attr.Name.Local]) {
			continue
		}
		name := attr.Name.Local
		if attr.Name.Space != "" {
			name = attr.Name.Space + ":" + name
		}
		writeAttr(&b, name, attr.Value)
	}
	b.WriteByte('>')
	b.Write(n.inner)
	b.WriteString("</g></g>")

	return b.String()
}

// inlineNestedSVG replaces every <use> of a nested <svg> by a group holding
// its content, scaled from its view box, and drops the nested elements.
// oksvg expands <use> but ignores the view box of the element it points at.
func inlineNestedSVG(doc []byte) ([]byte, error) {
	type open struct {
		def        *nestedSVG
		use        *useRef
		innerStart int64
	}

	dec := xml.NewDecoder(bytes.NewReader(doc))
	defs := make(map[string]*nestedSVG)
	var uses []*useRef
	var stack []open
	inDef := 0

	for {
		off := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("native: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var o open
			if inDef == 0 && len(stack) > 0 {
				switch t.Name.Local {
				case "svg":
					if id, ok := attrValue(t.Attr, "id"); ok {
						o.def = &nestedSVG{attrs: t.Copy().Attr, start: off}
						o.innerStart = dec.InputOffset()
						defs[id] = o.def
						inDef++
					}
				case "use":
					for _, attr := range t.Attr {
						if attr.Name.Local == "href" && strings.HasPrefix(attr.Value, "#") {
							o.use = &useRef{id: attr.Value[1:], start: off}
						}
					}
					if o.use != nil {
						o.use.transform, _ = attrValue(t.Attr, "transform")
						o.use.opacity, _ = attrValue(t.Attr, "opacity")
					}
				}
			}
			stack = append(stack, o)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("native: unbalanced document")
			}
			o := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if o.def != nil {
				o.def.inner = doc[o.innerStart:off]
				o.def.end = dec.InputOffset()
				inDef--
			}
			if o.use != nil {
				o.use.end = dec.InputOffset()
				uses = append(uses, o.use)
			}
		}
	}

	if len(defs) == 0 {
		return doc, nil
	}

	var splices []splice
	for _, def := range defs {
		splices = append(splices, splice{start: def.start, end: def.end})
	}
	for _, u := range uses {
		if def, ok := defs[u.id]; ok {
			splices = append(splices, splice{start: u.start, end: u.end, text: def.inline(u)})
		}
	}
	sort.Slice(splices, func(i, j int) bool { return splices[i].start < splices[j].start })

	var out bytes.Buffer
	var pos int64
	for _, s := range splices {
		out.Write(doc[pos:s.start])
		out.WriteString(s.text)
		pos = s.end
	}
	out.Write(doc[pos:])

	return out.Bytes(), nil
}
