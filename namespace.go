package chessprite

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// PieceDef is the vector definition of one piece, rewritten so that it can
// share a document with the other eleven.
type PieceDef struct {
	Piece Piece
	// Markup is an <svg> element whose id is the piece code.
	Markup []byte
	// IDs and Classes are the rewritten identifiers and class names, each
	// listed once.
	IDs     []string
	Classes []string
}

var (
	urlRefPattern  = regexp.MustCompile(`url\((['"]?)#`)
	selectorName   = regexp.MustCompile(`([.#])(-?[A-Za-z_][\w-]*)`)
	numericPattern = regexp.MustCompile(`^\s*([0-9.]+)\s*(px)?\s*$`)
	entityDecl     = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
)

type namespacer struct {
	prefix  string
	ids     []string
	classes []string
	seen    map[string]bool
}

func (n *namespacer) record(list *[]string, name string) {
	if n.seen[name] {
		return
	}
	n.seen[name] = true
	*list = append(*list, name)
}

func (n *namespacer) rewriteAttr(attr xml.Attr) xml.Attr {
	switch {
	case attr.Name.Space == "" && attr.Name.Local == "id":
		attr.Value = n.prefix + attr.Value
		n.record(&n.ids, attr.Value)
		return attr
	case attr.Name.Space == "" && attr.Name.Local == "class":
		fields := strings.Fields(attr.Value)
		for i, class := range fields {
			fields[i] = n.prefix + class
			n.record(&n.classes, fields[i])
		}
		attr.Value = strings.Join(fields, " ")
		return attr
	case attr.Name.Local == "href" && strings.HasPrefix(attr.Value, "#"):
		attr.Value = "#" + n.prefix + attr.Value[1:]
		return attr
	}

	attr.Value = n.rewriteURLs(attr.Value)
	return attr
}

func (n *namespacer) rewriteURLs(s string) string {
	if !strings.Contains(s, "url(") {
		return s
	}
	return urlRefPattern.ReplaceAllString(s, "url(${1}#"+n.prefix)
}

func (n *namespacer) rewriteSelectors(s string) string {
	return selectorName.ReplaceAllStringFunc(s, func(m string) string {
		name := n.prefix + m[1:]
		if m[0] == '.' {
			n.record(&n.classes, name)
		}
		return m[:1] + name
	})
}

// rewriteStyle prefixes class and id selectors of a style sheet at any block
// depth. Text before a '{' is a selector unless it starts an at-rule; text
// before a '}' is declarations, where only url() references change, so
// colors like #fff stay intact.
func (n *namespacer) rewriteStyle(css string) string {
	var out strings.Builder
	start := 0

	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '{':
			prelude := css[start:i]
			if j := strings.LastIndexByte(prelude, ';'); j >= 0 {
				out.WriteString(n.rewriteURLs(prelude[:j+1]))
				prelude = prelude[j+1:]
			}
			if !strings.HasPrefix(strings.TrimSpace(prelude), "@") {
				prelude = n.rewriteSelectors(prelude)
			}
			out.WriteString(prelude)
			out.WriteByte('{')
			start = i + 1
		case '}':
			out.WriteString(n.rewriteURLs(css[start:i]))
			out.WriteByte('}')
			start = i + 1
		}
	}
	out.WriteString(n.rewriteURLs(css[start:]))

	return out.String()
}

// declaredEntities returns the general entities of a DOCTYPE internal
// subset, as written by vector editors for namespace URLs.
func declaredEntities(directive []byte) map[string]string {
	var entities map[string]string
	for _, m := range entityDecl.FindAllSubmatch(directive, -1) {
		if entities == nil {
			entities = make(map[string]string)
		}
		value := m[2]
		if m[3] != nil {
			value = m[3]
		}
		entities[string(m[1])] = string(value)
	}
	return entities
}

// flattenName keeps namespace prefixes literal. The tokens come from
// RawToken, so Space holds the prefix as written rather than a URL.
func flattenName(name xml.Name) xml.Name {
	if name.Space == "" {
		return name
	}
	return xml.Name{Local: name.Space + ":" + name.Local}
}

func setAttr(attrs []xml.Attr, local, value string) []xml.Attr {
	for i, attr := range attrs {
		if attr.Name.Space == "" && attr.Name.Local == local {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

func getAttr(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

func svgLength(s string) (float64, bool) {
	m := numericPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

// resizeRoot makes the root element exactly one square, keeping the drawing
// coordinates through its view box.
func resizeRoot(attrs []xml.Attr, code string, size int) []xml.Attr {
	if _, ok := getAttr(attrs, "viewBox"); !ok {
		w, wok := getAttr(attrs, "width")
		h, hok := getAttr(attrs, "height")
		if wok && hok {
			wv, wok := svgLength(w)
			hv, hok := svgLength(h)
			if wok && hok {
				attrs = setAttr(attrs, "viewBox", "0 0 "+formatFloat(wv)+" "+formatFloat(hv))
			}
		}
	}

	sz := strconv.Itoa(size)
	attrs = setAttr(attrs, "width", sz)
	attrs = setAttr(attrs, "height", sz)
	return setAttr(attrs, "id", code)
}

// namespacePiece parses one piece document and rewrites every identifier and
// class name with the piece code as prefix.
func namespacePiece(rd io.Reader, p Piece, size int) (*PieceDef, error) {
	code := p.Code()
	n := &namespacer{
		prefix: code + "-",
		seen:   make(map[string]bool),
	}

	dec := xml.NewDecoder(rd)
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	depth := 0
	rootDone := false
	inStyle := false
	rootID := ""

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootDone {
				return nil, errors.New("content after root element")
			}

			t = t.Copy()
			attrs := t.Attr[:0]
			for _, attr := range t.Attr {
				if depth == 0 && attr.Name.Space == "" && attr.Name.Local == "id" {
					// moved to a wrapper group, the root takes the piece code
					rootID = attr.Value
					continue
				}
				attr = n.rewriteAttr(attr)
				attr.Name = flattenName(attr.Name)
				attrs = append(attrs, attr)
			}
			t.Attr = attrs
			if depth == 0 {
				if t.Name.Local != "svg" || t.Name.Space != "" {
					return nil, errors.New("root element is not <svg>")
				}
				t.Attr = resizeRoot(t.Attr, code, size)
				n.record(&n.ids, code)
			}

			inStyle = t.Name.Local == "style"
			t.Name = flattenName(t.Name)
			depth++

			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}

			if depth == 1 && rootID != "" {
				wrapper := n.rewriteAttr(xml.Attr{Name: xml.Name{Local: "id"}, Value: rootID})
				err := enc.EncodeToken(xml.StartElement{
					Name: xml.Name{Local: "g"},
					Attr: []xml.Attr{wrapper},
				})
				if err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			depth--
			inStyle = false
			if depth == 0 {
				rootDone = true
				if rootID != "" {
					if err := enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "g"}}); err != nil {
						return nil, err
					}
				}
			}
			if err := enc.EncodeToken(xml.EndElement{Name: flattenName(t.Name)}); err != nil {
				return nil, err
			}
		case xml.Directive:
			if depth == 0 && !rootDone {
				if entities := declaredEntities(t); entities != nil {
					dec.Entity = entities
				}
			}
		case xml.CharData:
			if depth == 0 {
				continue
			}
			data := t.Copy()
			if inStyle {
				data = xml.CharData(n.rewriteStyle(string(data)))
			}
			if err := enc.EncodeToken(data); err != nil {
				return nil, err
			}
		}
	}

	if !rootDone || depth != 0 {
		return nil, io.ErrUnexpectedEOF
	}

	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return &PieceDef{
		Piece:   p,
		Markup:  buf.Bytes(),
		IDs:     n.ids,
		Classes: n.classes,
	}, nil
}
