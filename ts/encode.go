// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const xmlProlog = "<?xml version='1.0' encoding='UTF-8'?>\n"

var (
	// A raw CR would be folded into LF when the document is read back.
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\r", "&#13;", "\n", "&#10;", "\t", "&#9;")
)

// Encode writes c as a TS document in lupdate layout.
//
// Text content is written verbatim apart from entity escaping, so
// multi-line sources survive a round trip unchanged.
func (c *Catalog) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := encoder{w: bw}

	e.str(xmlProlog)
	e.str("<TS")
	e.attr("version", c.Version)
	e.attr("language", c.Language)
	e.attr("sourcelanguage", c.SourceLanguage)
	e.str(">\n")

	for _, ctx := range c.Contexts {
		e.str("<context>\n")
		e.element("    ", "name", "", ctx.Name)

		for _, m := range ctx.Messages {
			e.message(m)
		}

		e.str("</context>\n")
	}

	e.str("</TS>\n")

	if e.err != nil {
		return e.err
	}

	return bw.Flush()
}

// encoder accumulates the first write error so call sites stay linear.
type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}

	_, e.err = e.w.WriteString(s)
}

func (e *encoder) attr(name, value string) {
	if value == "" {
		return
	}

	e.str(" " + name + `="` + attrEscaper.Replace(value) + `"`)
}

// element writes <name attrs>text</name>, self-closing when text is empty.
func (e *encoder) element(indent, name, attrs, text string) {
	e.str(indent + "<" + name + attrs)

	if text == "" {
		e.str(" />\n")

		return
	}

	e.str(">" + textEscaper.Replace(text) + "</" + name + ">\n")
}

func (e *encoder) optional(name, text string) {
	if text != "" {
		e.element("        ", name, "", text)
	}
}

func (e *encoder) message(m *Message) {
	e.str("    <message")
	e.attr("id", m.ID)
	e.str(">\n")

	for _, loc := range m.Locations {
		e.str(`        <location filename="` + attrEscaper.Replace(loc.Filename) + `"`)

		if loc.Line != 0 {
			e.str(` line="` + strconv.Itoa(loc.Line) + `"`)
		}

		e.str(" />\n")
	}

	e.element("        ", "source", "", m.Source)
	e.optional("oldsource", m.OldSource)
	e.optional("extracomment", m.ExtraComment)
	e.optional("translatorcomment", m.TranslatorComment)

	var attrs string
	if m.Type != TypeNone {
		attrs = ` type="` + string(m.Type) + `"`
	}

	e.element("        ", "translation", attrs, m.Translation)
	e.str("    </message>\n")
}
