// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every *ParseError.
var ErrMalformed = errors.New("malformed ts catalog")

// ParseError describes a catalogue that could not be decoded.
type ParseError struct {
	Name string // file name, if known
	Err  error
}

func (e *ParseError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %v", ErrMalformed, e.Err)
	}

	return fmt.Sprintf("%v: %s: %v", ErrMalformed, e.Name, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

type xmlTS struct {
	XMLName        xml.Name     `xml:"TS"`
	Version        string       `xml:"version,attr"`
	Language       string       `xml:"language,attr"`
	SourceLanguage string       `xml:"sourcelanguage,attr"`
	Contexts       []xmlContext `xml:"context"`
}

type xmlContext struct {
	Name     string       `xml:"name"`
	Messages []xmlMessage `xml:"message"`
}

type xmlMessage struct {
	ID                string         `xml:"id,attr"`
	Locations         []xmlLocation  `xml:"location"`
	Source            string         `xml:"source"`
	OldSource         string         `xml:"oldsource"`
	ExtraComment      string         `xml:"extracomment"`
	TranslatorComment string         `xml:"translatorcomment"`
	Translation       xmlTranslation `xml:"translation"`
}

type xmlLocation struct {
	Filename string `xml:"filename,attr"`
	Line     string `xml:"line,attr"`
}

type xmlTranslation struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// Parse decodes a TS document from r.
//
// Malformed XML, a root element other than <TS> or content after the root
// yields a *ParseError.
// Messages without an id are kept; [Validate] reports them.
func Parse(r io.Reader) (*Catalog, error) {
	var doc xmlTS

	dec := xml.NewDecoder(r)
	// Catalogues written by older tools declare encodings other than UTF-8
	// in the prolog even though the payload is plain ASCII/UTF-8.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	if err := expectEOF(dec); err != nil {
		return nil, &ParseError{Err: err}
	}

	c := &Catalog{
		Version:        doc.Version,
		Language:       doc.Language,
		SourceLanguage: doc.SourceLanguage,
		Contexts:       make([]*Context, 0, len(doc.Contexts)),
	}

	for _, xc := range doc.Contexts {
		ctx := &Context{
			Name:     strings.TrimSpace(xc.Name),
			Messages: make([]*Message, 0, len(xc.Messages)),
		}

		for _, xm := range xc.Messages {
			m, err := xm.message()
			if err != nil {
				return nil, &ParseError{Err: err}
			}

			ctx.Messages = append(ctx.Messages, m)
		}

		c.Contexts = append(c.Contexts, ctx)
	}

	c.reindex()

	return c, nil
}

// expectEOF consumes what follows the root element. Only whitespace,
// comments and processing instructions may appear there.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		line, _ := dec.InputPos()

		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return fmt.Errorf("line %d: text after the root element", line)
			}
		case xml.StartElement:
			return fmt.Errorf("line %d: element <%s> after the root element", line, t.Name.Local)
		default:
			return fmt.Errorf("line %d: unexpected %T after the root element", line, tok)
		}
	}
}

// ParseFile opens name in fsys and decodes it.
func ParseFile(fsys fs.FS, name string) (*Catalog, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", name, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Name = name
		}

		return nil, err
	}

	return c, nil
}

func (xm xmlMessage) message() (*Message, error) {
	m := &Message{
		ID:                xm.ID,
		Source:            xm.Source,
		OldSource:         xm.OldSource,
		ExtraComment:      xm.ExtraComment,
		TranslatorComment: xm.TranslatorComment,
		Translation:       xm.Translation.Text,
		Type:              TranslationType(xm.Translation.Type),
	}

	if len(xm.Locations) > 0 {
		m.Locations = make([]Location, 0, len(xm.Locations))
	}

	for _, xl := range xm.Locations {
		loc := Location{Filename: xl.Filename}

		if xl.Line != "" {
			line, err := strconv.Atoi(xl.Line)
			if err != nil {
				return nil, fmt.Errorf("message %q: invalid location line %q: %w", xm.ID, xl.Line, err)
			}

			loc.Line = line
		}

		m.Locations = append(m.Locations, loc)
	}

	return m, nil
}
