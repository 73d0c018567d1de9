// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import "slices"

// FormatVersion is the TS schema version written by NewCatalog.
const FormatVersion = "2.1"

// TranslationType is the value of the type attribute on <translation>.
type TranslationType string

// Translation types understood by Qt Linguist. TypeNone means the
// attribute is absent, which Qt treats as a finished translation.
const (
	TypeNone       TranslationType = ""
	TypeFinished   TranslationType = "finished"
	TypeUnfinished TranslationType = "unfinished"
	TypeObsolete   TranslationType = "obsolete"
	TypeVanished   TranslationType = "vanished"
)

// Finished reports whether a translation of this type is authoritative.
func (t TranslationType) Finished() bool {
	return t == TypeNone || t == TypeFinished
}

// Location is an advisory reference into application source.
type Location struct {
	Filename string
	Line     int
}

// Message is one translatable string record.
type Message struct {
	ID                string
	Locations         []Location
	Source            string
	OldSource         string
	ExtraComment      string
	TranslatorComment string
	Translation       string
	Type              TranslationType
}

// Resolved returns the translation when it is finished and non-empty.
func (m *Message) Resolved() (string, bool) {
	if m == nil || !m.Type.Finished() || m.Translation == "" {
		return "", false
	}

	return m.Translation, true
}

// Clone returns a deep copy of m.
func (m *Message) Clone() *Message {
	out := *m
	out.Locations = slices.Clone(m.Locations)

	return &out
}

// Context groups messages under a (possibly empty) name.
type Context struct {
	Name     string
	Messages []*Message
}

// Catalog is a parsed .ts file.
//
// A Catalog is safe for concurrent reads once constructed. Mutating
// methods must not run concurrently with readers.
type Catalog struct {
	Version        string
	Language       string
	SourceLanguage string
	Contexts       []*Context

	index      map[string]*Message
	duplicates []string
}

// NewCatalog returns an empty catalog with a single unnamed context.
func NewCatalog(language, sourceLanguage string) *Catalog {
	c := &Catalog{
		Version:        FormatVersion,
		Language:       language,
		SourceLanguage: sourceLanguage,
		Contexts:       []*Context{{}},
	}
	c.reindex()

	return c
}

// Append adds m to the context named contextName, creating the context
// at the end of the catalog if needed.
func (c *Catalog) Append(contextName string, m *Message) {
	var target *Context

	for _, ctx := range c.Contexts {
		if ctx.Name == contextName {
			target = ctx

			break
		}
	}

	if target == nil {
		target = &Context{Name: contextName}
		c.Contexts = append(c.Contexts, target)
	}

	target.Messages = append(target.Messages, m)

	if c.index == nil {
		c.reindex()

		return
	}

	if _, ok := c.index[m.ID]; ok {
		c.duplicates = append(c.duplicates, m.ID)
	} else if m.ID != "" {
		c.index[m.ID] = m
	}
}

// Messages returns every message in document order.
func (c *Catalog) Messages() []*Message {
	var out []*Message

	for _, ctx := range c.Contexts {
		out = append(out, ctx.Messages...)
	}

	return out
}

// Len returns the number of messages.
func (c *Catalog) Len() int {
	n := 0

	for _, ctx := range c.Contexts {
		n += len(ctx.Messages)
	}

	return n
}

// Lookup returns the first message with the given id.
func (c *Catalog) Lookup(id string) (*Message, bool) {
	if c == nil {
		return nil, false
	}

	m, ok := c.index[id]

	return m, ok
}

// Duplicates returns ids that occur more than once, in document order of
// their repeated occurrence.
func (c *Catalog) Duplicates() []string {
	return slices.Clone(c.duplicates)
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Version:        c.Version,
		Language:       c.Language,
		SourceLanguage: c.SourceLanguage,
	}

	for _, ctx := range c.Contexts {
		nc := &Context{Name: ctx.Name, Messages: make([]*Message, 0, len(ctx.Messages))}
		for _, m := range ctx.Messages {
			nc.Messages = append(nc.Messages, m.Clone())
		}

		out.Contexts = append(out.Contexts, nc)
	}

	out.reindex()

	return out
}

// filter keeps the messages for which keep returns true.
func (c *Catalog) filter(keep func(*Message) bool) {
	for _, ctx := range c.Contexts {
		ctx.Messages = slices.DeleteFunc(ctx.Messages, func(m *Message) bool { return !keep(m) })
	}

	c.reindex()
}

// reindex rebuilds the id index. The first occurrence of an id wins.
func (c *Catalog) reindex() {
	c.index = make(map[string]*Message, c.Len())
	c.duplicates = nil

	for _, ctx := range c.Contexts {
		for _, m := range ctx.Messages {
			if m.ID == "" {
				continue
			}

			if _, ok := c.index[m.ID]; ok {
				c.duplicates = append(c.duplicates, m.ID)

				continue
			}

			c.index[m.ID] = m
		}
	}
}
