// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Translatable is a value that can translate itself using a context.
// Types such as [MsgID] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgID is a message id such as "units.pixels".
//
// MsgID implements templ.Component, so it can be placed directly in
// templates.
type MsgID string

// Tr translates this id in the locale carried by ctx.
// It is equivalent to calling [Tr] with the same id.
func (id MsgID) Tr(ctx context.Context) string {
	return Tr(ctx, string(id))
}

// Render writes the HTML-escaped translation.
func (id MsgID) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(id.Tr(ctx)))

	return err
}

var _ templ.Component = MsgID("")
