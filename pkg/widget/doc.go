// Package widget provides the concrete controls bindings push values into
// and read values from.
//
// Every control embeds *object.Object, so it can be deleted, styled and
// hooked like any other object. Programmatic setters (SetValue,
// SetSelected, SetText, SetChecked) never send object.EventValueChanged.
// The interaction entry points (Drag, Select, Click) change the value the
// way a user would and send it when the value actually changed.
package widget
