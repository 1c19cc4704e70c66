// Package ui styles the CLI's progress lines with lipgloss.
//
// A [Palette] carries title, ok, error, warning and help styles. [ForWriter] binds it to the output stream,
// so piping the output to a file or test buffer yields plain text.
package ui
