//go:build js
// +build js

package ui

// Theme holds all visual styling constants for easy customization.
var Theme = struct {
	BackgroundColor string

	// Grid cells
	CellOffColor    string
	CellAccentColor string
	CellOnColor     string
	CellFlashColor  string
	CellBorderColor string

	// Playhead column
	PlayheadColor string

	// Text
	LabelColor   string
	LabelFont    string
	HeaderColor  string
	HeaderFont   string
	StoppedColor string

	// Spectrum bars
	SpectrumColor string
	SpectrumGlow  string
}{
	BackgroundColor: "#10141a",

	CellOffColor:    "#1d242e",
	CellAccentColor: "#242e3c",
	CellOnColor:     "0,229,255",
	CellFlashColor:  "rgba(255,255,255,0.85)",
	CellBorderColor: "#0a0c10",

	PlayheadColor: "rgba(255,255,255,0.08)",

	LabelColor:   "#7d8ba1",
	LabelFont:    "13px monospace",
	HeaderColor:  "#e8eef7",
	HeaderFont:   "bold 16px monospace",
	StoppedColor: "#7d8ba1",

	SpectrumColor: "#00e5ff",
	SpectrumGlow:  "#005f6b",
}
