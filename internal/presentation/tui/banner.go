package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the docu banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"     _                 ", "#818cf8"},
		{"  __| | ___   ___ _   _", "#a78bfa"},
		{" / _` |/ _ \\ / __| | | |", "#c084fc"},
		{"| (_| | (_) | (__| |_| |", "#e879f9"},
		{" \\__,_|\\___/ \\___|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
